package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitd/internal/models"
)

type StartCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

func (c *StartCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(api, c.Habit)
	if err != nil {
		return err
	}

	sess, err := api.StartSession(h.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Started %q at %s (session %s)\n", h.Name, sess.StartedAt.Local().Format("15:04:05"), shortID(sess.ID))
	return nil
}

type StopCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

func (c *StopCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(api, c.Habit)
	if err != nil {
		return err
	}

	res, err := api.StopActiveSession(h.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Stopped %q after %s\n", h.Name, FormatDuration(res.Session.DurationSeconds))
	if res.TargetSeconds > 0 {
		fmt.Printf("Today: %s of %s\n", FormatDuration(res.DayTotalSeconds), FormatDuration(res.TargetSeconds))
	}
	return nil
}

type LogCmd struct {
	Habit   string `arg:"" help:"Habit name or id."`
	Minutes int    `arg:"" optional:"" help:"Minutes to record manually (omit to show the log)."`
	Note    string `help:"Optional note." default:""`
}

func (c *LogCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(api, c.Habit)
	if err != nil {
		return err
	}

	if c.Minutes == 0 {
		return c.showLog(api, h)
	}

	entry, err := api.CreateManualLog(h.ID, c.Minutes, c.Note)
	if err != nil {
		return err
	}
	fmt.Printf("Logged %s against %q for %s\n", FormatDuration(entry.DurationSeconds), h.Name, entry.Day)
	return nil
}

func (c *LogCmd) showLog(api API, h models.Habit) error {
	entries, err := api.ListLogs(h.ID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No log entries for %q yet.\n", h.Name)
		return nil
	}

	for _, e := range entries {
		kind := "session"
		switch {
		case e.IsCompletion:
			kind = "completed"
		case e.IsManual:
			kind = "manual"
		}
		line := fmt.Sprintf("%s  %-9s %8s", e.Day, kind, FormatDuration(e.DurationSeconds))
		if e.Note != "" {
			line += "  " + e.Note
		}
		fmt.Println(line)
	}
	return nil
}

type CompleteCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Note  string `help:"Optional note." default:""`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(api, c.Habit)
	if err != nil {
		return err
	}

	entry, err := api.Complete(h.ID, c.Note)
	if err != nil {
		return err
	}
	fmt.Printf("Completed %q for %s\n", h.Name, entry.Day)
	return nil
}

type FreezeCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

func (c *FreezeCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(api, c.Habit)
	if err != nil {
		return err
	}

	st, err := api.Freeze(h.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Froze %q for today. %d freeze(s) remaining.\n", h.Name, st.FreezesRemaining)
	return nil
}

type StatusCmd struct {
	Habit string `arg:"" optional:"" help:"Habit name or id (omit for all habits)."`
}

func (c *StatusCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}

	if c.Habit != "" {
		h, err := ResolveHabit(api, c.Habit)
		if err != nil {
			return err
		}
		return printStatusLine(api, h)
	}

	habits, err := api.ListHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits yet.")
		return nil
	}
	for _, h := range habits {
		if err := printStatusLine(api, h); err != nil {
			return err
		}
	}
	return nil
}

func printStatusLine(api API, h models.Habit) error {
	status, err := api.Status(h.ID)
	if err != nil {
		return err
	}

	extra := ""
	if sess, err := api.GetActiveSession(h.ID); err == nil && sess != nil {
		extra = fmt.Sprintf("  running %s", FormatDuration(int(time.Since(sess.StartedAt).Seconds())))
	}
	fmt.Printf("%-30s %s%s\n", h.Name, renderStatus(status), extra)
	return nil
}

type StatsCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(api, c.Habit)
	if err != nil {
		return err
	}

	stats, err := api.Stats(h.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s habit, tracked %d days)\n\n", h.Name, stats.HabitType, stats.DaysSinceCreated)
	fmt.Printf("Streak:   current %d, best %d", stats.Streaks.Current, stats.Streaks.Best)
	if stats.StreakStartDate != "" {
		fmt.Printf(" (since %s)", stats.StreakStartDate)
	}
	fmt.Println()
	if h.IsFreezable {
		fmt.Printf("Freezes:  %d used, %d remaining\n", stats.Freezes.Used, stats.Freezes.Remaining)
	}

	switch m := stats.Metrics.(type) {
	case *models.TimerMetrics:
		fmt.Println()
		fmt.Printf("Total time:      %dm\n", m.TotalTimeMinutes)
		fmt.Printf("Sessions:        %d (avg %.1fm, median %.1fm)\n", m.SessionsCount, m.AvgSessionMinutes, m.MedianSessionMinutes)
		fmt.Printf("Best day:        %dm\n", m.BestDayMinutes)
		fmt.Printf("This week:       %dm\n", m.ThisWeekMinutes)
		fmt.Printf("This month:      %dm\n", m.ThisMonthMinutes)
	case *models.ManualMetrics:
		fmt.Println()
		fmt.Printf("Completions:     %d (%.1f%% of days)\n", m.TotalCompletions, m.CompletionRatePercent)
		if m.LastCompletedDate != "" {
			fmt.Printf("Last completed:  %s\n", m.LastCompletedDate)
		}
	}
	return nil
}
