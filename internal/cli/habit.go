package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitd/internal/models"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with today's status."`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit's definition."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
}

type HabitAddCmd struct {
	Name            string  `arg:"" help:"Habit name."`
	Description     string  `help:"Optional description." default:""`
	Manual          bool    `help:"Track by daily completion instead of a timer."`
	Target          int     `help:"Daily target in minutes (timer habits)." default:"30"`
	ManualOverride  bool    `name:"allow-manual-entry" help:"Allow manual time entry (timer habits)."`
	Freezable       bool    `help:"Allow freezes to protect the streak."`
	FreezeAllowance int     `help:"Freezes per refill period." default:"0"`
	DangerPct       float64 `name:"danger-pct" help:"Fraction of the target where 'in danger' begins." default:"0"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}

	h := models.Habit{
		Name:                c.Name,
		Description:         c.Description,
		IsTimer:             !c.Manual,
		AllowManualOverride: c.ManualOverride,
		IsFreezable:         c.Freezable,
		FreezeAllowance:     c.FreezeAllowance,
		DangerStartPct:      c.DangerPct,
	}
	if h.IsTimer {
		h.DailyTargetSeconds = c.Target * 60
	}

	created, err := api.CreateHabit(h)
	if err != nil {
		return err
	}

	fmt.Printf("Added %s habit %q (%s)\n", created.Type(), created.Name, shortID(created.ID))
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}

	habits, err := api.ListHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits yet. Add one with 'habitd habit add'.")
		return nil
	}

	for _, h := range habits {
		status, err := api.Status(h.ID)
		if err != nil {
			return err
		}

		detail := ""
		if h.IsTimer {
			detail = fmt.Sprintf("target %s", FormatDuration(h.DailyTargetSeconds))
		}
		fmt.Printf("%-10s %-30s %s %s\n", shortID(h.ID), h.Name, renderStatus(status), detail)
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(api, c.Habit)
	if err != nil {
		return err
	}

	fmt.Printf("Name:        %s\n", h.Name)
	if h.Description != "" {
		fmt.Printf("Description: %s\n", h.Description)
	}
	fmt.Printf("ID:          %s\n", h.ID)
	fmt.Printf("Type:        %s\n", h.Type())
	if h.IsTimer {
		fmt.Printf("Target:      %s/day\n", FormatDuration(h.DailyTargetSeconds))
		fmt.Printf("Manual entry: %v\n", h.AllowManualOverride)
		fmt.Printf("Danger from: %.0f%% of target\n", h.DangerStartPct*100)
	}
	fmt.Printf("Freezable:   %v\n", h.IsFreezable)
	if h.IsFreezable {
		fmt.Printf("Allowance:   %d per period\n", h.FreezeAllowance)
	}
	fmt.Printf("Created:     %s\n", h.CreatedAt.Format("2006-01-02"))
	return nil
}

type HabitEditCmd struct {
	Habit           string   `arg:"" help:"Habit name or id."`
	Name            *string  `help:"New name."`
	Description     *string  `help:"New description."`
	Target          *int     `help:"New daily target in minutes."`
	ManualOverride  *bool    `name:"allow-manual-entry" help:"Allow manual time entry."`
	Freezable       *bool    `help:"Allow freezes."`
	FreezeAllowance *int     `help:"Freezes per refill period."`
	DangerPct       *float64 `name:"danger-pct" help:"Fraction of the target where 'in danger' begins."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(api, c.Habit)
	if err != nil {
		return err
	}

	patch := models.HabitPatch{
		Name:                c.Name,
		Description:         c.Description,
		AllowManualOverride: c.ManualOverride,
		IsFreezable:         c.Freezable,
		FreezeAllowance:     c.FreezeAllowance,
		DangerStartPct:      c.DangerPct,
	}
	if c.Target != nil {
		seconds := *c.Target * 60
		patch.DailyTargetSeconds = &seconds
	}

	updated, err := api.UpdateHabit(h.ID, patch)
	if err != nil {
		return err
	}
	fmt.Printf("Updated habit %q\n", updated.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Yes   bool   `help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(api, c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		fmt.Printf("Delete habit %q and all of its history? [y/N] ", h.Name)
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := api.DeleteHabit(h.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit %q\n", h.Name)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
