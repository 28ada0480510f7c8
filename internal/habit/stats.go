package habit

import (
	"sort"
	"time"

	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/models"
)

// Stats builds the full stats payload for a habit: streak and freeze blocks
// plus mode-specific metrics. Today's unlocked progress is folded in so the
// numbers match what the status endpoint reports.
func (e *Engine) Stats(habitID string) (models.Stats, error) {
	h, st, err := e.sync(habitID)
	if err != nil {
		return models.Stats{}, err
	}

	p, err := e.todayProgress(h)
	if err != nil {
		return models.Stats{}, err
	}
	todayPass := !p.frozen && e.todayPass(h, p)

	today := e.today()
	streaks, start := displayStreaks(st, todayPass, today)

	stats := models.Stats{
		HabitType:        h.Type(),
		DaysSinceCreated: e.daysSince(h.CreatedAt, today),
		StreakStartDate:  start,
		Streaks:          streaks,
		Freezes: models.Freezes{
			Used:      st.FreezesUsed,
			Remaining: remainingFreezes(h, st),
		},
	}

	if h.IsTimer {
		stats.Metrics, err = e.timerMetrics(h, today)
	} else {
		stats.Metrics, err = e.manualMetrics(h, st, today, todayPass)
	}
	if err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

func (e *Engine) todayPass(h models.Habit, p todayProgress) bool {
	if h.IsTimer {
		return p.totalSeconds >= h.DailyTargetSeconds
	}
	return p.completed
}

// daysSince counts whole days from a creation instant to today in the
// account timezone.
func (e *Engine) daysSince(createdAt time.Time, today string) int {
	created, err := time.ParseInLocation(constants.DateFormat, e.dayOf(createdAt), e.location())
	if err != nil {
		return 0
	}
	now, err := time.ParseInLocation(constants.DateFormat, today, e.location())
	if err != nil {
		return 0
	}
	days := int(now.Sub(created).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func (e *Engine) timerMetrics(h models.Habit, today string) (*models.TimerMetrics, error) {
	sessions, err := e.store.GetFinalizedSessions(h.ID)
	if err != nil {
		return nil, err
	}

	startDay := e.dayOf(h.CreatedAt)
	totals, err := e.store.GetDayTotals(h.ID, startDay, today)
	if err != nil {
		return nil, err
	}

	m := &models.TimerMetrics{SessionsCount: len(sessions)}

	var sessionMinutes []float64
	var sum float64
	for _, s := range sessions {
		minutes := float64(s.DurationSeconds) / 60
		sessionMinutes = append(sessionMinutes, minutes)
		sum += minutes
	}
	if len(sessionMinutes) > 0 {
		m.AvgSessionMinutes = round1(sum / float64(len(sessionMinutes)))
		m.MedianSessionMinutes = round1(median(sessionMinutes))
	}

	weekStart := periodStart(today, constants.RefillWeekly, e.location())
	monthStart := periodStart(today, constants.RefillMonthly, e.location())

	var totalSeconds, bestDay, week, month int
	for day, seconds := range totals {
		totalSeconds += seconds
		if seconds > bestDay {
			bestDay = seconds
		}
		if day >= weekStart {
			week += seconds
		}
		if day >= monthStart {
			month += seconds
		}
	}
	m.TotalTimeMinutes = totalSeconds / 60
	m.BestDayMinutes = bestDay / 60
	m.ThisWeekMinutes = week / 60
	m.ThisMonthMinutes = month / 60

	return m, nil
}

func (e *Engine) manualMetrics(h models.Habit, st models.StreakState, today string, todayPass bool) (*models.ManualMetrics, error) {
	completions, err := e.store.CountCompletions(h.ID)
	if err != nil {
		return nil, err
	}
	last, err := e.store.LastCompletionDay(h.ID)
	if err != nil {
		return nil, err
	}

	m := &models.ManualMetrics{
		TotalCompletions:  completions,
		BestStreak:        st.BestStreak,
		LastCompletedDate: last,
	}
	if todayPass && st.CurrentStreak+1 > m.BestStreak {
		m.BestStreak = st.CurrentStreak + 1
	}

	if days := e.daysSince(h.CreatedAt, today) + 1; days > 0 {
		m.CompletionRatePercent = round1(float64(completions) / float64(days) * 100)
	}
	return m, nil
}

// median of an unsorted slice; averages the middle pair for even lengths.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
