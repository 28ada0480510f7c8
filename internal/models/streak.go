package models

import "github.com/julianstephens/habitd/internal/constants"

// DayOutcome is the locked verdict for a habit on a past calendar day (or for
// today, once resolved by an explicit freeze). Outcomes are immutable once
// written.
type DayOutcome struct {
	HabitID      string `json:"habit_id"`
	Day          string `json:"day"`
	Outcome      string `json:"outcome"`
	TotalSeconds int    `json:"total_seconds"`
}

// StreakState is the cached accumulator advanced once per locked day. It is a
// pure function of the habit's outcome history plus its policy fields and is
// never the source of truth; storage only mutates it inside the day-lock and
// freeze transactions.
type StreakState struct {
	HabitID          string `json:"habit_id"`
	CurrentStreak    int    `json:"current_streak"`
	BestStreak       int    `json:"best_streak"`
	FreezesUsed      int    `json:"freezes_used"`
	FreezesRemaining int    `json:"freezes_remaining"`
	StreakStartDay   string `json:"streak_start_day,omitempty"`
	LastLockedDay    string `json:"last_locked_day"`
	LastRefillDay    string `json:"last_refill_day,omitempty"`
}

// Status is the user-facing classification of a habit for today.
type Status struct {
	Status   constants.HabitStatus `json:"status"`
	Color    string                `json:"color"`
	InDanger bool                  `json:"in_danger"`
}

// Streaks is the streak block of the stats payload.
type Streaks struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// Freezes is the freeze block of the stats payload.
type Freezes struct {
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// TimerMetrics aggregates finalized session and log history for timer habits.
type TimerMetrics struct {
	TotalTimeMinutes     int     `json:"total_time_minutes"`
	AvgSessionMinutes    float64 `json:"avg_session_minutes"`
	MedianSessionMinutes float64 `json:"median_session_minutes"`
	SessionsCount        int     `json:"sessions_count"`
	BestDayMinutes       int     `json:"best_day_minutes"`
	ThisWeekMinutes      int     `json:"this_week_minutes"`
	ThisMonthMinutes     int     `json:"this_month_minutes"`
}

// ManualMetrics aggregates completion history for manual habits.
type ManualMetrics struct {
	TotalCompletions      int     `json:"total_completions"`
	CompletionRatePercent float64 `json:"completion_rate_percent"`
	BestStreak            int     `json:"best_streak"`
	LastCompletedDate     string  `json:"last_completed_date,omitempty"`
}

// Stats is the full stats payload for a habit. Metrics holds a TimerMetrics
// or ManualMetrics depending on the tracking mode; the client switches on
// HabitType.
type Stats struct {
	HabitType        string  `json:"habit_type"`
	DaysSinceCreated int     `json:"days_since_created"`
	StreakStartDate  string  `json:"streak_start_date,omitempty"`
	Streaks          Streaks `json:"streaks"`
	Freezes          Freezes `json:"freezes"`
	Metrics          any     `json:"stats"`
}
