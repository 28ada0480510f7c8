package models

import "time"

// Habit represents a tracked practice. Timer habits accumulate seconds toward
// a daily target; manual habits are completed once per day.
type Habit struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	IsTimer             bool      `json:"is_timer"`
	AllowManualOverride bool      `json:"allow_manual_override"`
	IsFreezable         bool      `json:"is_freezable"`
	DangerStartPct      float64   `json:"danger_start_pct"`
	DailyTargetSeconds  int       `json:"daily_target_seconds"`
	FreezeAllowance     int       `json:"freeze_allowance"`
	CreatedAt           time.Time `json:"created_at"`
}

// HabitPatch carries a partial update. Nil fields are left unchanged.
type HabitPatch struct {
	Name                *string  `json:"name,omitempty"`
	Description         *string  `json:"description,omitempty"`
	IsTimer             *bool    `json:"is_timer,omitempty"`
	AllowManualOverride *bool    `json:"allow_manual_override,omitempty"`
	IsFreezable         *bool    `json:"is_freezable,omitempty"`
	DangerStartPct      *float64 `json:"danger_start_pct,omitempty"`
	DailyTargetSeconds  *int     `json:"daily_target_seconds,omitempty"`
	FreezeAllowance     *int     `json:"freeze_allowance,omitempty"`
}

// Type returns the wire name for the habit's tracking mode.
func (h Habit) Type() string {
	if h.IsTimer {
		return "timer"
	}
	return "manual"
}
