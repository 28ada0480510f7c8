package models

import "time"

// LogEntry is a unit of progress toward a day's target: seconds derived from
// a finalized session, manually entered seconds, or a completion marker for a
// manual habit. Day is YYYY-MM-DD in the account timezone.
type LogEntry struct {
	ID              string    `json:"id"`
	HabitID         string    `json:"habit_id"`
	Day             string    `json:"day"`
	DurationSeconds int       `json:"duration_seconds"`
	IsManual        bool      `json:"is_manual"`
	IsCompletion    bool      `json:"is_completion"`
	Note            string    `json:"note,omitempty"`
	SessionID       string    `json:"session_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
