package models

import "time"

// Session is a single contiguous timer interval for a timer habit. It is open
// while StoppedAt is nil and finalized exactly once by a stop; sessions are
// never deleted. At most one open session exists per habit, enforced by the
// storage layer.
type Session struct {
	ID              string     `json:"id"`
	HabitID         string     `json:"habit_id"`
	StartedAt       time.Time  `json:"started_at"`
	StoppedAt       *time.Time `json:"stopped_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
}

// Active reports whether the session has not been finalized yet.
func (s Session) Active() bool {
	return s.StoppedAt == nil
}

// Elapsed returns the authoritative elapsed time at the given instant.
// Clients never keep their own counters; they re-derive elapsed time from
// StartedAt on every read.
func (s Session) Elapsed(now time.Time) time.Duration {
	if s.StoppedAt != nil {
		return s.StoppedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}
