// Package validation rejects malformed habit definitions and inputs before
// any mutation reaches the store.
package validation

import (
	"time"
	"unicode/utf8"

	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/models"
)

// Habit checks a full habit definition.
func Habit(h models.Habit) error {
	if h.Name == "" {
		return apperr.Invalid("name is required")
	}
	if utf8.RuneCountInString(h.Name) > constants.MaxHabitNameLen {
		return apperr.Invalid("name must be at most %d characters", constants.MaxHabitNameLen)
	}
	if utf8.RuneCountInString(h.Description) > constants.MaxHabitDescriptionLen {
		return apperr.Invalid("description must be at most %d characters", constants.MaxHabitDescriptionLen)
	}
	if h.DangerStartPct < 0 || h.DangerStartPct > 1 {
		return apperr.Invalid("danger_start_pct must be between 0 and 1")
	}
	if h.IsTimer && h.DailyTargetSeconds <= 0 {
		return apperr.Invalid("daily_target_seconds must be positive for timer habits")
	}
	if h.FreezeAllowance < 0 {
		return apperr.Invalid("freeze_allowance must not be negative")
	}
	return nil
}

// Note checks a log entry note.
func Note(note string) error {
	if utf8.RuneCountInString(note) > constants.MaxLogNoteLen {
		return apperr.Invalid("note must be at most %d characters", constants.MaxLogNoteLen)
	}
	return nil
}

// Day checks a YYYY-MM-DD day string.
func Day(day string) error {
	if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return apperr.Invalid("invalid date %q (expected YYYY-MM-DD)", day)
	}
	return nil
}

// Settings checks account-level settings.
func Settings(s models.Settings) error {
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return apperr.Invalid("invalid timezone %q", s.Timezone)
	}
	switch s.FreezeRefill {
	case constants.RefillNever, constants.RefillWeekly, constants.RefillMonthly:
	default:
		return apperr.Invalid("invalid freeze_refill %q (expected never, weekly or monthly)", s.FreezeRefill)
	}
	return nil
}
