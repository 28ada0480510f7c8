// Package storage defines the persistence contract the engine runs against.
// Implementations must enforce the two uniqueness invariants (one open
// session per habit, one completion per day per habit) at the schema level
// and keep every mutating method atomic.
package storage

import (
	"time"

	"github.com/julianstephens/habitd/internal/models"
)

// Provider is the full persistence interface. Both the sqlite and postgres
// stores implement it.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits. AddHabit also creates the habit's streak state row; DeleteHabit
	// cascades to sessions, log entries, outcomes and streak state.
	AddHabit(models.Habit, models.StreakState) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeleteHabit(id string) error

	// Sessions. InsertSession returns apperr.ErrSessionAlreadyActive when the
	// partial unique index rejects a second open session; FinalizeSession
	// stops the session and appends its per-day log entries in a single
	// transaction, returning apperr.ErrNoActiveSession if the session is
	// missing or already finalized.
	InsertSession(models.Session) error
	GetSession(habitID, sessionID string) (models.Session, error)
	GetActiveSession(habitID string) (*models.Session, error)
	GetFinalizedSessions(habitID string) ([]models.Session, error)
	FinalizeSession(habitID, sessionID string, stoppedAt time.Time, durationSeconds int, entries []models.LogEntry) (models.Session, error)

	// Ledger. AddLogEntry returns apperr.ErrAlreadyCompletedToday when the
	// completion uniqueness index rejects a duplicate.
	AddLogEntry(models.LogEntry) error
	GetLogEntries(habitID string) ([]models.LogEntry, error)
	GetDayTotalSeconds(habitID, day string) (int, error)
	GetDayTotals(habitID, startDay, endDay string) (map[string]int, error)
	HasCompletion(habitID, day string) (bool, error)
	CountCompletions(habitID string) (int, error)
	LastCompletionDay(habitID string) (string, error)

	// Outcomes and streak state. LockDay writes the locked outcome and the
	// advanced streak state only if the habit's last locked day still equals
	// prevLockedDay (compare-and-set); it reports false when another writer
	// already locked the day. FreezeToday resolves today as frozen and
	// persists the spent freeze atomically, returning
	// apperr.ErrAlreadyResolvedToday when an outcome already exists.
	GetDayOutcome(habitID, day string) (*models.DayOutcome, error)
	GetStreakState(habitID string) (models.StreakState, error)
	LockDay(outcome models.DayOutcome, state models.StreakState, prevLockedDay string) (bool, error)
	FreezeToday(outcome models.DayOutcome, state models.StreakState) error
}
