// Package habit implements the session/streak tracking engine: the habit
// registry, the per-habit session tracker, the daily ledger, the streak
// engine and the status classifier. All derived state (day outcomes, streak
// counters) is a pure function of the append-only session/log history plus
// the habit's policy fields; the store only carries it as a cache advanced
// inside the day-lock and freeze transactions.
package habit

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/logger"
	"github.com/julianstephens/habitd/internal/models"
	"github.com/julianstephens/habitd/internal/storage"
	"github.com/julianstephens/habitd/internal/validation"
)

// Engine coordinates every operation against the store. Timestamps come from
// the server clock (the injected now func), never from clients; day
// boundaries are computed in the account timezone.
type Engine struct {
	store storage.Provider
	now   func() time.Time

	// mu guards settings and loc, which handler goroutines read while
	// UpdateSettings replaces them.
	mu       sync.RWMutex
	settings models.Settings
	loc      *time.Location

	// Per-habit locks serialize in-process day sweeps. Cross-process
	// serialization is the store's job (compare-and-set on last_locked_day).
	locks sync.Map
}

// New creates an engine over a loaded store, reading the account settings.
func New(store storage.Provider) (*Engine, error) {
	e := &Engine{store: store, now: time.Now}
	if err := e.ReloadSettings(); err != nil {
		return nil, err
	}
	return e, nil
}

// ReloadSettings re-reads account settings, picking up timezone or refill
// policy changes.
func (e *Engine) ReloadSettings() error {
	settings, err := e.store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	e.mu.Lock()
	e.settings = settings
	e.loc = loc
	e.mu.Unlock()
	return nil
}

// Settings returns the account settings the engine is running with.
func (e *Engine) Settings() models.Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// location returns the account timezone for day arithmetic.
func (e *Engine) location() *time.Location {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loc
}

// UpdateSettings validates, persists and applies new account settings.
// Changing the timezone only affects day boundaries going forward; locked
// outcomes are never recomputed.
func (e *Engine) UpdateSettings(settings models.Settings) error {
	if err := validation.Settings(settings); err != nil {
		return err
	}
	if err := e.store.SaveSettings(settings); err != nil {
		return err
	}
	logger.Info("updated settings", "timezone", settings.Timezone, "freeze_refill", settings.FreezeRefill)
	return e.ReloadSettings()
}

func (e *Engine) habitLock(habitID string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(habitID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// today returns the current day string in the account timezone.
func (e *Engine) today() string {
	return e.now().In(e.location()).Format(constants.DateFormat)
}

func (e *Engine) dayOf(t time.Time) string {
	return t.In(e.location()).Format(constants.DateFormat)
}

// dayWindow returns the half-open [start, end) interval of a day in the
// account timezone.
func (e *Engine) dayWindow(day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, day, e.location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return t, t.AddDate(0, 0, 1), nil
}

func (e *Engine) nextDay(day string) (string, error) {
	t, err := time.ParseInLocation(constants.DateFormat, day, e.location())
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 1).Format(constants.DateFormat), nil
}

func (e *Engine) prevDay(day string) string {
	t, err := time.ParseInLocation(constants.DateFormat, day, e.location())
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, -1).Format(constants.DateFormat)
}

// sync loads the habit and advances its locked window through yesterday.
// Locking is lazy: it runs on first engine access of a new day rather than on
// a timer, and the store-side compare-and-set keeps it exactly-once per
// (habit, day) even across processes.
func (e *Engine) sync(habitID string) (models.Habit, models.StreakState, error) {
	h, err := e.store.GetHabit(habitID)
	if err != nil {
		return models.Habit{}, models.StreakState{}, err
	}

	mu := e.habitLock(habitID)
	mu.Lock()
	defer mu.Unlock()

	st, err := e.store.GetStreakState(habitID)
	if err != nil {
		return models.Habit{}, models.StreakState{}, err
	}

	today := e.today()
	for {
		day, err := e.nextDay(st.LastLockedDay)
		if err != nil {
			return models.Habit{}, models.StreakState{}, fmt.Errorf("corrupt last_locked_day %q: %w", st.LastLockedDay, err)
		}
		if day >= today {
			break
		}

		next, outcome, err := e.resolveDay(h, st, day)
		if err != nil {
			return models.Habit{}, models.StreakState{}, err
		}

		won, err := e.store.LockDay(outcome, next, st.LastLockedDay)
		if err != nil {
			return models.Habit{}, models.StreakState{}, err
		}
		if !won {
			// Another writer locked this day; pick up its result and continue.
			st, err = e.store.GetStreakState(habitID)
			if err != nil {
				return models.Habit{}, models.StreakState{}, err
			}
			continue
		}

		logger.Debug("locked day", "habit", h.ID, "day", day, "outcome", outcome.Outcome)
		st = next
	}

	return h, st, nil
}

// resolveDay computes the locked outcome and advanced streak state for one
// past day. An explicitly frozen day keeps its recorded outcome.
func (e *Engine) resolveDay(h models.Habit, st models.StreakState, day string) (models.StreakState, models.DayOutcome, error) {
	existing, err := e.store.GetDayOutcome(h.ID, day)
	if err != nil {
		return models.StreakState{}, models.DayOutcome{}, err
	}

	total, err := e.store.GetDayTotalSeconds(h.ID, day)
	if err != nil {
		return models.StreakState{}, models.DayOutcome{}, err
	}

	var pass, preFrozen bool
	if existing != nil {
		preFrozen = existing.Outcome == constants.OutcomeFrozen
		pass = existing.Outcome == constants.OutcomePass
	} else if h.IsTimer {
		// A session still open across midnight has no entries yet for the
		// days it already crossed; credit its overlap with this day so the
		// lock does not fail a day the session alone covered.
		active, err := e.store.GetActiveSession(h.ID)
		if err != nil {
			return models.StreakState{}, models.DayOutcome{}, err
		}
		total += e.liveSeconds(active, day)
		pass = total >= h.DailyTargetSeconds
	} else {
		pass, err = e.store.HasCompletion(h.ID, day)
		if err != nil {
			return models.StreakState{}, models.DayOutcome{}, err
		}
	}

	next, verdict := advance(st, h, e.Settings().FreezeRefill, e.location(), day, pass, preFrozen)
	return next, models.DayOutcome{HabitID: h.ID, Day: day, Outcome: verdict, TotalSeconds: total}, nil
}
