package habit

import (
	"github.com/google/uuid"
	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/logger"
	"github.com/julianstephens/habitd/internal/models"
	"github.com/julianstephens/habitd/internal/validation"
)

// Complete marks a manual habit done for today. The completion uniqueness
// index makes a second complete on the same day a rejected no-op.
func (e *Engine) Complete(habitID string, note string) (models.LogEntry, error) {
	h, _, err := e.sync(habitID)
	if err != nil {
		return models.LogEntry{}, err
	}
	if h.IsTimer {
		return models.LogEntry{}, apperr.ErrNotManualMode
	}
	if err := validation.Note(note); err != nil {
		return models.LogEntry{}, err
	}

	entry := models.LogEntry{
		ID:           uuid.NewString(),
		HabitID:      h.ID,
		Day:          e.today(),
		IsManual:     true,
		IsCompletion: true,
		Note:         note,
		CreatedAt:    e.now().UTC(),
	}
	if err := e.store.AddLogEntry(entry); err != nil {
		return models.LogEntry{}, err
	}

	logger.Info("completed habit", "habit", h.ID, "day", entry.Day)
	return entry, nil
}

// Freeze spends one freeze to resolve today as frozen. The resolution is
// permanent: it is not refunded and overrides any progress made later in the
// day, including a target reached after the freeze.
func (e *Engine) Freeze(habitID string) (models.StreakState, error) {
	h, st, err := e.sync(habitID)
	if err != nil {
		return models.StreakState{}, err
	}
	if !h.IsFreezable {
		return models.StreakState{}, apperr.ErrNotFreezable
	}
	if remainingFreezes(h, st) <= 0 {
		return models.StreakState{}, apperr.ErrNoFreezesRemaining
	}

	today := e.today()
	total, err := e.store.GetDayTotalSeconds(h.ID, today)
	if err != nil {
		return models.StreakState{}, err
	}

	// A day that already passed cannot be frozen.
	if h.IsTimer {
		if total >= h.DailyTargetSeconds {
			return models.StreakState{}, apperr.ErrAlreadyResolvedToday
		}
	} else {
		done, err := e.store.HasCompletion(h.ID, today)
		if err != nil {
			return models.StreakState{}, err
		}
		if done {
			return models.StreakState{}, apperr.ErrAlreadyResolvedToday
		}
	}

	next := st
	next.FreezesUsed++
	next.FreezesRemaining = remainingFreezes(h, st) - 1

	outcome := models.DayOutcome{
		HabitID:      h.ID,
		Day:          today,
		Outcome:      constants.OutcomeFrozen,
		TotalSeconds: total,
	}
	if err := e.store.FreezeToday(outcome, next); err != nil {
		return models.StreakState{}, err
	}

	logger.Info("froze day", "habit", h.ID, "day", today, "remaining", next.FreezesRemaining)
	return next, nil
}
