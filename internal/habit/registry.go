package habit

import (
	"github.com/google/uuid"
	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/logger"
	"github.com/julianstephens/habitd/internal/models"
	"github.com/julianstephens/habitd/internal/validation"
)

// CreateHabit validates and persists a new habit together with its zeroed
// streak state. Defaults are applied for omitted policy fields: the danger
// threshold and freeze allowance fall back to the account defaults.
func (e *Engine) CreateHabit(h models.Habit) (models.Habit, error) {
	if h.DangerStartPct == 0 {
		h.DangerStartPct = constants.DefaultDangerStartPct
	}
	if h.IsFreezable && h.FreezeAllowance == 0 {
		h.FreezeAllowance = constants.DefaultFreezeAllowance
	}
	if !h.IsTimer {
		// Manual habits have no target and no manual-minutes override.
		h.DailyTargetSeconds = 0
		h.AllowManualOverride = false
	}
	if !h.IsFreezable {
		h.FreezeAllowance = 0
	}

	if err := validation.Habit(h); err != nil {
		return models.Habit{}, err
	}

	h.ID = uuid.NewString()
	h.CreatedAt = e.now().UTC()

	today := e.today()
	st := models.StreakState{
		HabitID:          h.ID,
		FreezesRemaining: h.FreezeAllowance,
		LastLockedDay:    e.prevDay(today),
		LastRefillDay:    today,
	}

	if err := e.store.AddHabit(h, st); err != nil {
		return models.Habit{}, err
	}

	logger.Info("created habit", "id", h.ID, "name", h.Name, "type", h.Type())
	return h, nil
}

// GetHabit returns one habit by id, with its day window synced.
func (e *Engine) GetHabit(id string) (models.Habit, error) {
	h, _, err := e.sync(id)
	return h, err
}

// GetHabitByName resolves a habit by exact name, for CLI lookups.
func (e *Engine) GetHabitByName(name string) (models.Habit, error) {
	return e.store.GetHabitByName(name)
}

// ListHabits returns all habits.
func (e *Engine) ListHabits() ([]models.Habit, error) {
	return e.store.GetAllHabits()
}

// UpdateHabit applies a partial update. Policy changes are prospective only:
// already locked outcomes and spent freezes are never recomputed. Lowering
// the freeze allowance clamps the remaining balance; raising it does not
// grant extra freezes until the next refill.
func (e *Engine) UpdateHabit(id string, patch models.HabitPatch) (models.Habit, error) {
	h, _, err := e.sync(id)
	if err != nil {
		return models.Habit{}, err
	}

	if patch.Name != nil {
		h.Name = *patch.Name
	}
	if patch.Description != nil {
		h.Description = *patch.Description
	}
	if patch.IsTimer != nil {
		h.IsTimer = *patch.IsTimer
	}
	if patch.AllowManualOverride != nil {
		h.AllowManualOverride = *patch.AllowManualOverride
	}
	if patch.IsFreezable != nil {
		h.IsFreezable = *patch.IsFreezable
	}
	if patch.DangerStartPct != nil {
		h.DangerStartPct = *patch.DangerStartPct
	}
	if patch.DailyTargetSeconds != nil {
		h.DailyTargetSeconds = *patch.DailyTargetSeconds
	}
	if patch.FreezeAllowance != nil {
		h.FreezeAllowance = *patch.FreezeAllowance
	}

	// Mode switches re-apply the creation normalization.
	if !h.IsTimer {
		h.DailyTargetSeconds = 0
		h.AllowManualOverride = false
	}
	if !h.IsFreezable {
		h.FreezeAllowance = 0
	}

	if err := validation.Habit(h); err != nil {
		return models.Habit{}, err
	}

	if err := e.store.UpdateHabit(h); err != nil {
		return models.Habit{}, err
	}

	logger.Info("updated habit", "id", h.ID, "name", h.Name)
	return h, nil
}

// DeleteHabit removes a habit and all of its history.
func (e *Engine) DeleteHabit(id string) error {
	if err := e.store.DeleteHabit(id); err != nil {
		return err
	}
	logger.Info("deleted habit", "id", id)
	return nil
}
