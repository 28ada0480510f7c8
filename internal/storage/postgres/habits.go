package postgres

import (
	"database/sql"
	"errors"

	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/models"
)

const habitColumns = `id, name, description, is_timer, allow_manual_override, is_freezable,
	danger_start_pct, daily_target_seconds, freeze_allowance, created_at`

func scanHabit(row interface{ Scan(...any) error }) (models.Habit, error) {
	var h models.Habit
	err := row.Scan(&h.ID, &h.Name, &h.Description, &h.IsTimer, &h.AllowManualOverride,
		&h.IsFreezable, &h.DangerStartPct, &h.DailyTargetSeconds, &h.FreezeAllowance, &h.CreatedAt)
	return h, err
}

func (s *Store) AddHabit(habit models.Habit, state models.StreakState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		habit.ID, habit.Name, habit.Description, habit.IsTimer, habit.AllowManualOverride,
		habit.IsFreezable, habit.DangerStartPct, habit.DailyTargetSeconds, habit.FreezeAllowance,
		habit.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO streak_state (habit_id, current_streak, best_streak, freezes_used,
			freezes_remaining, streak_start_day, last_locked_day, last_refill_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		state.HabitID, state.CurrentStreak, state.BestStreak, state.FreezesUsed,
		state.FreezesRemaining, state.StreakStartDay, state.LastLockedDay, state.LastRefillDay)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = $1`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperr.ErrHabitNotFound
	}
	return h, err
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE name = $1`, name)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperr.ErrHabitNotFound
	}
	return h, err
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`SELECT ` + habitColumns + ` FROM habits ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	result, err := s.db.Exec(`
		UPDATE habits SET name = $1, description = $2, is_timer = $3, allow_manual_override = $4,
			is_freezable = $5, danger_start_pct = $6, daily_target_seconds = $7, freeze_allowance = $8
		WHERE id = $9`,
		habit.Name, habit.Description, habit.IsTimer, habit.AllowManualOverride,
		habit.IsFreezable, habit.DangerStartPct, habit.DailyTargetSeconds, habit.FreezeAllowance,
		habit.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrHabitNotFound
	}
	return nil
}

func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrHabitNotFound
	}
	return nil
}
