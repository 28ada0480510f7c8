package postgres

import (
	"database/sql"
	"errors"

	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/models"
)

func (s *Store) GetDayOutcome(habitID, day string) (*models.DayOutcome, error) {
	var o models.DayOutcome
	err := s.db.QueryRow(`
		SELECT habit_id, day, outcome, total_seconds FROM day_outcomes
		WHERE habit_id = $1 AND day = $2`, habitID, day).
		Scan(&o.HabitID, &o.Day, &o.Outcome, &o.TotalSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) GetStreakState(habitID string) (models.StreakState, error) {
	var st models.StreakState
	err := s.db.QueryRow(`
		SELECT habit_id, current_streak, best_streak, freezes_used, freezes_remaining,
			streak_start_day, last_locked_day, last_refill_day
		FROM streak_state WHERE habit_id = $1`, habitID).
		Scan(&st.HabitID, &st.CurrentStreak, &st.BestStreak, &st.FreezesUsed,
			&st.FreezesRemaining, &st.StreakStartDay, &st.LastLockedDay, &st.LastRefillDay)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StreakState{}, apperr.ErrHabitNotFound
	}
	return st, err
}

func updateStreakState(db execer, st models.StreakState, prevLockedDay *string) (bool, error) {
	query := `
		UPDATE streak_state SET current_streak = $1, best_streak = $2, freezes_used = $3,
			freezes_remaining = $4, streak_start_day = $5, last_locked_day = $6, last_refill_day = $7
		WHERE habit_id = $8`
	args := []any{st.CurrentStreak, st.BestStreak, st.FreezesUsed, st.FreezesRemaining,
		st.StreakStartDay, st.LastLockedDay, st.LastRefillDay, st.HabitID}
	if prevLockedDay != nil {
		query += ` AND last_locked_day = $9`
		args = append(args, *prevLockedDay)
	}

	result, err := db.Exec(query, args...)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *Store) LockDay(outcome models.DayOutcome, state models.StreakState, prevLockedDay string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	won, err := updateStreakState(tx, state, &prevLockedDay)
	if err != nil {
		return false, err
	}
	if !won {
		return false, nil
	}

	_, err = tx.Exec(`
		INSERT INTO day_outcomes (habit_id, day, outcome, total_seconds)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (habit_id, day) DO NOTHING`,
		outcome.HabitID, outcome.Day, outcome.Outcome, outcome.TotalSeconds)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func (s *Store) FreezeToday(outcome models.DayOutcome, state models.StreakState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO day_outcomes (habit_id, day, outcome, total_seconds)
		VALUES ($1, $2, $3, $4)`,
		outcome.HabitID, outcome.Day, outcome.Outcome, outcome.TotalSeconds)
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyResolvedToday
	}
	if err != nil {
		return err
	}

	if _, err := updateStreakState(tx, state, nil); err != nil {
		return err
	}

	return tx.Commit()
}
