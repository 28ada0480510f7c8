package sqlite

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
		WHERE habit_id = ? AND day = ?`, habitID, day).
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
		FROM streak_state WHERE habit_id = ?`, habitID).
		Scan(&st.HabitID, &st.CurrentStreak, &st.BestStreak, &st.FreezesUsed,
			&st.FreezesRemaining, &st.StreakStartDay, &st.LastLockedDay, &st.LastRefillDay)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StreakState{}, apperr.ErrHabitNotFound
	}
	return st, err
}

func updateStreakState(db execer, st models.StreakState, prevLockedDay *string) (bool, error) {
	query := `
		UPDATE streak_state SET current_streak = ?, best_streak = ?, freezes_used = ?,
			freezes_remaining = ?, streak_start_day = ?, last_locked_day = ?, last_refill_day = ?
		WHERE habit_id = ?`
	args := []any{st.CurrentStreak, st.BestStreak, st.FreezesUsed, st.FreezesRemaining,
		st.StreakStartDay, st.LastLockedDay, st.LastRefillDay, st.HabitID}
	if prevLockedDay != nil {
		query += ` AND last_locked_day = ?`
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

// LockDay writes a day's final outcome and the advanced streak state. The
// compare-and-set on last_locked_day serializes concurrent sweeps so each
// (habit, day) pair resolves exactly once.
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

	// An explicit freeze may already have resolved the day; the locked
	// outcome is immutable either way.
	_, err = tx.Exec(`
		INSERT INTO day_outcomes (habit_id, day, outcome, total_seconds)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO NOTHING`,
		outcome.HabitID, outcome.Day, outcome.Outcome, outcome.TotalSeconds)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// FreezeToday resolves today as frozen and persists the spent freeze in one
// transaction.
func (s *Store) FreezeToday(outcome models.DayOutcome, state models.StreakState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO day_outcomes (habit_id, day, outcome, total_seconds)
		VALUES (?, ?, ?, ?)`,
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
