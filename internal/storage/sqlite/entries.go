package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/models"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertLogEntry(db execer, e models.LogEntry) error {
	var sessionID sql.NullString
	if e.SessionID != "" {
		sessionID = sql.NullString{String: e.SessionID, Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO log_entries (id, habit_id, day, duration_seconds, is_manual, is_completion, note, session_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.HabitID, e.Day, e.DurationSeconds, e.IsManual, e.IsCompletion, e.Note,
		sessionID, e.CreatedAt.Format(time.RFC3339))
	if isUniqueViolation(err) && e.IsCompletion {
		return apperr.ErrAlreadyCompletedToday
	}
	return err
}

func (s *Store) AddLogEntry(e models.LogEntry) error {
	return insertLogEntry(s.db, e)
}

func (s *Store) GetLogEntries(habitID string) ([]models.LogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, duration_seconds, is_manual, is_completion, note, session_id, created_at
		FROM log_entries WHERE habit_id = ?
		ORDER BY day DESC, created_at DESC`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		var sessionID sql.NullString
		var createdAt string

		err := rows.Scan(&e.ID, &e.HabitID, &e.Day, &e.DurationSeconds, &e.IsManual,
			&e.IsCompletion, &e.Note, &sessionID, &createdAt)
		if err != nil {
			return nil, err
		}
		if sessionID.Valid {
			e.SessionID = sessionID.String
		}
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetDayTotalSeconds(habitID, day string) (int, error) {
	var total int
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(duration_seconds), 0) FROM log_entries
		WHERE habit_id = ? AND day = ?`, habitID, day).Scan(&total)
	return total, err
}

func (s *Store) GetDayTotals(habitID, startDay, endDay string) (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT day, SUM(duration_seconds) FROM log_entries
		WHERE habit_id = ? AND day >= ? AND day <= ?
		GROUP BY day`, habitID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var day string
		var total int
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		totals[day] = total
	}
	return totals, rows.Err()
}

func (s *Store) HasCompletion(habitID, day string) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT count(*) FROM log_entries
		WHERE habit_id = ? AND day = ? AND is_completion = 1`, habitID, day).Scan(&count)
	return count > 0, err
}

func (s *Store) CountCompletions(habitID string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT count(*) FROM log_entries
		WHERE habit_id = ? AND is_completion = 1`, habitID).Scan(&count)
	return count, err
}

func (s *Store) LastCompletionDay(habitID string) (string, error) {
	var day string
	err := s.db.QueryRow(`
		SELECT day FROM log_entries
		WHERE habit_id = ? AND is_completion = 1
		ORDER BY day DESC LIMIT 1`, habitID).Scan(&day)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return day, err
}
