package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/models"
)

func scanSession(row interface{ Scan(...any) error }) (models.Session, error) {
	var sess models.Session
	var startedAt string
	var stoppedAt sql.NullString

	err := row.Scan(&sess.ID, &sess.HabitID, &startedAt, &stoppedAt, &sess.DurationSeconds)
	if err != nil {
		return models.Session{}, err
	}

	sess.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if stoppedAt.Valid {
		t, err := time.Parse(time.RFC3339, stoppedAt.String)
		if err != nil {
			return models.Session{}, fmt.Errorf("failed to parse stopped_at: %w", err)
		}
		sess.StoppedAt = &t
	}
	return sess, nil
}

// InsertSession creates an open session. The partial unique index on
// (habit_id) WHERE stopped_at IS NULL makes this the atomic conditional
// insert the single-active-session invariant requires.
func (s *Store) InsertSession(sess models.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, habit_id, started_at, stopped_at, duration_seconds)
		VALUES (?, ?, ?, NULL, 0)`,
		sess.ID, sess.HabitID, sess.StartedAt.Format(time.RFC3339))
	if isUniqueViolation(err) {
		return apperr.ErrSessionAlreadyActive
	}
	return err
}

func (s *Store) GetSession(habitID, sessionID string) (models.Session, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, started_at, stopped_at, duration_seconds
		FROM sessions WHERE id = ? AND habit_id = ?`, sessionID, habitID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, apperr.ErrSessionNotFound
	}
	return sess, err
}

func (s *Store) GetActiveSession(habitID string) (*models.Session, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, started_at, stopped_at, duration_seconds
		FROM sessions WHERE habit_id = ? AND stopped_at IS NULL`, habitID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) GetFinalizedSessions(habitID string) ([]models.Session, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, started_at, stopped_at, duration_seconds
		FROM sessions WHERE habit_id = ? AND stopped_at IS NOT NULL
		ORDER BY started_at`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// FinalizeSession stops the session and appends its per-day log entries in
// one transaction. The guarded UPDATE makes a second stop fail cleanly with
// NoActiveSession instead of double-recording duration.
func (s *Store) FinalizeSession(habitID, sessionID string, stoppedAt time.Time, durationSeconds int, entries []models.LogEntry) (models.Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Session{}, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE sessions SET stopped_at = ?, duration_seconds = ?
		WHERE id = ? AND habit_id = ? AND stopped_at IS NULL`,
		stoppedAt.Format(time.RFC3339), durationSeconds, sessionID, habitID)
	if err != nil {
		return models.Session{}, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.Session{}, err
	}
	if rows == 0 {
		return models.Session{}, apperr.ErrNoActiveSession
	}

	for _, e := range entries {
		if err := insertLogEntry(tx, e); err != nil {
			return models.Session{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Session{}, err
	}

	return s.GetSession(habitID, sessionID)
}
