package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/models"
)

func scanSession(row interface{ Scan(...any) error }) (models.Session, error) {
	var sess models.Session
	var stoppedAt sql.NullTime

	err := row.Scan(&sess.ID, &sess.HabitID, &sess.StartedAt, &stoppedAt, &sess.DurationSeconds)
	if err != nil {
		return models.Session{}, err
	}
	if stoppedAt.Valid {
		t := stoppedAt.Time
		sess.StoppedAt = &t
	}
	return sess, nil
}

func (s *Store) InsertSession(sess models.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, habit_id, started_at, stopped_at, duration_seconds)
		VALUES ($1, $2, $3, NULL, 0)`,
		sess.ID, sess.HabitID, sess.StartedAt)
	if isUniqueViolation(err) {
		return apperr.ErrSessionAlreadyActive
	}
	return err
}

func (s *Store) GetSession(habitID, sessionID string) (models.Session, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, started_at, stopped_at, duration_seconds
		FROM sessions WHERE id = $1 AND habit_id = $2`, sessionID, habitID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, apperr.ErrSessionNotFound
	}
	return sess, err
}

func (s *Store) GetActiveSession(habitID string) (*models.Session, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, started_at, stopped_at, duration_seconds
		FROM sessions WHERE habit_id = $1 AND stopped_at IS NULL`, habitID)
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
		FROM sessions WHERE habit_id = $1 AND stopped_at IS NOT NULL
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

func (s *Store) FinalizeSession(habitID, sessionID string, stoppedAt time.Time, durationSeconds int, entries []models.LogEntry) (models.Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Session{}, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE sessions SET stopped_at = $1, duration_seconds = $2
		WHERE id = $3 AND habit_id = $4 AND stopped_at IS NULL`,
		stoppedAt, durationSeconds, sessionID, habitID)
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
