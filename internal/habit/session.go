package habit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/logger"
	"github.com/julianstephens/habitd/internal/models"
	"github.com/julianstephens/habitd/internal/validation"
)

// StopResult is the outcome of stopping a session: the finalized session plus
// the updated total for the day the session ended on.
type StopResult struct {
	Session         models.Session `json:"session"`
	Day             string         `json:"day"`
	DayTotalSeconds int            `json:"day_total_seconds"`
	TargetSeconds   int            `json:"target_seconds"`
}

// StartSession opens a timer session for a habit. At most one session may be
// open per habit; a second start is rejected without side effects.
func (e *Engine) StartSession(habitID string) (models.Session, error) {
	h, _, err := e.sync(habitID)
	if err != nil {
		return models.Session{}, err
	}
	if !h.IsTimer {
		return models.Session{}, apperr.ErrNotTimerMode
	}

	sess := models.Session{
		ID:        uuid.NewString(),
		HabitID:   h.ID,
		StartedAt: e.now().UTC(),
	}
	if err := e.store.InsertSession(sess); err != nil {
		return models.Session{}, err
	}

	logger.Info("started session", "habit", h.ID, "session", sess.ID)
	return sess, nil
}

// StopSession finalizes a session, stamping the stop time from the server
// clock and appending its per-day log entries in the same transaction. A
// session spanning midnight is split at each day boundary so every day is
// credited with exactly the seconds that elapsed within it.
func (e *Engine) StopSession(habitID, sessionID string) (StopResult, error) {
	h, err := e.store.GetHabit(habitID)
	if err != nil {
		return StopResult{}, err
	}

	sess, err := e.store.GetSession(habitID, sessionID)
	if err != nil {
		return StopResult{}, err
	}
	if !sess.Active() {
		return StopResult{}, apperr.ErrNoActiveSession
	}

	stoppedAt := e.now().UTC()
	if stoppedAt.Before(sess.StartedAt) {
		return StopResult{}, fmt.Errorf("session %s stops before it starts", sess.ID)
	}
	duration := int(stoppedAt.Sub(sess.StartedAt).Seconds())

	entries, err := e.splitSession(sess, stoppedAt, duration)
	if err != nil {
		return StopResult{}, err
	}

	finalized, err := e.store.FinalizeSession(habitID, sessionID, stoppedAt, duration, entries)
	if err != nil {
		return StopResult{}, err
	}

	// Lock any days the session crossed, now that its entries are persisted.
	if _, _, err := e.sync(habitID); err != nil {
		return StopResult{}, err
	}

	day := e.dayOf(stoppedAt)
	total, err := e.store.GetDayTotalSeconds(habitID, day)
	if err != nil {
		return StopResult{}, err
	}

	logger.Info("stopped session", "habit", h.ID, "session", sess.ID, "seconds", duration)
	return StopResult{Session: finalized, Day: day, DayTotalSeconds: total, TargetSeconds: h.DailyTargetSeconds}, nil
}

// StopActiveSession stops whichever session is open for the habit.
func (e *Engine) StopActiveSession(habitID string) (StopResult, error) {
	active, err := e.store.GetActiveSession(habitID)
	if err != nil {
		return StopResult{}, err
	}
	if active == nil {
		return StopResult{}, apperr.ErrNoActiveSession
	}
	return e.StopSession(habitID, active.ID)
}

// GetActiveSession returns the habit's open session, or nil when idle.
func (e *Engine) GetActiveSession(habitID string) (*models.Session, error) {
	if _, _, err := e.sync(habitID); err != nil {
		return nil, err
	}
	return e.store.GetActiveSession(habitID)
}

// ActiveSessions lists every open session across all habits.
func (e *Engine) ActiveSessions() ([]models.Session, error) {
	habits, err := e.store.GetAllHabits()
	if err != nil {
		return nil, err
	}

	var active []models.Session
	for _, h := range habits {
		sess, err := e.store.GetActiveSession(h.ID)
		if err != nil {
			return nil, err
		}
		if sess != nil {
			active = append(active, *sess)
		}
	}
	return active, nil
}

// CreateManualLog records manually entered minutes against today. Only timer
// habits with the manual override enabled accept it.
func (e *Engine) CreateManualLog(habitID string, minutes int, note string) (models.LogEntry, error) {
	h, _, err := e.sync(habitID)
	if err != nil {
		return models.LogEntry{}, err
	}
	if !h.IsTimer || !h.AllowManualOverride {
		return models.LogEntry{}, apperr.ErrManualOverrideNotAllowed
	}
	if minutes <= 0 {
		return models.LogEntry{}, apperr.ErrInvalidDuration
	}
	if err := validation.Note(note); err != nil {
		return models.LogEntry{}, err
	}

	entry := models.LogEntry{
		ID:              uuid.NewString(),
		HabitID:         h.ID,
		Day:             e.today(),
		DurationSeconds: minutes * 60,
		IsManual:        true,
		Note:            note,
		CreatedAt:       e.now().UTC(),
	}
	if err := e.store.AddLogEntry(entry); err != nil {
		return models.LogEntry{}, err
	}

	logger.Info("manual log", "habit", h.ID, "minutes", minutes)
	return entry, nil
}

// ListLogs returns the habit's log entries, newest first.
func (e *Engine) ListLogs(habitID string) ([]models.LogEntry, error) {
	if _, err := e.store.GetHabit(habitID); err != nil {
		return nil, err
	}
	return e.store.GetLogEntries(habitID)
}

// splitSession carves a finalized interval into one log entry per calendar
// day it overlaps. Chunk durations are truncated to whole seconds; the final
// chunk absorbs the remainder so the entries always sum to the session total.
func (e *Engine) splitSession(sess models.Session, stoppedAt time.Time, duration int) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	remaining := duration
	cursor := sess.StartedAt

	for remaining >= 0 {
		day := e.dayOf(cursor)
		_, dayEnd, err := e.dayWindow(day)
		if err != nil {
			return nil, err
		}

		chunkEnd := dayEnd
		last := !stoppedAt.After(dayEnd)
		if last {
			chunkEnd = stoppedAt
		}

		seconds := int(chunkEnd.Sub(cursor).Seconds())
		if last {
			seconds = remaining
		}

		entries = append(entries, models.LogEntry{
			ID:              uuid.NewString(),
			HabitID:         sess.HabitID,
			Day:             day,
			DurationSeconds: seconds,
			SessionID:       sess.ID,
			CreatedAt:       stoppedAt,
		})

		if last {
			break
		}
		remaining -= seconds
		cursor = dayEnd
	}

	return entries, nil
}

// liveSeconds returns the portion of an open session's elapsed time that
// falls within the given day. Day totals include it so an in-progress session
// counts toward today without being persisted.
func (e *Engine) liveSeconds(sess *models.Session, day string) int {
	if sess == nil {
		return 0
	}
	start, end, err := e.dayWindow(day)
	if err != nil {
		return 0
	}

	from := sess.StartedAt
	if from.Before(start) {
		from = start
	}
	to := e.now()
	if to.After(end) {
		to = end
	}
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Seconds())
}
