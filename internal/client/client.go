// Package client is a thin consumer of the habitd HTTP API. It keeps no
// state of its own: elapsed time, statuses and streaks are re-fetched on
// every call so the daemon's clock stays authoritative.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/habit"
	"github.com/julianstephens/habitd/internal/models"
)

// Client talks to a running habitd daemon.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the daemon at addr (host:port or full URL).
func New(addr string) *Client {
	base := addr
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = strings.NewReader(string(data))
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeError rebuilds a typed engine error from the wire shape so callers
// can errors.Is against the apperr sentinels.
func decodeError(resp *http.Response) error {
	var body struct {
		Detail string `json:"detail"`
		Code   string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Detail == "" {
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnprocessableEntity:
		return apperr.Validation(body.Code, "%s", body.Detail)
	case http.StatusConflict:
		return apperr.Conflict(body.Code, "%s", body.Detail)
	case http.StatusNotFound:
		return apperr.NotFound(body.Code, "%s", body.Detail)
	default:
		return fmt.Errorf("daemon error: %s", body.Detail)
	}
}

// Healthy reports whether the daemon answers its health check.
func (c *Client) Healthy() bool {
	return c.do(http.MethodGet, "/healthz", nil, nil) == nil
}

func (c *Client) ListHabits() ([]models.Habit, error) {
	var habits []models.Habit
	err := c.do(http.MethodGet, "/habits", nil, &habits)
	return habits, err
}

func (c *Client) CreateHabit(h models.Habit) (models.Habit, error) {
	var created models.Habit
	err := c.do(http.MethodPost, "/habits", h, &created)
	return created, err
}

func (c *Client) GetHabit(id string) (models.Habit, error) {
	var h models.Habit
	err := c.do(http.MethodGet, "/habits/"+id, nil, &h)
	return h, err
}

func (c *Client) UpdateHabit(id string, patch models.HabitPatch) (models.Habit, error) {
	var h models.Habit
	err := c.do(http.MethodPatch, "/habits/"+id, patch, &h)
	return h, err
}

func (c *Client) DeleteHabit(id string) error {
	return c.do(http.MethodDelete, "/habits/"+id, nil, nil)
}

func (c *Client) Complete(id, note string) (models.LogEntry, error) {
	var entry models.LogEntry
	body := map[string]string{"note": note}
	err := c.do(http.MethodPost, "/habits/"+id+"/complete", body, &entry)
	return entry, err
}

func (c *Client) Freeze(id string) (models.StreakState, error) {
	var st models.StreakState
	err := c.do(http.MethodPost, "/habits/"+id+"/freeze", nil, &st)
	return st, err
}

func (c *Client) Status(id string) (models.Status, error) {
	var status models.Status
	err := c.do(http.MethodGet, "/habits/"+id+"/status", nil, &status)
	return status, err
}

// Stats returns the raw stats payload; Metrics stays a json.RawMessage on
// the wire so callers decode it by HabitType.
func (c *Client) Stats(id string) (models.Stats, error) {
	var raw struct {
		models.Stats
		Metrics json.RawMessage `json:"stats"`
	}
	if err := c.do(http.MethodGet, "/habits/"+id+"/stats", nil, &raw); err != nil {
		return models.Stats{}, err
	}

	stats := raw.Stats
	switch stats.HabitType {
	case "timer":
		var m models.TimerMetrics
		if err := json.Unmarshal(raw.Metrics, &m); err != nil {
			return models.Stats{}, err
		}
		stats.Metrics = &m
	case "manual":
		var m models.ManualMetrics
		if err := json.Unmarshal(raw.Metrics, &m); err != nil {
			return models.Stats{}, err
		}
		stats.Metrics = &m
	}
	return stats, nil
}

func (c *Client) StartSession(habitID string) (models.Session, error) {
	var sess models.Session
	err := c.do(http.MethodPost, "/habit_logs/"+habitID+"/logs/start", nil, &sess)
	return sess, err
}

func (c *Client) StopSession(habitID, sessionID string) (habit.StopResult, error) {
	var res habit.StopResult
	err := c.do(http.MethodPatch, "/habit_logs/"+habitID+"/logs/"+sessionID+"/stop", nil, &res)
	return res, err
}

// StopActiveSession stops whichever session is open for the habit.
func (c *Client) StopActiveSession(habitID string) (habit.StopResult, error) {
	sess, err := c.GetActiveSession(habitID)
	if err != nil {
		return habit.StopResult{}, err
	}
	if sess == nil {
		return habit.StopResult{}, apperr.ErrNoActiveSession
	}
	return c.StopSession(habitID, sess.ID)
}

func (c *Client) CreateManualLog(habitID string, minutes int, note string) (models.LogEntry, error) {
	var entry models.LogEntry
	body := map[string]any{"duration_minutes": minutes, "note": note}
	err := c.do(http.MethodPost, "/habit_logs/"+habitID+"/logs/manual", body, &entry)
	return entry, err
}

func (c *Client) ListLogs(habitID string) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	err := c.do(http.MethodGet, "/habit_logs/"+habitID+"/logs", nil, &entries)
	return entries, err
}

// GetActiveSession returns nil when no session is open.
func (c *Client) GetActiveSession(habitID string) (*models.Session, error) {
	var sess models.Session
	err := c.do(http.MethodGet, "/habit_logs/"+habitID+"/logs/active", nil, &sess)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeOf(apperr.ErrNoActiveSession) {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

func (c *Client) GetSettings() (models.Settings, error) {
	var settings models.Settings
	err := c.do(http.MethodGet, "/settings", nil, &settings)
	return settings, err
}

func (c *Client) UpdateSettings(settings models.Settings) error {
	return c.do(http.MethodPut, "/settings", settings, nil)
}
