// Package cli implements the habitd command tree. Commands run against the
// local store by default; with --server they become thin HTTP clients of a
// running daemon, so the daemon's clock and day boundaries stay
// authoritative.
package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/client"
	"github.com/julianstephens/habitd/internal/habit"
	"github.com/julianstephens/habitd/internal/models"
	"github.com/julianstephens/habitd/internal/storage"
)

// API is the engine surface commands run against. Both the in-process engine
// and the HTTP client satisfy it.
type API interface {
	CreateHabit(models.Habit) (models.Habit, error)
	GetHabit(id string) (models.Habit, error)
	UpdateHabit(id string, patch models.HabitPatch) (models.Habit, error)
	DeleteHabit(id string) error
	ListHabits() ([]models.Habit, error)

	StartSession(habitID string) (models.Session, error)
	StopSession(habitID, sessionID string) (habit.StopResult, error)
	StopActiveSession(habitID string) (habit.StopResult, error)
	GetActiveSession(habitID string) (*models.Session, error)
	CreateManualLog(habitID string, minutes int, note string) (models.LogEntry, error)
	ListLogs(habitID string) ([]models.LogEntry, error)

	Complete(habitID, note string) (models.LogEntry, error)
	Freeze(habitID string) (models.StreakState, error)
	Status(habitID string) (models.Status, error)
	Stats(habitID string) (models.Stats, error)
}

// Context carries shared state into every command's Run method.
type Context struct {
	Store      storage.Provider
	ServerAddr string

	engine *habit.Engine
	remote *client.Client
}

// Remote reports whether commands should go over HTTP.
func (c *Context) Remote() bool {
	return c.ServerAddr != ""
}

// API returns the command surface: the HTTP client when --server is set,
// otherwise an engine over the loaded local store.
func (c *Context) API() (API, error) {
	if c.Remote() {
		return c.Client(), nil
	}
	return c.Engine()
}

// Client returns the HTTP client for the configured server address.
func (c *Context) Client() *client.Client {
	if c.remote == nil {
		c.remote = client.New(c.ServerAddr)
	}
	return c.remote
}

// Engine lazily loads the store and builds the in-process engine.
func (c *Context) Engine() (*habit.Engine, error) {
	if c.engine != nil {
		return c.engine, nil
	}
	if err := c.Store.Load(); err != nil {
		return nil, err
	}
	engine, err := habit.New(c.Store)
	if err != nil {
		return nil, err
	}
	c.engine = engine
	return engine, nil
}

// GetSettings reads account settings through whichever side is active.
func (c *Context) GetSettings() (models.Settings, error) {
	if c.Remote() {
		return c.Client().GetSettings()
	}
	engine, err := c.Engine()
	if err != nil {
		return models.Settings{}, err
	}
	return engine.Settings(), nil
}

// SaveSettings writes account settings through whichever side is active.
func (c *Context) SaveSettings(settings models.Settings) error {
	if c.Remote() {
		return c.Client().UpdateSettings(settings)
	}
	engine, err := c.Engine()
	if err != nil {
		return err
	}
	return engine.UpdateSettings(settings)
}

// ResolveHabit finds a habit by exact name or id prefix. Names win over
// prefixes so a habit named like another's id stays addressable.
func ResolveHabit(api API, ref string) (models.Habit, error) {
	habits, err := api.ListHabits()
	if err != nil {
		return models.Habit{}, err
	}

	var prefixMatches []models.Habit
	for _, h := range habits {
		if h.Name == ref || h.ID == ref {
			return h, nil
		}
		if strings.HasPrefix(h.ID, ref) {
			prefixMatches = append(prefixMatches, h)
		}
	}
	if len(prefixMatches) == 1 {
		return prefixMatches[0], nil
	}
	if len(prefixMatches) > 1 {
		return models.Habit{}, fmt.Errorf("habit reference %q is ambiguous", ref)
	}
	return models.Habit{}, apperr.ErrHabitNotFound
}

// FormatDuration renders seconds as "1h 23m" / "23m" / "45s".
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := seconds % 3600 / 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
