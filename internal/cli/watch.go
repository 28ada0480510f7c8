package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitd/internal/models"
)

type WatchCmd struct {
	Interval time.Duration `help:"Refresh interval." default:"1s"`
}

// Run launches the live dashboard. Elapsed session time is re-derived from
// StartedAt on every refresh; the dashboard never keeps its own counters.
func (c *WatchCmd) Run(ctx *Context) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}

	m := watchModel{api: api, interval: c.Interval}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type watchRow struct {
	habit  models.Habit
	status models.Status
	active *models.Session
}

type watchModel struct {
	api      API
	interval time.Duration
	rows     []watchRow
	fetched  time.Time
	err      error
}

type tickMsg time.Time

type rowsMsg struct {
	rows []watchRow
	err  error
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.fetch, m.tick())
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m watchModel) fetch() tea.Msg {
	habits, err := m.api.ListHabits()
	if err != nil {
		return rowsMsg{err: err}
	}

	rows := make([]watchRow, 0, len(habits))
	for _, h := range habits {
		status, err := m.api.Status(h.ID)
		if err != nil {
			return rowsMsg{err: err}
		}
		row := watchRow{habit: h, status: status}
		if h.IsTimer {
			if sess, err := m.api.GetActiveSession(h.ID); err == nil {
				row.active = sess
			}
		}
		rows = append(rows, row)
	}
	return rowsMsg{rows: rows}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetch
		}
	case tickMsg:
		return m, tea.Batch(m.fetch, m.tick())
	case rowsMsg:
		m.err = msg.err
		if msg.err == nil {
			m.rows = msg.rows
			m.fetched = time.Now()
		}
		return m, nil
	}
	return m, nil
}

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	watchDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	watchErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func (m watchModel) View() string {
	s := watchTitleStyle.Render("habitd watch") + "\n"

	if m.err != nil {
		s += watchErrStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n"
		return s
	}
	if len(m.rows) == 0 {
		s += watchDimStyle.Render("no habits") + "\n"
		return s
	}

	for _, row := range m.rows {
		line := fmt.Sprintf("%-30s %s", truncate(row.habit.Name, 30), renderStatus(row.status))
		if row.active != nil {
			line += watchDimStyle.Render(fmt.Sprintf("  %s", FormatDuration(int(time.Since(row.active.StartedAt).Seconds()))))
		}
		s += line + "\n"
	}

	s += "\n" + watchDimStyle.Render("q quit · r refresh")
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
