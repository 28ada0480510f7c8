package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/models"
)

// Terminal colors for each status, matching the wire color names.
var statusStyles = map[constants.HabitStatus]lipgloss.Style{
	constants.StatusIdle:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	constants.StatusOnTrack:   lipgloss.NewStyle().Foreground(lipgloss.Color("37")),
	constants.StatusInDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	constants.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
	constants.StatusFrozen:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
}

func renderStatus(status models.Status) string {
	style, ok := statusStyles[status.Status]
	if !ok {
		return string(status.Status)
	}
	return style.Render(fmt.Sprintf("%-9s", status.Status))
}
