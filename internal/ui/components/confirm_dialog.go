package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymarv/internal/ui/theme"
)

// ConfirmMsg carries the answer of a confirmation dialog
type ConfirmMsg struct {
	Action    string
	Confirmed bool
}

// ConfirmDialog asks a yes/no question before a destructive operation
type ConfirmDialog struct {
	Width   int
	Theme   theme.Theme
	Action  string
	Prompt  string
	Details []string
}

// NewConfirmDialog creates a confirmation dialog for action
func NewConfirmDialog(th theme.Theme, action, prompt string, details ...string) *ConfirmDialog {
	return &ConfirmDialog{
		Width:   60,
		Theme:   th,
		Action:  action,
		Prompt:  prompt,
		Details: details,
	}
}

// Update handles keyboard input
func (c *ConfirmDialog) Update(msg tea.KeyMsg) (*ConfirmDialog, tea.Cmd) {
	var confirmed bool
	switch msg.String() {
	case "y", "Y":
		confirmed = true
	case "n", "N", "esc", "q":
		confirmed = false
	default:
		return c, nil
	}
	action := c.Action
	return c, func() tea.Msg {
		return ConfirmMsg{Action: action, Confirmed: confirmed}
	}
}

// View renders the dialog
func (c *ConfirmDialog) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(c.Theme.Background).
		Background(c.Theme.Warning).
		Padding(0, 1).
		Bold(true)

	sections := []string{titleStyle.Render("Confirm"), "", c.Prompt}
	for _, d := range c.Details {
		sections = append(sections, lipgloss.NewStyle().Foreground(c.Theme.Muted).Render("  "+d))
	}
	sections = append(sections, "", lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")).Render("y: yes  n/Esc: no"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.Theme.Warning).
		Padding(1, 2).
		Width(c.Width).
		Render(strings.Join(sections, "\n"))
}
