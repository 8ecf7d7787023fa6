package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymarv/internal/ui/theme"
)

// ErrorOverlay shows an error centered above everything else
type ErrorOverlay struct {
	Width   int
	Theme   theme.Theme
	Title   string
	Message string
}

// NewErrorOverlay creates a new error overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{
		Width: 60,
		Theme: th,
	}
}

// SetError sets the error to display
func (e *ErrorOverlay) SetError(title, message string) {
	e.Title = title
	e.Message = message
}

// View renders the overlay
func (e *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Background).
		Background(e.Theme.Error).
		Padding(0, 1).
		Bold(true)

	messageStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Foreground).
		Width(e.Width - 4)

	hintStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6c7086")).
		Italic(true)

	sections := []string{
		titleStyle.Render(e.Title),
		"",
		messageStyle.Render(e.Message),
		"",
		hintStyle.Render("Esc/Enter: dismiss  q: quit"),
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.Error).
		Padding(1, 2).
		Width(e.Width).
		Render(strings.Join(sections, "\n"))
}
