package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymarv/internal/history"
	"github.com/rebeliceyang/lazymarv/internal/ui/theme"
)

// ApplyHistoryMsg is sent when a historic filter should be applied again
type ApplyHistoryMsg struct {
	Token string
}

// SearchHistoryMsg asks the app to search the filter history
type SearchHistoryMsg struct {
	Query string
}

// CloseHistoryDialogMsg is sent when the history dialog should close
type CloseHistoryDialogMsg struct{}

// HistoryDialog lists previously applied filters
type HistoryDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	entries   []history.Entry
	selected  int
	offset    int
	searching bool
	search    textinput.Model
}

// NewHistoryDialog creates a new history dialog
func NewHistoryDialog(th theme.Theme) *HistoryDialog {
	ti := textinput.New()
	ti.Placeholder = "search description or token"
	ti.CharLimit = 256
	ti.Width = 40

	return &HistoryDialog{
		Width:  80,
		Height: 30,
		Theme:  th,
		search: ti,
	}
}

// SetEntries replaces the listed entries
func (hd *HistoryDialog) SetEntries(entries []history.Entry) {
	hd.entries = entries
	hd.selected = 0
	hd.offset = 0
}

// Update handles keyboard input
func (hd *HistoryDialog) Update(msg tea.KeyMsg) (*HistoryDialog, tea.Cmd) {
	if hd.searching {
		switch msg.String() {
		case "esc":
			hd.searching = false
			hd.search.Blur()
			return hd, nil
		case "enter":
			hd.searching = false
			hd.search.Blur()
			query := hd.search.Value()
			return hd, func() tea.Msg { return SearchHistoryMsg{Query: query} }
		}
		var cmd tea.Cmd
		hd.search, cmd = hd.search.Update(msg)
		return hd, cmd
	}

	switch msg.String() {
	case "esc", "q":
		return hd, func() tea.Msg { return CloseHistoryDialogMsg{} }
	case "up", "k":
		if hd.selected > 0 {
			hd.selected--
			if hd.selected < hd.offset {
				hd.offset = hd.selected
			}
		}
	case "down", "j":
		if hd.selected < len(hd.entries)-1 {
			hd.selected++
			if h := hd.listHeight(); hd.selected >= hd.offset+h {
				hd.offset = hd.selected - h + 1
			}
		}
	case "/":
		hd.searching = true
		hd.search.Focus()
	case "enter":
		if hd.selected < len(hd.entries) {
			token := hd.entries[hd.selected].Token
			return hd, func() tea.Msg { return ApplyHistoryMsg{Token: token} }
		}
	}
	return hd, nil
}

func (hd *HistoryDialog) listHeight() int {
	h := (hd.Height - 10) / 2
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the dialog
func (hd *HistoryDialog) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(hd.Theme.Foreground).
		Background(hd.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Filter History"))

	instrStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  Enter: Apply  /: Search  Esc: Close"))

	if hd.searching || hd.search.Value() != "" {
		sections = append(sections, hd.search.View())
	}

	if len(hd.entries) == 0 {
		sections = append(sections, "\nNo filters applied yet.")
	} else {
		sections = append(sections, "")
		end := hd.offset + hd.listHeight()
		if end > len(hd.entries) {
			end = len(hd.entries)
		}
		muted := lipgloss.NewStyle().Foreground(hd.Theme.Muted)
		for i := hd.offset; i < end; i++ {
			e := hd.entries[i]
			status := fmt.Sprintf("%d rows, %s", e.RowCount, e.Duration.Round(1e6))
			if !e.Success {
				status = lipgloss.NewStyle().Foreground(hd.Theme.Error).Render("failed: " + e.ErrorMessage)
			}
			line := fmt.Sprintf("%s\n  %s  %s", e.Description, muted.Render(e.AppliedAt.Format("2006-01-02 15:04")), status)

			style := lipgloss.NewStyle().Padding(0, 1)
			if i == hd.selected {
				style = style.Background(hd.Theme.Selection).Foreground(hd.Theme.Foreground)
			}
			sections = append(sections, style.Render(line))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(hd.Theme.Border).
		Width(hd.Width).
		Height(hd.Height).
		Padding(1).
		Render(strings.Join(sections, "\n"))
}
