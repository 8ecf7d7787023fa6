package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymarv/internal/bulk"
	"github.com/rebeliceyang/lazymarv/internal/ui/theme"
)

// CommentDialog writes one comment to every selected fileset
type CommentDialog struct {
	Width  int
	Theme  theme.Theme
	Dialog *bulk.Dialog

	editor textarea.Model
	err    string
}

// NewCommentDialog creates a comment dialog over a bulk dialog opened in comment mode
func NewCommentDialog(th theme.Theme, d *bulk.Dialog) *CommentDialog {
	ta := textarea.New()
	ta.Placeholder = "Comment text"
	ta.CharLimit = 4096
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(6)
	ta.Focus()

	return &CommentDialog{
		Width:  66,
		Theme:  th,
		Dialog: d,
		editor: ta,
	}
}

// Update handles keyboard input
func (cd *CommentDialog) Update(msg tea.KeyMsg) (*CommentDialog, tea.Cmd) {
	if msg.String() == "esc" {
		return cd, func() tea.Msg { return CloseBulkDialogMsg{} }
	}
	if cd.Dialog.Phase == bulk.PhaseApplying {
		return cd, nil
	}

	if msg.String() == "ctrl+s" {
		text := strings.TrimSpace(cd.editor.Value())
		if text == "" {
			cd.err = "Comment is empty"
			return cd, nil
		}
		if err := cd.Dialog.SetText(text); err != nil {
			cd.err = err.Error()
			return cd, nil
		}
		cd.err = ""
		cd.editor.Blur()
		return cd, func() tea.Msg { return StartBulkMsg{} }
	}

	var cmd tea.Cmd
	cd.editor, cmd = cd.editor.Update(msg)
	return cd, cmd
}

// View renders the dialog
func (cd *CommentDialog) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(cd.Theme.Foreground).
		Background(cd.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render(fmt.Sprintf("Comment (%d filesets)", len(cd.Dialog.Rows))))

	instrStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("Ctrl+S: save  Esc: cancel"))
	sections = append(sections, "", cd.editor.View())

	if cd.err != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(cd.Theme.Error).Render("Error: "+cd.err))
	}
	if status := bulkStatus(cd.Dialog, cd.Theme); status != "" {
		sections = append(sections, "", status)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cd.Theme.BorderFocused).
		Width(cd.Width).
		Padding(1).
		Render(strings.Join(sections, "\n"))
}
