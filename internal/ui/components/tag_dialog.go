package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymarv/internal/bulk"
	"github.com/rebeliceyang/lazymarv/internal/ui/theme"
)

// StartBulkMsg is sent when the queued bulk operation should run
type StartBulkMsg struct{}

// CloseBulkDialogMsg is sent when a bulk dialog should close
type CloseBulkDialogMsg struct{}

// maxSuggestions limits the tag suggestions shown below the input
const maxSuggestions = 5

// tagItem is one entry of the tag list under the cursor
type tagItem struct {
	label string
	group string
}

// TagDialog edits the tags of the selected filesets
type TagDialog struct {
	Width  int
	Height int
	Theme  theme.Theme
	Dialog *bulk.Dialog

	// State
	input       textinput.Model
	known       []string
	suggestions []string
	suggestion  int
	cursor      int
}

// NewTagDialog creates a tag dialog over a bulk dialog opened in tag mode
func NewTagDialog(th theme.Theme, d *bulk.Dialog, known []string) *TagDialog {
	ti := textinput.New()
	ti.Placeholder = "tag to add"
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 40

	return &TagDialog{
		Width:  70,
		Height: 24,
		Theme:  th,
		Dialog: d,
		input:  ti,
		known:  known,
	}
}

// items lists the tags the cursor can move over: common, then individual, then queued adds
func (td *TagDialog) items() []tagItem {
	e := td.Dialog.Editor
	if e == nil {
		return nil
	}
	var items []tagItem
	for _, t := range e.Common {
		items = append(items, tagItem{label: t, group: "On every fileset:"})
	}
	for _, t := range e.Individual {
		items = append(items, tagItem{label: t, group: "On some filesets:"})
	}
	for _, t := range e.ToAdd {
		if !slices.Contains(e.Individual, t) {
			items = append(items, tagItem{label: t, group: "New tags:"})
		}
	}
	return items
}

// Suggestions returns the current tag suggestions
func (td *TagDialog) Suggestions() []string {
	return td.suggestions
}

func (td *TagDialog) updateSuggestions() {
	td.suggestions = Suggest(td.input.Value(), td.known, maxSuggestions)
	td.suggestion = 0
}

// Update handles keyboard input
func (td *TagDialog) Update(msg tea.KeyMsg) (*TagDialog, tea.Cmd) {
	if td.Dialog.Phase == bulk.PhaseApplying {
		if msg.String() == "esc" {
			return td, func() tea.Msg { return CloseBulkDialogMsg{} }
		}
		return td, nil
	}

	switch msg.String() {
	case "esc":
		return td, func() tea.Msg { return CloseBulkDialogMsg{} }
	case "ctrl+s":
		return td, func() tea.Msg { return StartBulkMsg{} }
	case "up":
		if td.cursor > 0 {
			td.cursor--
		}
		return td, nil
	case "down":
		if td.cursor < len(td.items())-1 {
			td.cursor++
		}
		return td, nil
	case "tab":
		if len(td.suggestions) > 0 {
			td.input.SetValue(td.suggestions[td.suggestion])
			td.input.CursorEnd()
			td.suggestions = nil
		}
		return td, nil
	case "ctrl+n":
		if len(td.suggestions) > 0 {
			td.suggestion = (td.suggestion + 1) % len(td.suggestions)
		}
		return td, nil
	case "ctrl+p":
		if len(td.suggestions) > 0 {
			td.suggestion = (td.suggestion - 1 + len(td.suggestions)) % len(td.suggestions)
		}
		return td, nil
	case "enter":
		if tag := strings.TrimSpace(td.input.Value()); tag != "" {
			_ = td.Dialog.QueueAdd(tag)
			td.input.SetValue("")
			td.suggestions = nil
			return td, nil
		}
		td.toggleCurrent()
		return td, nil
	}

	var cmd tea.Cmd
	td.input, cmd = td.input.Update(msg)
	td.updateSuggestions()
	return td, cmd
}

// toggleCurrent queues the tag under the cursor for removal, or unqueues it
func (td *TagDialog) toggleCurrent() {
	items := td.items()
	if td.cursor < 0 || td.cursor >= len(items) {
		return
	}
	tag := items[td.cursor].label
	e := td.Dialog.Editor
	if slices.Contains(e.ToAdd, tag) || slices.Contains(e.ToRemove, tag) {
		_ = td.Dialog.Unqueue(tag)
	} else {
		_ = td.Dialog.QueueRemove(tag)
	}
	if n := len(td.items()); td.cursor >= n {
		td.cursor = max(n-1, 0)
	}
}

// View renders the dialog
func (td *TagDialog) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(td.Theme.Foreground).
		Background(td.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render(fmt.Sprintf("Tags (%d filesets)", len(td.Dialog.Rows))))

	instrStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("Enter: add typed tag / toggle removal  Tab: complete  Ctrl+S: apply  Esc: close"))

	items := td.items()
	group := ""
	for i, item := range items {
		if item.group != group {
			group = item.group
			sections = append(sections, "", group)
		}
		sections = append(sections, td.renderItem(item, i == td.cursor))
	}
	if len(items) == 0 {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(td.Theme.Muted).Render("No tags yet"))
	}

	sections = append(sections, "", td.input.View())
	for i, s := range td.suggestions {
		style := lipgloss.NewStyle().Foreground(td.Theme.Muted).Padding(0, 2)
		if i == td.suggestion {
			style = style.Foreground(td.Theme.Foreground).Background(td.Theme.Selection)
		}
		sections = append(sections, style.Render(s))
	}

	if status := bulkStatus(td.Dialog, td.Theme); status != "" {
		sections = append(sections, "", status)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(td.Theme.BorderFocused).
		Width(td.Width).
		Padding(1).
		Render(strings.Join(sections, "\n"))
}

func (td *TagDialog) renderItem(item tagItem, selected bool) string {
	e := td.Dialog.Editor
	marker := " "
	style := lipgloss.NewStyle().Foreground(td.Theme.PillText).Background(td.Theme.Pill)
	switch {
	case slices.Contains(e.ToRemove, item.label):
		marker = "-"
		style = style.Background(td.Theme.QueuedRemove).Strikethrough(true)
	case slices.Contains(e.ToAdd, item.label):
		marker = "+"
		style = style.Background(td.Theme.QueuedAdd)
	}
	line := fmt.Sprintf("%s %s", marker, style.Render(" "+item.label+" "))
	if selected {
		return lipgloss.NewStyle().Background(td.Theme.Selection).Render("> " + line)
	}
	return "  " + line
}

// bulkStatus renders progress or failure of a running bulk dialog
func bulkStatus(d *bulk.Dialog, th theme.Theme) string {
	if d.Phase != bulk.PhaseApplying {
		return ""
	}
	if d.Err != nil {
		return lipgloss.NewStyle().Foreground(th.Error).Bold(true).
			Render(fmt.Sprintf("Stopped: %v\nEsc to close; finished filesets keep their changes.", d.Err))
	}
	return lipgloss.NewStyle().Foreground(th.Warning).
		Render(fmt.Sprintf("Applying… %d filesets remaining", d.Remaining()))
}
