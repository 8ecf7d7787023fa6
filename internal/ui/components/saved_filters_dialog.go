package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymarv/internal/models"
	"github.com/rebeliceyang/lazymarv/internal/ui/theme"
)

// SavedFiltersMode represents the dialog mode
type SavedFiltersMode int

const (
	SavedFiltersModeList SavedFiltersMode = iota
	SavedFiltersModeSearch
	SavedFiltersModeAdd
	SavedFiltersModeEdit
)

// ApplySavedFilterMsg is sent when a saved filter should be loaded and applied
type ApplySavedFilterMsg struct {
	Filter models.SavedFilter
}

// SaveFilterMsg is sent when the edit form is submitted. An empty ID adds a
// new entry for the current filter.
type SaveFilterMsg struct {
	ID          string
	Name        string
	Description string
	Tags        []string
}

// DeleteSavedFilterMsg is sent when a saved filter should be deleted
type DeleteSavedFilterMsg struct {
	ID string
}

// ExportSavedFiltersMsg is sent when the saved filters should be exported
type ExportSavedFiltersMsg struct {
	Format string // "csv" or "json"
}

// CloseSavedFiltersDialogMsg is sent when dialog should close
type CloseSavedFiltersDialogMsg struct{}

// SavedFiltersDialog manages saved filters
type SavedFiltersDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	// State
	mode     SavedFiltersMode
	filters  []models.SavedFilter
	visible  []models.SavedFilter
	selected int
	offset   int

	// Add/Edit state
	editID           string
	nameInput        string
	descriptionInput string
	tagsInput        string
	currentField     int // 0=name, 1=description, 2=tags

	// Search
	search textinput.Model
}

// NewSavedFiltersDialog creates a new saved filters dialog
func NewSavedFiltersDialog(th theme.Theme) *SavedFiltersDialog {
	ti := textinput.New()
	ti.Placeholder = "search (n: t: d: prefixes, ! negates)"
	ti.CharLimit = 256
	ti.Width = 40

	return &SavedFiltersDialog{
		Width:   80,
		Height:  30,
		Theme:   th,
		mode:    SavedFiltersModeList,
		filters: []models.SavedFilter{},
		search:  ti,
	}
}

// SetFilters updates the saved filters list
func (sd *SavedFiltersDialog) SetFilters(filters []models.SavedFilter) {
	sd.filters = filters
	sd.applySearch()
}

// StartAdd opens the form for saving the current filter
func (sd *SavedFiltersDialog) StartAdd(description string) {
	sd.mode = SavedFiltersModeAdd
	sd.editID = ""
	sd.nameInput = ""
	sd.descriptionInput = description
	sd.tagsInput = ""
	sd.currentField = 0
}

// Mode returns the current dialog mode
func (sd *SavedFiltersDialog) Mode() SavedFiltersMode {
	return sd.mode
}

// Visible returns the saved filters left after searching
func (sd *SavedFiltersDialog) Visible() []models.SavedFilter {
	return sd.visible
}

func (sd *SavedFiltersDialog) applySearch() {
	sd.visible = FilterSaved(sd.filters, ParseSearchQuery(sd.search.Value()))
	if sd.selected >= len(sd.visible) {
		sd.selected = max(len(sd.visible)-1, 0)
	}
	if sd.offset > sd.selected {
		sd.offset = sd.selected
	}
}

// Update handles keyboard input
func (sd *SavedFiltersDialog) Update(msg tea.KeyMsg) (*SavedFiltersDialog, tea.Cmd) {
	switch sd.mode {
	case SavedFiltersModeList:
		return sd.handleListMode(msg)
	case SavedFiltersModeSearch:
		return sd.handleSearchMode(msg)
	case SavedFiltersModeAdd, SavedFiltersModeEdit:
		return sd.handleEditMode(msg)
	}
	return sd, nil
}

func (sd *SavedFiltersDialog) current() (models.SavedFilter, bool) {
	if sd.selected < 0 || sd.selected >= len(sd.visible) {
		return models.SavedFilter{}, false
	}
	return sd.visible[sd.selected], true
}

func (sd *SavedFiltersDialog) handleListMode(msg tea.KeyMsg) (*SavedFiltersDialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return sd, func() tea.Msg {
			return CloseSavedFiltersDialogMsg{}
		}
	case "up", "k":
		if sd.selected > 0 {
			sd.selected--
			if sd.selected < sd.offset {
				sd.offset = sd.selected
			}
		}
	case "down", "j":
		if sd.selected < len(sd.visible)-1 {
			sd.selected++
			visibleHeight := sd.listHeight()
			if sd.selected >= sd.offset+visibleHeight {
				sd.offset = sd.selected - visibleHeight + 1
			}
		}
	case "/":
		sd.mode = SavedFiltersModeSearch
		sd.search.Focus()
	case "enter":
		if f, ok := sd.current(); ok {
			return sd, func() tea.Msg {
				return ApplySavedFilterMsg{Filter: f}
			}
		}
	case "e":
		if f, ok := sd.current(); ok {
			sd.mode = SavedFiltersModeEdit
			sd.editID = f.ID
			sd.nameInput = f.Name
			sd.descriptionInput = f.Description
			sd.tagsInput = strings.Join(f.Tags, ", ")
			sd.currentField = 0
		}
	case "d", "x":
		if f, ok := sd.current(); ok {
			id := f.ID
			return sd, func() tea.Msg {
				return DeleteSavedFilterMsg{ID: id}
			}
		}
	case "E":
		return sd, func() tea.Msg { return ExportSavedFiltersMsg{Format: "csv"} }
	case "J":
		return sd, func() tea.Msg { return ExportSavedFiltersMsg{Format: "json"} }
	}
	return sd, nil
}

func (sd *SavedFiltersDialog) handleSearchMode(msg tea.KeyMsg) (*SavedFiltersDialog, tea.Cmd) {
	switch msg.String() {
	case "esc":
		sd.search.SetValue("")
		sd.search.Blur()
		sd.mode = SavedFiltersModeList
		sd.applySearch()
		return sd, nil
	case "enter":
		sd.search.Blur()
		sd.mode = SavedFiltersModeList
		return sd, nil
	}

	var cmd tea.Cmd
	sd.search, cmd = sd.search.Update(msg)
	sd.applySearch()
	return sd, cmd
}

func (sd *SavedFiltersDialog) handleEditMode(msg tea.KeyMsg) (*SavedFiltersDialog, tea.Cmd) {
	switch msg.String() {
	case "esc":
		sd.mode = SavedFiltersModeList
	case "tab", "down":
		sd.currentField = (sd.currentField + 1) % 3
	case "shift+tab", "up":
		sd.currentField = (sd.currentField - 1 + 3) % 3
	case "backspace":
		sd.deleteChar()
	case "enter":
		if sd.currentField < 2 {
			sd.currentField++
			return sd, nil
		}
		sd.mode = SavedFiltersModeList
		name, description, tags := sd.GetEditData()
		save := SaveFilterMsg{ID: sd.editID, Name: name, Description: description, Tags: tags}
		return sd, func() tea.Msg {
			return save
		}
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			sd.addChar(string(msg.Runes))
		}
	}
	return sd, nil
}

func (sd *SavedFiltersDialog) field() *string {
	switch sd.currentField {
	case 0:
		return &sd.nameInput
	case 1:
		return &sd.descriptionInput
	default:
		return &sd.tagsInput
	}
}

func (sd *SavedFiltersDialog) addChar(ch string) {
	if ch == "" {
		ch = " "
	}
	*sd.field() += ch
}

func (sd *SavedFiltersDialog) deleteChar() {
	f := sd.field()
	if runes := []rune(*f); len(runes) > 0 {
		*f = string(runes[:len(runes)-1])
	}
}

func (sd *SavedFiltersDialog) listHeight() int {
	h := (sd.Height - 10) / 2
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the dialog
func (sd *SavedFiltersDialog) View() string {
	switch sd.mode {
	case SavedFiltersModeAdd, SavedFiltersModeEdit:
		return sd.renderEdit()
	default:
		return sd.renderList()
	}
}

func (sd *SavedFiltersDialog) renderList() string {
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().
		Foreground(sd.Theme.Foreground).
		Background(sd.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Saved Filters"))

	// Instructions
	instrStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  Enter: Apply  /: Search  e: Edit  d: Delete  E/J: Export  Esc: Close"))

	if sd.mode == SavedFiltersModeSearch || sd.search.Value() != "" {
		sections = append(sections, sd.search.View())
	}

	// Saved filters list
	if len(sd.filters) == 0 {
		sections = append(sections, "\nNo saved filters yet. Press Ctrl+S in the listing to save the current filter.")
	} else if len(sd.visible) == 0 {
		sections = append(sections, "\nNo saved filter matches the search.")
	} else {
		sections = append(sections, "")
		visibleStart := sd.offset
		visibleEnd := sd.offset + sd.listHeight()
		if visibleEnd > len(sd.visible) {
			visibleEnd = len(sd.visible)
		}

		for i := visibleStart; i < visibleEnd; i++ {
			f := sd.visible[i]

			name := f.Name
			if len(name) > 40 {
				name = name[:37] + "..."
			}

			desc := f.Description
			if len(desc) > 60 {
				desc = desc[:57] + "..."
			}

			line := fmt.Sprintf("%s  (used %d×)\n  %s", name, f.UsageCount, desc)
			if len(f.Tags) > 0 {
				line += fmt.Sprintf(" [%s]", strings.Join(f.Tags, ", "))
			}

			style := lipgloss.NewStyle().Padding(0, 1)
			if i == sd.selected {
				style = style.Background(sd.Theme.Selection).Foreground(sd.Theme.Foreground)
			}
			sections = append(sections, style.Render(line))
		}
	}

	// Container
	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(sd.Theme.Border).
		Width(sd.Width).
		Height(sd.Height).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}

func (sd *SavedFiltersDialog) renderEdit() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(sd.Theme.Foreground).
		Background(sd.Theme.Info).
		Padding(0, 1).
		Bold(true)

	title := "Save Filter"
	if sd.mode == SavedFiltersModeEdit {
		title = "Edit Saved Filter"
	}
	sections = append(sections, titleStyle.Render(title))

	instrStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("Tab: Next field  Enter: Save  Esc: Cancel"))

	sections = append(sections, "")
	sections = append(sections, sd.renderField("Name:", sd.nameInput, sd.currentField == 0))
	sections = append(sections, sd.renderField("Description:", sd.descriptionInput, sd.currentField == 1))
	sections = append(sections, sd.renderField("Tags (comma separated):", sd.tagsInput, sd.currentField == 2))

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(sd.Theme.Border).
		Width(sd.Width).
		Height(sd.Height).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}

func (sd *SavedFiltersDialog) renderField(label, value string, active bool) string {
	style := lipgloss.NewStyle().Padding(0, 1)
	if active {
		style = style.Background(sd.Theme.Selection).Foreground(sd.Theme.Foreground)
		value = value + "_"
	}
	return style.Render(fmt.Sprintf("%s %s", label, value))
}

// GetEditData returns the current edit data
func (sd *SavedFiltersDialog) GetEditData() (name, description string, tags []string) {
	name = strings.TrimSpace(sd.nameInput)
	description = strings.TrimSpace(sd.descriptionInput)

	if sd.tagsInput != "" {
		for _, part := range strings.Split(sd.tagsInput, ",") {
			if tag := strings.TrimSpace(part); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	return
}
