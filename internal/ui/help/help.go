package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section groups the bindings of one screen
type Section struct {
	Title    string
	Bindings []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc/Enter", "Dismiss error"},
		{"Tab", "Switch between filter and listing"},
		{"r, F5", "Reload listing"},
		{"y", "Copy filter token"},
		{"Ctrl+S", "Save current filter"},
		{"Ctrl+O", "Open saved filters"},
		{"H", "Open filter history"},
	}
}

// GetListingKeys returns listing key bindings
func GetListingKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k, ↓/j", "Move cursor"},
		{"Ctrl+U/Ctrl+D", "Scroll one screen"},
		{"[ / ]", "Previous / next page"},
		{"←/h, →/l", "Move sort cursor"},
		{"s", "Sort by column (again flips)"},
		{"v", "Toggle select mode"},
		{"Space", "Check row"},
		{"a", "Check / uncheck all"},
		{"Enter", "Open fileset detail"},
		{"t", "Edit tags of checked filesets"},
		{"c", "Comment on checked filesets"},
		{"D", "Delete fileset"},
		{"e / E", "Export listing as CSV / XLSX"},
		{"f / F", "Copy file paths / download URLs"},
	}
}

// GetFilterKeys returns filter builder key bindings
func GetFilterKeys() []KeyBinding {
	return []KeyBinding{
		{"a", "Add condition"},
		{"&, |", "Combine with AND / OR"},
		{"d, x", "Remove condition"},
		{"←/h, →/l", "Cycle field"},
		{"o, O", "Cycle operator"},
		{"Enter, e", "Edit value"},
		{"A", "Apply filter"},
		{"u", "Toggle auto update"},
		{"R", "Reset filter"},
	}
}

// GetDialogKeys returns bulk dialog and detail key bindings
func GetDialogKeys() []KeyBinding {
	return []KeyBinding{
		{"Enter", "Tags: add typed tag or toggle removal"},
		{"Tab", "Tags: accept suggestion"},
		{"Ctrl+S", "Apply tags or comment"},
		{"/", "Detail: JSONPath query"},
		{"p", "Detail: list JSON paths"},
		{"Esc", "Close dialog"},
	}
}

// Sections returns every help section in display order
func Sections() []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Listing", GetListingKeys()},
		{"Filter Builder", GetFilterKeys()},
		{"Dialogs", GetDialogKeys()},
	}
}

// Render creates the help view
func Render(width, height int, theme lipgloss.Style) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("75")).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("lazymarv - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range Sections() {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Bindings {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := theme.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(width - 4).
		Height(height - 4)

	return boxStyle.Render(b.String())
}
