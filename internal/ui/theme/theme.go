package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Table colors
	TableHeader      lipgloss.Color
	TableRowEven     lipgloss.Color
	TableRowOdd      lipgloss.Color
	TableRowSelected lipgloss.Color
	TableRowChecked  lipgloss.Color
	SortIndicator    lipgloss.Color

	// Tags
	Pill         lipgloss.Color
	PillText     lipgloss.Color
	QueuedAdd    lipgloss.Color
	QueuedRemove lipgloss.Color

	// Filter tree
	BooleanAnd lipgloss.Color
	BooleanOr  lipgloss.Color
	FieldName  lipgloss.Color
	Operator   lipgloss.Color
	Value      lipgloss.Color

	// JSON colors
	JSONKey     lipgloss.Color
	JSONString  lipgloss.Color
	JSONNumber  lipgloss.Color
	JSONBoolean lipgloss.Color
	JSONNull    lipgloss.Color
}

// Names lists the built-in themes
var Names = []string{"default", "catppuccin-mocha"}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
