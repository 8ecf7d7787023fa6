package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),
		Muted:      lipgloss.Color("244"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// Table colors
		TableHeader:      lipgloss.Color("62"),
		TableRowEven:     lipgloss.Color("235"),
		TableRowOdd:      lipgloss.Color("236"),
		TableRowSelected: lipgloss.Color("237"),
		TableRowChecked:  lipgloss.Color("150"),
		SortIndicator:    lipgloss.Color("220"),

		// Tags
		Pill:         lipgloss.Color("60"),
		PillText:     lipgloss.Color("255"),
		QueuedAdd:    lipgloss.Color("42"),
		QueuedRemove: lipgloss.Color("196"),

		// Filter tree
		BooleanAnd: lipgloss.Color("75"),
		BooleanOr:  lipgloss.Color("176"),
		FieldName:  lipgloss.Color("117"),
		Operator:   lipgloss.Color("220"),
		Value:      lipgloss.Color("180"),

		// JSON colors
		JSONKey:     lipgloss.Color("117"),
		JSONString:  lipgloss.Color("180"),
		JSONNumber:  lipgloss.Color("150"),
		JSONBoolean: lipgloss.Color("75"),
		JSONNull:    lipgloss.Color("244"),
	}
}
