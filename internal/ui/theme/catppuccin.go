package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// A soothing pastel theme for cozy TUIs
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		// Background colors
		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Muted:      lipgloss.Color("#6c7086"), // Overlay0

		// UI elements
		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// Table colors
		TableHeader:      lipgloss.Color("#89b4fa"), // Blue
		TableRowEven:     lipgloss.Color("#1e1e2e"), // Base
		TableRowOdd:      lipgloss.Color("#181825"), // Mantle
		TableRowSelected: lipgloss.Color("#313244"), // Surface0
		TableRowChecked:  lipgloss.Color("#a6e3a1"), // Green
		SortIndicator:    lipgloss.Color("#f9e2af"), // Yellow

		// Tags
		Pill:         lipgloss.Color("#585b70"), // Surface2
		PillText:     lipgloss.Color("#cdd6f4"), // Text
		QueuedAdd:    lipgloss.Color("#a6e3a1"), // Green
		QueuedRemove: lipgloss.Color("#f38ba8"), // Red

		// Filter tree
		BooleanAnd: lipgloss.Color("#89b4fa"), // Blue
		BooleanOr:  lipgloss.Color("#cba6f7"), // Mauve
		FieldName:  lipgloss.Color("#94e2d5"), // Teal
		Operator:   lipgloss.Color("#f9e2af"), // Yellow
		Value:      lipgloss.Color("#fab387"), // Peach

		// JSON colors
		JSONKey:     lipgloss.Color("#89b4fa"), // Blue
		JSONString:  lipgloss.Color("#a6e3a1"), // Green
		JSONNumber:  lipgloss.Color("#fab387"), // Peach
		JSONBoolean: lipgloss.Color("#f9e2af"), // Yellow
		JSONNull:    lipgloss.Color("#6c7086"), // Overlay0
	}
}
