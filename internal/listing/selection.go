package listing

import "github.com/rebeliceyang/lazymarv/internal/models"

// SelectAll toggles every row at once
const SelectAll = -1

// AllChecked reports whether every row of the current page is checked
func (v *View) AllChecked() bool {
	for _, row := range v.Paginated() {
		if !row.Checked {
			return false
		}
	}
	return true
}

// ToggleSelect flips the row at a sorted index, or sets every row to the
// opposite of AllChecked when index is SelectAll.
func (v *View) ToggleSelect(index int) bool {
	if index == SelectAll {
		checked := !v.AllChecked()
		for _, row := range v.sorted {
			row.Checked = checked
		}
		return true
	}
	if index < 0 || index >= len(v.sorted) {
		return false
	}
	row := v.sorted[index]
	row.Checked = !row.Checked
	return true
}

// Checked returns the selected rows in display order
func (v *View) Checked() []*models.Row {
	var rows []*models.Row
	for _, row := range v.sorted {
		if row.Checked {
			rows = append(rows, row)
		}
	}
	return rows
}

// ClearSelection unchecks every row
func (v *View) ClearSelection() {
	for _, row := range v.Rows {
		row.Checked = false
	}
}
