package listing

import (
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazymarv/internal/format"
	"github.com/rebeliceyang/lazymarv/internal/models"
)

// NoSort marks a view that keeps the server's row order
const NoSort = -1

// Header is one column heading shared by every row of a result
type Header struct {
	Name  string
	Title string
}

// View is the sorted, paginated and selectable form of a listing result
type View struct {
	Headers   []Header
	Rows      []*models.Row
	Sort      int
	Ascending bool
	Page      int
	PageSize  int

	registry   *format.Registry
	sorted     []*models.Row
	generation uint64
}

// BuildView formats every cell of result and returns a view over it
func BuildView(result *models.ListingResult, registry *format.Registry) (*View, error) {
	v := &View{
		Sort:      NoSort,
		Ascending: true,
		registry:  registry,
	}
	if err := v.Load(result); err != nil {
		return nil, err
	}
	return v, nil
}

// Load replaces the result wholesale. A sort picked by the user survives;
// page and selection are reset and the generation advances.
func (v *View) Load(result *models.ListingResult) error {
	if result == nil {
		result = &models.ListingResult{}
	}
	if err := FormatRows(result.Rows, v.registry); err != nil {
		return err
	}

	var sortName string
	if v.Sort != NoSort && v.Sort < len(v.Headers) {
		sortName = v.Headers[v.Sort].Name
	}

	v.Rows = result.Rows
	v.Headers = nil
	if len(v.Rows) > 0 {
		for _, col := range v.Rows[0].Columns {
			v.Headers = append(v.Headers, Header{Name: col.Name, Title: col.Title})
		}
	}
	for _, row := range v.Rows {
		row.Checked = false
	}

	switch {
	case sortName != "":
		v.Sort = v.ColumnIndex(sortName)
	case result.Sort != nil && len(v.Rows) > 0:
		v.Sort = v.ColumnIndex(*result.Sort)
		if result.Ascending != nil {
			v.Ascending = *result.Ascending
		}
	default:
		v.Sort = NoSort
	}

	v.Page = 0
	v.generation++
	v.resort()
	return nil
}

// Generation changes every time Load replaces the rows
func (v *View) Generation() uint64 {
	return v.generation
}

// FormatRows fills the Formatted text of every column
func FormatRows(rows []*models.Row, registry *format.Registry) error {
	for _, row := range rows {
		if err := FormatRow(row, registry); err != nil {
			return fmt.Errorf("failed to format row %s: %w", row.ID, err)
		}
	}
	return nil
}

// FormatRow fills the Formatted text of one row
func FormatRow(row *models.Row, registry *format.Registry) error {
	for _, col := range row.Columns {
		f, err := registry.Lookup(col.Formatter)
		if err != nil {
			return fmt.Errorf("column %s: %w", col.Name, err)
		}
		if !col.List {
			col.Formatted = f(col.Value)
			continue
		}
		list, _ := col.Value.([]interface{})
		var b strings.Builder
		for _, item := range list {
			b.WriteString(f(item))
		}
		col.Formatted = b.String()
	}
	return nil
}

// RefreshRow re-formats a row mutated in place and re-sorts the view
func (v *View) RefreshRow(row *models.Row) error {
	if err := FormatRow(row, v.registry); err != nil {
		return err
	}
	v.resort()
	return nil
}

// resort recomputes the sorted order
func (v *View) resort() {
	if v.Sort == NoSort {
		v.sorted = append(v.sorted[:0:0], v.Rows...)
		return
	}
	v.sorted = SortRows(v.Rows, v.Sort, v.Ascending)
}

// Sorted returns all rows in display order
func (v *View) Sorted() []*models.Row {
	return v.sorted
}

// SetSort sorts by column; picking the current column flips the direction
func (v *View) SetSort(col int) {
	if col < 0 || col >= len(v.Headers) {
		return
	}
	if v.Sort == col {
		v.Ascending = !v.Ascending
	} else {
		v.Sort = col
		v.Ascending = true
	}
	v.resort()
}

// ColumnIndex returns the index of the named column or NoSort
func (v *View) ColumnIndex(name string) int {
	for i, h := range v.Headers {
		if h.Name == name {
			return i
		}
	}
	return NoSort
}

// RowByID finds a row of the current result
func (v *View) RowByID(id models.ID) *models.Row {
	for _, row := range v.Rows {
		if row.ID == id {
			return row
		}
	}
	return nil
}

// Len returns the number of rows in the result
func (v *View) Len() int {
	return len(v.Rows)
}
