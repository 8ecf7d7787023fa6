package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymarv/internal/listing"
	"github.com/rebeliceyang/lazymarv/internal/models"
	"github.com/rebeliceyang/lazymarv/internal/ui/theme"
)

// TableView displays one page of a listing view with scrolling, checkboxes
// and a sort indicator
type TableView struct {
	Listing *listing.View
	Width   int
	Height  int
	Theme   theme.Theme

	// Scrolling state, relative to the current page
	TopRow      int
	VisibleRows int
	SelectedRow int

	// Column under the sort cursor
	SelectedCol int

	// SelectMode shows the checkbox column
	SelectMode bool
	// ShowCursor highlights the selected row
	ShowCursor bool

	// Column widths (calculated)
	ColumnWidths []int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Theme:        th,
		ShowCursor:   true,
		ColumnWidths: []int{},
	}
}

// SetListing replaces the listing shown by the table
func (tv *TableView) SetListing(v *listing.View) {
	tv.Listing = v
	tv.Reset()
}

// Reset moves the cursor back to the top of the page
func (tv *TableView) Reset() {
	tv.TopRow = 0
	tv.SelectedRow = 0
	if tv.Listing != nil && tv.SelectedCol >= len(tv.Listing.Headers) {
		tv.SelectedCol = 0
	}
}

// page returns the rows of the current page
func (tv *TableView) page() []*models.Row {
	if tv.Listing == nil {
		return nil
	}
	return tv.Listing.Paginated()
}

// Current returns the row under the cursor
func (tv *TableView) Current() *models.Row {
	rows := tv.page()
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(rows) {
		return nil
	}
	return rows[tv.SelectedRow]
}

// CurrentIndex returns the sorted index of the row under the cursor
func (tv *TableView) CurrentIndex() int {
	if tv.Listing == nil {
		return -1
	}
	return tv.Listing.PageOffset() + tv.SelectedRow
}

// calculateColumnWidths calculates optimal column widths
func (tv *TableView) calculateColumnWidths(rows []*models.Row) {
	headers := tv.Listing.Headers
	tv.ColumnWidths = make([]int, len(headers))

	// Start with column header lengths, plus room for the sort arrow
	for i, h := range headers {
		tv.ColumnWidths[i] = lipgloss.Width(h.Title) + 2
	}

	// Check row data
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(tv.ColumnWidths) {
				if w := lipgloss.Width(col.Formatted); w > tv.ColumnWidths[i] {
					tv.ColumnWidths[i] = w
				}
			}
		}
	}

	// Apply max width constraint
	maxWidth := 40
	for i := range tv.ColumnWidths {
		if tv.ColumnWidths[i] > maxWidth {
			tv.ColumnWidths[i] = maxWidth
		}
		// Min width
		if tv.ColumnWidths[i] < 6 {
			tv.ColumnWidths[i] = 6
		}
	}
}

// View renders the table
func (tv *TableView) View() string {
	if tv.Listing == nil {
		return lipgloss.NewStyle().Foreground(tv.Theme.Muted).Render("Loading…")
	}
	if len(tv.Listing.Headers) == 0 {
		return lipgloss.NewStyle().Foreground(tv.Theme.Muted).Render("No filesets match the filter")
	}

	rows := tv.page()
	tv.calculateColumnWidths(rows)

	var b strings.Builder

	// Render header
	b.WriteString(tv.renderHeader())
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())
	b.WriteString("\n")

	// Calculate how many rows we can show
	tv.VisibleRows = tv.Height - 3 // Header + separator + status
	if tv.VisibleRows < 1 {
		tv.VisibleRows = 1
	}
	tv.clamp(len(rows))

	// Render visible rows
	endRow := tv.TopRow + tv.VisibleRows
	if endRow > len(rows) {
		endRow = len(rows)
	}

	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(rows[i], i, tv.ShowCursor && i == tv.SelectedRow))
		if i < endRow-1 {
			b.WriteString("\n")
		}
	}

	// Render status
	b.WriteString("\n")
	b.WriteString(tv.renderStatus(len(rows)))

	return b.String()
}

func (tv *TableView) renderHeader() string {
	var parts []string
	if tv.SelectMode {
		box := "[ ]"
		if tv.Listing.Len() > 0 && tv.Listing.AllChecked() {
			box = "[x]"
		}
		parts = append(parts, box)
	}
	for i, h := range tv.Listing.Headers {
		title := h.Title
		if i == tv.Listing.Sort {
			arrow := "▲"
			if !tv.Listing.Ascending {
				arrow = "▼"
			}
			title += " " + lipgloss.NewStyle().Foreground(tv.Theme.SortIndicator).Render(arrow)
		}
		cell := tv.pad(title, tv.ColumnWidths[i])
		if i == tv.SelectedCol && tv.ShowCursor {
			cell = lipgloss.NewStyle().Underline(true).Render(cell)
		}
		parts = append(parts, cell)
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader)
	return headerStyle.Render(" " + strings.Join(parts, " │ ") + " ")
}

func (tv *TableView) renderSeparator() string {
	var parts []string
	if tv.SelectMode {
		parts = append(parts, strings.Repeat("─", 3))
	}
	for _, width := range tv.ColumnWidths {
		parts = append(parts, strings.Repeat("─", width))
	}
	separatorStyle := lipgloss.NewStyle().
		Foreground(tv.Theme.Border)
	return separatorStyle.Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(row *models.Row, index int, selected bool) string {
	var parts []string
	if tv.SelectMode {
		box := "[ ]"
		if row.Checked {
			box = "[x]"
		}
		parts = append(parts, box)
	}
	for i, col := range row.Columns {
		if i >= len(tv.ColumnWidths) {
			break
		}
		parts = append(parts, tv.pad(col.Formatted, tv.ColumnWidths[i]))
	}

	line := " " + strings.Join(parts, " │ ") + " "

	style := lipgloss.NewStyle()
	if index%2 == 1 {
		style = style.Background(tv.Theme.TableRowOdd)
	}
	if row.Checked {
		style = style.Foreground(tv.Theme.TableRowChecked)
	}
	if selected {
		style = style.
			Background(tv.Theme.TableRowSelected).
			Bold(true)
	}
	return style.Render(line)
}

func (tv *TableView) renderStatus(pageRows int) string {
	total := tv.Listing.Len()
	var showing string
	if total == 0 {
		showing = " 0 filesets"
	} else {
		start := tv.Listing.PageOffset() + 1
		end := tv.Listing.PageOffset() + pageRows
		showing = fmt.Sprintf(" %d-%d of %d filesets", start, end, total)
		if pages := tv.Listing.NumPages(); pages > 1 {
			showing += fmt.Sprintf("  page %d/%d", tv.Listing.Page+1, pages)
		}
	}
	if checked := len(tv.Listing.Checked()); checked > 0 {
		showing += fmt.Sprintf("  %d selected", checked)
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Muted).
		Italic(true).
		Render(showing)
}

// pad fits s into width display cells
func (tv *TableView) pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
			runes = runes[:len(runes)-1]
		}
		return string(runes) + "..."
	}
	return s + strings.Repeat(" ", width-w)
}

// clamp keeps the cursor on the page and inside the visible window
func (tv *TableView) clamp(n int) {
	if tv.SelectedRow >= n {
		tv.SelectedRow = n - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.VisibleRows > 0 && tv.SelectedRow >= tv.TopRow+tv.VisibleRows {
		tv.TopRow = tv.SelectedRow - tv.VisibleRows + 1
	}
	if tv.TopRow < 0 {
		tv.TopRow = 0
	}
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta
	tv.clamp(len(tv.page()))
}

// MoveColumn moves the sort cursor left or right
func (tv *TableView) MoveColumn(delta int) {
	if tv.Listing == nil || len(tv.Listing.Headers) == 0 {
		return
	}
	n := len(tv.Listing.Headers)
	tv.SelectedCol = (tv.SelectedCol + delta + n) % n
}

// SortByColumn sorts by the column under the cursor, flipping direction on repeat
func (tv *TableView) SortByColumn() {
	if tv.Listing == nil {
		return
	}
	tv.Listing.SetSort(tv.SelectedCol)
}

// ToggleCurrent flips the checkbox of the row under the cursor
func (tv *TableView) ToggleCurrent() {
	if tv.Listing == nil || tv.Current() == nil {
		return
	}
	tv.Listing.ToggleSelect(tv.CurrentIndex())
}

// ToggleAll checks or unchecks every row
func (tv *TableView) ToggleAll() {
	if tv.Listing == nil {
		return
	}
	tv.Listing.ToggleSelect(listing.SelectAll)
}

// NextPage moves to the next listing page
func (tv *TableView) NextPage() {
	if tv.Listing != nil && tv.Listing.NextPage() {
		tv.TopRow = 0
		tv.SelectedRow = 0
	}
}

// PrevPage moves to the previous listing page
func (tv *TableView) PrevPage() {
	if tv.Listing != nil && tv.Listing.PrevPage() {
		tv.TopRow = 0
		tv.SelectedRow = 0
	}
}

// PageUp moves the cursor one screen up
func (tv *TableView) PageUp() {
	tv.SelectedRow -= tv.VisibleRows
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	tv.TopRow = tv.SelectedRow
}

// PageDown moves the cursor one screen down
func (tv *TableView) PageDown() {
	n := len(tv.page())
	tv.SelectedRow += tv.VisibleRows
	if tv.SelectedRow >= n {
		tv.SelectedRow = n - 1
	}
	tv.TopRow = tv.SelectedRow
	if tv.TopRow+tv.VisibleRows > n {
		tv.TopRow = n - tv.VisibleRows
		if tv.TopRow < 0 {
			tv.TopRow = 0
		}
	}
}
