package listing

import "github.com/rebeliceyang/lazymarv/internal/models"

// Paginate returns the half-open page [page*size, (page+1)*size).
// A size of 0 disables pagination.
func Paginate(rows []*models.Row, page, size int) []*models.Row {
	if size <= 0 {
		return rows
	}
	start := page * size
	if start < 0 || start >= len(rows) {
		return nil
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// NumPages returns ceil(n/size), or 1 without pagination
func NumPages(n, size int) int {
	if size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// NumPages returns the page count of the view
func (v *View) NumPages() int {
	return NumPages(len(v.sorted), v.PageSize)
}

// Paginated returns the rows of the current page
func (v *View) Paginated() []*models.Row {
	return Paginate(v.sorted, v.Page, v.PageSize)
}

// PageOffset returns the sorted index of the first row on the current page
func (v *View) PageOffset() int {
	if v.PageSize <= 0 {
		return 0
	}
	return v.Page * v.PageSize
}

// PrevPage moves one page back unless on the first page
func (v *View) PrevPage() bool {
	if v.Page > 0 {
		v.Page--
		return true
	}
	return false
}

// NextPage moves one page forward unless on the last page
func (v *View) NextPage() bool {
	if v.Page < v.NumPages()-1 {
		v.Page++
		return true
	}
	return false
}

// SetPageSize changes the page size and returns to the first page
func (v *View) SetPageSize(size int) {
	if size < 0 {
		size = 0
	}
	v.PageSize = size
	v.Page = 0
}
