package listing

import (
	"fmt"
	"testing"

	"github.com/rebeliceyang/lazymarv/internal/format"
	"github.com/rebeliceyang/lazymarv/internal/models"
)

func sevenRowView(t *testing.T) *View {
	t.Helper()
	result := &models.ListingResult{}
	for i := 0; i < 7; i++ {
		result.Rows = append(result.Rows, &models.Row{
			ID: models.ID(fmt.Sprint(i)),
			Columns: []*models.Column{
				{Name: "n", Title: "N", Formatter: "string", Value: float64(i), Defined: true},
			},
		})
	}
	v, err := BuildView(result, format.NewDefaultRegistry(format.Options{}))
	if err != nil {
		t.Fatalf("BuildView failed: %v", err)
	}
	v.SetPageSize(3)
	return v
}

func TestPagination(t *testing.T) {
	v := sevenRowView(t)

	if v.NumPages() != 3 {
		t.Fatalf("Expected 3 pages, got %d", v.NumPages())
	}
	if !v.NextPage() || !v.NextPage() {
		t.Fatal("Expected to reach the last page")
	}
	if v.Page != 2 {
		t.Fatalf("Expected page 2, got %d", v.Page)
	}
	if got := v.Paginated(); len(got) != 1 || got[0].ID != "6" {
		t.Errorf("Expected only row 6 on the last page, got %v", ids(got))
	}
	if v.NextPage() || v.Page != 2 {
		t.Error("Expected NextPage on the last page to be a no-op")
	}

	v.Page = 0
	if v.PrevPage() || v.Page != 0 {
		t.Error("Expected PrevPage on the first page to be a no-op")
	}
}

func TestPaginateUnpaginated(t *testing.T) {
	v := sevenRowView(t)
	v.SetPageSize(0)

	if len(v.Paginated()) != 7 {
		t.Errorf("Expected all rows, got %d", len(v.Paginated()))
	}
	if v.NumPages() != 1 {
		t.Errorf("Expected 1 page, got %d", v.NumPages())
	}
}

func TestPaginateOutOfRange(t *testing.T) {
	rows := sevenRowView(t).Sorted()
	if got := Paginate(rows, 5, 3); got != nil {
		t.Errorf("Expected nil past the end, got %v", ids(got))
	}
	if NumPages(0, 3) != 0 {
		t.Errorf("Expected 0 pages for no rows, got %d", NumPages(0, 3))
	}
}

func TestToggleSelect(t *testing.T) {
	v := sevenRowView(t)

	// index refers to sorted order, not the page
	v.NextPage()
	if !v.ToggleSelect(4) {
		t.Fatal("Expected toggle to succeed")
	}
	if got := ids(v.Checked()); len(got) != 1 || got[0] != "4" {
		t.Errorf("Expected row 4 checked, got %v", got)
	}
	v.ToggleSelect(4)
	if len(v.Checked()) != 0 {
		t.Error("Expected second toggle to uncheck")
	}
	if v.ToggleSelect(9) {
		t.Error("Expected out-of-range toggle to fail")
	}
}

func TestSelectAllUsesCurrentPage(t *testing.T) {
	v := sevenRowView(t)

	v.ToggleSelect(SelectAll)
	if len(v.Checked()) != 7 {
		t.Fatalf("Expected every row checked, got %d", len(v.Checked()))
	}
	if !v.AllChecked() {
		t.Error("Expected AllChecked")
	}

	v.ToggleSelect(SelectAll)
	if len(v.Checked()) != 0 {
		t.Fatalf("Expected every row unchecked, got %d", len(v.Checked()))
	}

	// page 0 fully checked while page 1 is not: select all clears everything
	v.ToggleSelect(0)
	v.ToggleSelect(1)
	v.ToggleSelect(2)
	v.ToggleSelect(SelectAll)
	if len(v.Checked()) != 0 {
		t.Errorf("Expected select all to uncheck when the page is fully checked, got %v", ids(v.Checked()))
	}
}
