package listing

import (
	"fmt"
	"testing"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

func row(id string, value interface{}) *models.Row {
	return &models.Row{ID: models.ID(id), Columns: []*models.Column{{Name: "c", Value: value, Defined: true}}}
}

func undefinedRow(id string) *models.Row {
	return &models.Row{ID: models.ID(id), Columns: []*models.Column{{Name: "c"}}}
}

func TestSortRowsUndefinedLast(t *testing.T) {
	rows := []*models.Row{
		undefinedRow("u1"),
		row("a", 3.0),
		undefinedRow("u2"),
		row("b", 1.0),
		row("c", 2.0),
	}

	for _, asc := range []bool{true, false} {
		sorted := SortRows(rows, 0, asc)
		got := ids(sorted)
		if got[3] != "u1" || got[4] != "u2" {
			t.Errorf("ascending=%v: expected undefined rows last in input order, got %v", asc, got)
		}
	}

	if got := fmt.Sprint(ids(SortRows(rows, 0, true))); got != "[b c a u1 u2]" {
		t.Errorf("Expected [b c a u1 u2], got %s", got)
	}
	if got := fmt.Sprint(ids(SortRows(rows, 0, false))); got != "[a c b u1 u2]" {
		t.Errorf("Expected [a c b u1 u2], got %s", got)
	}
}

func TestSortRowsKeyNormalization(t *testing.T) {
	rows := []*models.Row{
		row("list3", []interface{}{"a", "b", "c"}),
		row("list1", []interface{}{"a"}),
		row("list0", []interface{}{}),
	}
	if got := fmt.Sprint(ids(SortRows(rows, 0, true))); got != "[list0 list1 list3]" {
		t.Errorf("Expected arrays by length, got %s", got)
	}

	rows = []*models.Row{
		row("zeta", map[string]interface{}{"title": "zeta"}),
		row("null", nil),
		row("alpha", map[string]interface{}{"title": "alpha"}),
	}
	if got := fmt.Sprint(ids(SortRows(rows, 0, true))); got != "[null alpha zeta]" {
		t.Errorf("Expected null first then titles, got %s", got)
	}
}

func TestSortRowsTies(t *testing.T) {
	rows := []*models.Row{row("a", 1.0), row("b", 1.0), row("c", 0.0), row("d", 1.0)}

	if got := fmt.Sprint(ids(SortRows(rows, 0, true))); got != "[c a b d]" {
		t.Errorf("Expected ascending ties in input order [c a b d], got %s", got)
	}
	if got := fmt.Sprint(ids(SortRows(rows, 0, false))); got != "[d b a c]" {
		t.Errorf("Expected descending ties in reverse input order [d b a c], got %s", got)
	}
}

func TestSortRowsNullInNumericColumn(t *testing.T) {
	rows := []*models.Row{row("five", 5.0), row("null", nil), row("three", 3.0)}

	if got := fmt.Sprint(ids(SortRows(rows, 0, true))); got != "[null three five]" {
		t.Errorf("Expected null before numbers, got %s", got)
	}
	if got := fmt.Sprint(ids(SortRows(rows, 0, false))); got != "[five three null]" {
		t.Errorf("Expected null after numbers, got %s", got)
	}
}

func TestSortRowsNumericStrings(t *testing.T) {
	rows := []*models.Row{row("ten", "10"), row("nine", 9.0), row("two", 2.0)}

	if got := fmt.Sprint(ids(SortRows(rows, 0, true))); got != "[two nine ten]" {
		t.Errorf("Expected numeric strings compared as numbers, got %s", got)
	}
}

func TestSortKeyLess(t *testing.T) {
	tests := []struct {
		l, r interface{}
		want bool
	}{
		{nil, 3.0, true},
		{3.0, nil, false},
		{"10", 9.0, false},
		{9.0, "10", true},
		{"abc", 1.0, false},
		{1.0, "abc", false},
		{"abc", "abd", true},
		{"10", "9", true},
	}
	for _, tt := range tests {
		if got := keyOf(tt.l).less(keyOf(tt.r)); got != tt.want {
			t.Errorf("less(%v, %v) = %v, want %v", tt.l, tt.r, got, tt.want)
		}
	}
}

func TestSortRowsDoesNotMutateInput(t *testing.T) {
	rows := []*models.Row{row("b", 2.0), row("a", 1.0)}
	SortRows(rows, 0, true)
	if rows[0].ID != "b" {
		t.Error("Expected input slice to keep its order")
	}
}
