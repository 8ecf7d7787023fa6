package components

import (
	"strings"
	"testing"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

func TestParseSearchQuery_Simple(t *testing.T) {
	q := ParseSearchQuery("outdoor")

	if q.Pattern != "outdoor" {
		t.Errorf("expected pattern 'outdoor', got '%s'", q.Pattern)
	}
	if q.Negate {
		t.Error("expected Negate=false")
	}
	if q.Field != "" {
		t.Errorf("expected empty Field, got '%s'", q.Field)
	}
}

func TestParseSearchQuery_Negate(t *testing.T) {
	q := ParseSearchQuery("!test")

	if q.Pattern != "test" {
		t.Errorf("expected pattern 'test', got '%s'", q.Pattern)
	}
	if !q.Negate {
		t.Error("expected Negate=true")
	}
}

func TestParseSearchQuery_FieldShort(t *testing.T) {
	q := ParseSearchQuery("t:robot")

	if q.Pattern != "robot" {
		t.Errorf("expected pattern 'robot', got '%s'", q.Pattern)
	}
	if q.Field != "tag" {
		t.Errorf("expected Field 'tag', got '%s'", q.Field)
	}
}

func TestParseSearchQuery_FieldLong(t *testing.T) {
	q := ParseSearchQuery("Desc:bags")

	if q.Pattern != "bags" {
		t.Errorf("expected pattern 'bags', got '%s'", q.Pattern)
	}
	if q.Field != "description" {
		t.Errorf("expected Field 'description', got '%s'", q.Field)
	}
}

func TestParseSearchQuery_NegateWithField(t *testing.T) {
	q := ParseSearchQuery("!n:old")

	if q.Pattern != "old" || !q.Negate || q.Field != "name" {
		t.Errorf("unexpected query %+v", q)
	}
}

func TestFuzzyMatch_ExactPrefix(t *testing.T) {
	match, positions := FuzzyMatch("out", "outdoor")

	if !match {
		t.Error("expected match")
	}
	if len(positions) != 3 || positions[0] != 0 || positions[1] != 1 || positions[2] != 2 {
		t.Errorf("expected positions [0,1,2], got %v", positions)
	}
}

func TestFuzzyMatch_Subsequence(t *testing.T) {
	match, positions := FuzzyMatch("rbt", "robot_test")

	if !match {
		t.Error("expected match")
	}
	if len(positions) != 3 {
		t.Errorf("expected 3 positions, got %d", len(positions))
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	match, _ := FuzzyMatch("xyz", "outdoor")

	if match {
		t.Error("expected no match")
	}
}

func TestFuzzyMatch_CaseInsensitive(t *testing.T) {
	match, _ := FuzzyMatch("OUT", "outdoor")

	if !match {
		t.Error("expected case-insensitive match")
	}
}

func TestFuzzyMatch_EmptyPattern(t *testing.T) {
	match, positions := FuzzyMatch("", "anything")

	if !match {
		t.Error("empty pattern should match everything")
	}
	if len(positions) != 0 {
		t.Error("empty pattern should have no positions")
	}
}

func savedFixture() []models.SavedFilter {
	return []models.SavedFilter{
		{ID: "1", Name: "Outdoor runs", Description: `tags has "outdoor"`, Tags: []string{"field"}},
		{ID: "2", Name: "Large bags", Description: "size > 1 GiB", Tags: []string{"cleanup"}},
		{ID: "3", Name: "Robot r2", Description: `robot == "r2"`, Tags: []string{"field", "r2"}},
	}
}

func TestFilterSaved_SimpleMatch(t *testing.T) {
	matches := FilterSaved(savedFixture(), ParseSearchQuery("bags"))

	if len(matches) != 1 || matches[0].ID != "2" {
		t.Errorf("expected only 'Large bags', got %v", matches)
	}
}

func TestFilterSaved_FieldFilter(t *testing.T) {
	matches := FilterSaved(savedFixture(), ParseSearchQuery("t:field"))

	if len(matches) != 2 {
		t.Fatalf("expected 2 tag matches, got %d", len(matches))
	}
	if matches[0].ID != "1" || matches[1].ID != "3" {
		t.Errorf("expected order to be kept, got %s, %s", matches[0].ID, matches[1].ID)
	}
}

func TestFilterSaved_Negate(t *testing.T) {
	matches := FilterSaved(savedFixture(), ParseSearchQuery("!robot"))

	for _, m := range matches {
		if strings.Contains(strings.ToLower(m.Name), "robot") {
			t.Errorf("negated query should not match '%s'", m.Name)
		}
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}
}

func TestFilterSaved_EmptyQuery(t *testing.T) {
	if n := len(FilterSaved(savedFixture(), ParseSearchQuery(""))); n != 3 {
		t.Errorf("empty query should return all filters, got %d", n)
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"indoor", "outdoor", "odometry", "outdated", "outdoor"}

	got := Suggest("out", candidates, 0)
	if strings.Join(got, ",") != "outdated,outdoor" {
		t.Errorf("expected prefix matches sorted, got %v", got)
	}

	got = Suggest("odr", candidates, 0)
	if strings.Join(got, ",") != "odometry,outdoor" {
		t.Errorf("expected subsequence matches, got %v", got)
	}

	if got := Suggest("outdoor", candidates, 0); len(got) != 0 {
		t.Errorf("exact match should not be suggested, got %v", got)
	}
	if got := Suggest("  ", candidates, 0); got != nil {
		t.Errorf("blank input should have no suggestions, got %v", got)
	}
	if got := Suggest("o", candidates, 2); len(got) != 2 {
		t.Errorf("expected limit to apply, got %v", got)
	}
}
