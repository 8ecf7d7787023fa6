package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazymarv/internal/filter"
	"github.com/rebeliceyang/lazymarv/internal/models"
	"github.com/rebeliceyang/lazymarv/internal/ui/theme"
)

func newTestFilterBuilder(t *testing.T) *FilterBuilder {
	t.Helper()
	state, err := filter.NewState("")
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}
	fb := NewFilterBuilder(theme.DefaultTheme(), state)
	fb.SetInputs([]models.FilterInput{
		{Name: "tags", Title: "Tags", Operators: []models.FilterOperator{models.OpHas, models.OpAny}},
		{Name: "name", Title: "Name", Operators: []models.FilterOperator{models.OpEqual, models.OpLike}},
	})
	return fb
}

func keys(fb *FilterBuilder, names ...string) (*FilterBuilder, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range names {
		fb, cmd = fb.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
	return fb, cmd
}

// buildTagsLeaf creates the leaf tags has <value>
func buildTagsLeaf(fb *FilterBuilder, value string) (*FilterBuilder, tea.Cmd) {
	fb, _ = keys(fb, "a", "l", "o")
	fb, _ = fb.Update(tea.KeyMsg{Type: tea.KeyEnter})
	fb, _ = fb.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)})
	return fb.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestFilterBuilderBuildAndApply(t *testing.T) {
	fb := newTestFilterBuilder(t)

	fb, _ = keys(fb, "a")
	if len(fb.lines) != 1 {
		t.Fatalf("expected one line after adding, got %d", len(fb.lines))
	}

	fb, cmd := keys(fb, "A")
	if cmd != nil {
		t.Error("expected no apply for an incomplete leaf")
	}
	if fb.validationError == "" {
		t.Error("expected a validation error")
	}

	fb, _ = keys(fb, "l", "o")
	leaf := fb.Selected()
	if leaf.NameValue() != "tags" || leaf.OpValue() != models.OpHas {
		t.Fatalf("expected tags has, got %s %s", leaf.NameValue(), leaf.OpValue())
	}

	fb, _ = fb.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !fb.Editing() {
		t.Fatal("expected value editing")
	}
	fb, _ = fb.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("indoor")})
	fb, _ = fb.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if fb.Editing() {
		t.Error("expected editing to end on enter")
	}

	fb, cmd = keys(fb, "A")
	if cmd == nil {
		t.Fatal("expected an apply command")
	}
	msg, ok := cmd().(ApplyFilterMsg)
	if !ok {
		t.Fatalf("expected ApplyFilterMsg, got %T", cmd())
	}
	root, err := filter.Decode(msg.Token)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if root.NameValue() != "tags" || root.OpValue() != models.OpHas || root.Val != "indoor" {
		t.Errorf("unexpected applied filter: %s", filter.Describe(root))
	}
	if fb.State.Dirty() {
		t.Error("expected state to be clean after apply")
	}
}

func TestFilterBuilderAutoUpdate(t *testing.T) {
	fb := newTestFilterBuilder(t)
	fb.State.AutoUpdate = true

	_, cmd := buildTagsLeaf(fb, "outdoor")
	if cmd == nil {
		t.Fatal("expected the completed leaf to apply itself")
	}
	if _, ok := cmd().(ApplyFilterMsg); !ok {
		t.Error("expected ApplyFilterMsg")
	}
}

func TestFilterBuilderCombine(t *testing.T) {
	fb := newTestFilterBuilder(t)
	fb, _ = buildTagsLeaf(fb, "outdoor")

	fb, _ = keys(fb, "&")
	if fb.State.Root.Kind() != models.KindAnd {
		t.Fatalf("expected an and node, got %v", fb.State.Root.Kind())
	}
	if len(fb.lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(fb.lines))
	}
	if fb.currentIndex != 2 {
		t.Errorf("expected cursor on the new child, got %d", fb.currentIndex)
	}

	// removing the new child collapses the and node
	fb, _ = keys(fb, "d")
	if fb.State.Root.IsBoolean() {
		t.Error("expected the and node to collapse")
	}
	if len(fb.lines) != 1 {
		t.Errorf("expected 1 line, got %d", len(fb.lines))
	}
}

func TestFilterBuilderResetAndClose(t *testing.T) {
	fb := newTestFilterBuilder(t)
	fb, _ = buildTagsLeaf(fb, "outdoor")
	fb, _ = keys(fb, "A")

	fb, cmd := keys(fb, "R")
	if cmd == nil {
		t.Fatal("expected reset to apply the empty filter")
	}
	if msg, ok := cmd().(ApplyFilterMsg); !ok || msg.Token != "" {
		t.Errorf("expected empty ApplyFilterMsg, got %#v", cmd())
	}
	if len(fb.lines) != 0 {
		t.Errorf("expected no lines after reset, got %d", len(fb.lines))
	}

	_, cmd = fb.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CloseFilterBuilderMsg); !ok {
		t.Error("expected CloseFilterBuilderMsg")
	}
}

func TestFilterBuilderLoad(t *testing.T) {
	fb := newTestFilterBuilder(t)
	root := models.NewBoolean(models.KindOr,
		models.NewLeaf("tags", models.OpHas, "indoor"),
		models.NewLeaf("name", models.OpLike, "%run%"),
	)
	token, err := filter.Encode(root)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if err := fb.Load(token); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(fb.lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(fb.lines))
	}
	if !strings.Contains(fb.View(), "indoor") {
		t.Error("expected the loaded leaf in the view")
	}
}

func TestFilterBuilderValidatesFilesize(t *testing.T) {
	state, err := filter.NewState("")
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}
	fb := NewFilterBuilder(theme.DefaultTheme(), state)
	fb.SetInputs([]models.FilterInput{
		{Name: "size", Title: "Size", ValueType: "filesize", Operators: []models.FilterOperator{models.OpGreaterOrEqual}},
	})

	fb, _ = keys(fb, "a", "l", "o")
	fb, _ = fb.Update(tea.KeyMsg{Type: tea.KeyEnter})
	fb, _ = fb.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("12 parsecs")})
	fb, _ = fb.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !fb.Editing() {
		t.Error("expected editing to continue after an invalid size")
	}
	if fb.validationError == "" {
		t.Error("expected a validation error for an invalid size")
	}
	if fb.Selected().Valid() {
		t.Error("expected the invalid size to stay out of the tree")
	}

	fb.valueInput.SetValue("1.5k")
	fb, _ = fb.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if fb.Editing() {
		t.Fatal("expected editing to end for a valid size")
	}
	if fb.validationError != "" {
		t.Errorf("unexpected validation error %q", fb.validationError)
	}
	if got := fb.Selected().Val; got != "1.5k" {
		t.Errorf("expected value 1.5k, got %v", got)
	}
	if !strings.Contains(fb.View(), "1536 bytes") {
		t.Error("expected the byte count in the view")
	}
}
