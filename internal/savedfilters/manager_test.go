package savedfilters

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/rebeliceyang/lazymarv/internal/filter"
	"github.com/rebeliceyang/lazymarv/internal/models"
)

func token(t *testing.T, name string, op models.FilterOperator, val interface{}) string {
	t.Helper()
	tok, err := filter.Encode(models.NewLeaf(name, op, val))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return tok
}

func newTestManager(t *testing.T) (*Manager, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	m, err := NewManager(fs, "/cfg")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m, fs
}

func TestAddPersists(t *testing.T) {
	m, fs := newTestManager(t)
	tok := token(t, "tags", models.OpHas, "outdoor")

	saved, err := m.Add("  Outdoor  ", "", tok, []string{"field"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if saved.Name != "Outdoor" {
		t.Errorf("Expected trimmed name, got %q", saved.Name)
	}
	if saved.Description != `tags has "outdoor"` {
		t.Errorf("Expected generated description, got %q", saved.Description)
	}
	if saved.ID == "" {
		t.Error("Expected an ID")
	}

	reloaded, err := NewManager(fs, "/cfg")
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	all := reloaded.GetAll()
	if len(all) != 1 || all[0].Token != tok {
		t.Errorf("Expected saved filter after reload, got %+v", all)
	}
}

func TestAddValidation(t *testing.T) {
	m, _ := newTestManager(t)
	tok := token(t, "name", models.OpEqual, "x")

	if _, err := m.Add("", "", tok, nil); err == nil {
		t.Error("Expected error for empty name")
	}
	if _, err := m.Add("x", "", "", nil); err == nil {
		t.Error("Expected error for empty token")
	}
	if _, err := m.Add("x", "", "%%%", nil); !errors.Is(err, filter.ErrDecode) {
		t.Errorf("Expected decode error, got %v", err)
	}

	if _, err := m.Add("Name", "", tok, nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := m.Add("NAME", "", tok, nil); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected duplicate name error, got %v", err)
	}
}

func TestUpdateDelete(t *testing.T) {
	m, _ := newTestManager(t)
	a, _ := m.Add("a", "first", token(t, "name", models.OpEqual, "a"), nil)
	b, _ := m.Add("b", "second", token(t, "name", models.OpEqual, "b"), nil)

	if err := m.Update(a.ID, "b", "", a.Token, nil); err == nil {
		t.Error("Expected duplicate name error on update")
	}
	if err := m.Update(a.ID, "a2", "renamed", a.Token, []string{"t"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := m.Get(a.ID)
	if got.Name != "a2" || got.Description != "renamed" {
		t.Errorf("Unexpected update result %+v", got)
	}

	if err := m.Delete(b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := m.Delete(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if len(m.GetAll()) != 1 {
		t.Errorf("Expected 1 saved filter, got %d", len(m.GetAll()))
	}
}

func TestResolveAndSearch(t *testing.T) {
	m, _ := newTestManager(t)
	a, _ := m.Add("Outdoor", "", token(t, "tags", models.OpHas, "outdoor"), []string{"gps"})
	_, _ = m.Add("Lab", "indoor sets", token(t, "tags", models.OpHas, "indoor"), nil)

	if f, err := m.Resolve(a.ID); err != nil || f.Name != "Outdoor" {
		t.Errorf("Expected resolve by ID, got %v %v", f, err)
	}
	if f, err := m.Resolve("lab"); err != nil || f.Name != "Lab" {
		t.Errorf("Expected resolve by name, got %v %v", f, err)
	}
	if _, err := m.Resolve("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if got := m.Search("GPS"); len(got) != 1 || got[0].Name != "Outdoor" {
		t.Errorf("Expected tag match, got %+v", got)
	}
	if got := m.Search("indoor"); len(got) != 1 {
		t.Errorf("Expected description match, got %+v", got)
	}
	if got := m.Search(""); len(got) != 2 {
		t.Errorf("Expected all filters, got %d", len(got))
	}
}

func TestUsageOrdering(t *testing.T) {
	m, _ := newTestManager(t)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	a, _ := m.Add("a", "", token(t, "name", models.OpEqual, "a"), nil)
	b, _ := m.Add("b", "", token(t, "name", models.OpEqual, "b"), nil)

	_ = m.RecordUsage(a.ID)
	_ = m.RecordUsage(a.ID)
	_ = m.RecordUsage(b.ID)

	if most := m.GetMostUsed(1); len(most) != 1 || most[0].ID != a.ID {
		t.Errorf("Expected a as most used, got %+v", most)
	}
	if recent := m.GetRecent(0); recent[0].ID != b.ID {
		t.Errorf("Expected b as most recent, got %+v", recent[0])
	}
	if err := m.RecordUsage("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestExport(t *testing.T) {
	m, fs := newTestManager(t)

	if _, err := m.ExportToCSV(); err == nil {
		t.Error("Expected error exporting nothing")
	}

	_, _ = m.Add("a", "", token(t, "name", models.OpEqual, "a"), nil)

	path, err := m.ExportToCSV()
	if err != nil {
		t.Fatalf("ExportToCSV failed: %v", err)
	}
	if path != "/cfg/saved_filters.csv" {
		t.Errorf("Unexpected export path %s", path)
	}
	if ok, _ := afero.Exists(fs, path); !ok {
		t.Error("Expected CSV file to exist")
	}

	path, err = m.ExportToJSON("/tmp/out.json")
	if err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}
	if path != "/tmp/out.json" {
		t.Errorf("Expected custom path, got %s", path)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/cfg/saved_filters.yaml", []byte("- [unclosed"), 0644)

	if _, err := NewManager(fs, "/cfg"); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}
