package detail

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

const record = `{
  "id": 2,
  "name": "run.bag",
  "tags": [{"id": 1, "label": "outdoor"}],
  "widgets": [
    {"type": "table", "title": "Files", "sort": "size", "rows": [
      {"columns": [{"name": "name", "title": "Name", "formatter": "string", "value": "a.bag"},
                   {"name": "size", "title": "Size", "formatter": "size", "value": 20}]},
      {"columns": [{"name": "name", "title": "Name", "formatter": "string", "value": "b.bag"},
                   {"name": "size", "title": "Size", "formatter": "size", "value": 10}]}
    ]},
    {"type": "text", "title": "Notes", "text": "all good"},
    {"type": "row", "title": "Info", "columns": [{"name": "robot", "title": "Robot", "formatter": "string", "value": "r2"}]},
    {"type": "map", "title": "Track", "coords": [48.1, 11.6]}
  ]
}`

func TestType(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`: "object",
		`[1,2]`:   "array",
		`"x"`:     "string",
		`1.5`:     "number",
		`true`:    "boolean",
		`null`:    "null",
		`{broken`: "unknown",
	}
	for in, want := range tests {
		if got := Type(in); got != want {
			t.Errorf("Type(%s): expected %s, got %s", in, want, got)
		}
	}
	if got := Type(map[string]interface{}{}); got != "object" {
		t.Errorf("Expected object for a map, got %s", got)
	}
}

func TestIsJSON(t *testing.T) {
	if !IsJSON(` {"a": [1]} `) {
		t.Error("Expected object to be JSON")
	}
	if IsJSON("") || IsJSON("not json") {
		t.Error("Expected plain text not to be JSON")
	}
}

func TestFormatAndCompact(t *testing.T) {
	pretty, err := Format(`{"b":1,"a":{"c":true}}`)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.HasPrefix(pretty, "{\n  \"a\"") {
		t.Errorf("Expected sorted indented output, got:\n%s", pretty)
	}

	compact, err := Compact([]byte(`{ "b" : 1, "a" : [1, 2] }`))
	if err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if compact != `{"a":[1,2],"b":1}` {
		t.Errorf("Unexpected compact output %s", compact)
	}

	if _, err := Format("{broken"); err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if got, _ := Format(nil); got != "null" {
		t.Errorf("Expected null, got %s", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %s", got)
	}
	got := Truncate(`{"alpha": 1, "beta": 2, "gamma": 3}`, 20)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) > 20 {
		t.Errorf("Unexpected truncation %q", got)
	}
	if got := Truncate("äöüäöüäöü", 6); got != "äöü..." {
		t.Errorf("Expected rune-safe truncation, got %q", got)
	}
}

func TestPaths(t *testing.T) {
	paths := Paths(`{"b": [10, 20], "a": {"x y": 1}}`)
	var got []string
	for _, p := range paths {
		got = append(got, p.String())
	}
	want := []string{"$", "$.a", "$.a['x y']", "$.b", "$.b[0]", "$.b[1]"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("Expected %v, got %v", want, got)
	}

	many := make([]interface{}, 10)
	if n := len(Paths(many)); n != 1+maxArrayPaths {
		t.Errorf("Expected %d paths, got %d", 1+maxArrayPaths, n)
	}
}

func TestQuery(t *testing.T) {
	raw := json.RawMessage(record)

	results, err := Query(raw, "$.widgets[*].title")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 4 || results[0] != "Files" {
		t.Errorf("Unexpected results %v", results)
	}

	s, err := QueryString(raw, "$.tags[0].label")
	if err != nil || s != "outdoor" {
		t.Errorf("Expected outdoor, got %q (%v)", s, err)
	}
	s, _ = QueryString(raw, "$.id")
	if s != "2" {
		t.Errorf("Expected 2, got %q", s)
	}

	if _, err := QueryString(raw, "$.missing"); err == nil {
		t.Error("Expected no-match error")
	}
	if _, err := Query(raw, "$[[["); err == nil {
		t.Error("Expected parse error")
	}

	v, err := Get(raw, Path{Parts: []string{"widgets", "1", "text"}})
	if err != nil || v != "all good" {
		t.Errorf("Expected all good, got %v (%v)", v, err)
	}
}

func TestSections(t *testing.T) {
	var d models.FilesetDetail
	if err := json.Unmarshal([]byte(record), &d); err != nil {
		t.Fatalf("Failed to parse record: %v", err)
	}

	sections, err := Sections(&d)
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}
	if len(sections) != 4 {
		t.Fatalf("Expected 4 sections, got %d", len(sections))
	}

	table := sections[0]
	if table.Kind != KindTable || table.Result == nil || len(table.Result.Rows) != 2 {
		t.Fatalf("Unexpected table section %+v", table)
	}
	if table.Result.Sort == nil || *table.Result.Sort != "size" {
		t.Errorf("Expected widget sort to carry over, got %v", table.Result.Sort)
	}
	if table.Result.Rows[1].Columns[0].Value != "b.bag" {
		t.Errorf("Unexpected row value %v", table.Result.Rows[1].Columns[0].Value)
	}

	if sections[1].Text != "all good" {
		t.Errorf("Expected text section, got %+v", sections[1])
	}

	row := sections[2]
	if row.Kind != KindRow || len(row.Result.Rows) != 1 || row.Result.Rows[0].Columns[0].Value != "r2" {
		t.Errorf("Unexpected row section %+v", row)
	}

	m := sections[3]
	if m.Kind != KindJSON || !strings.Contains(m.Text, `"coords"`) || m.Title != "Track" {
		t.Errorf("Expected map widget as JSON, got %+v", m)
	}
}
