package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a fileset or row identifier. The server sends either strings or numbers.
type ID string

// UnmarshalJSON accepts both JSON strings and numbers
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as JSON numbers and everything else as strings
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the id as text
func (id ID) String() string {
	return string(id)
}

// Column is one typed cell of a listing row
type Column struct {
	Name      string      `json:"name"`
	Title     string      `json:"title"`
	Formatter string      `json:"formatter"`
	List      bool        `json:"list,omitempty"`
	Value     interface{} `json:"value,omitempty"`

	// Defined is false when the server omitted the value key entirely
	Defined bool `json:"-"`
	// Formatted is the display text produced by the formatter registry
	Formatted string `json:"-"`
}

// UnmarshalJSON records whether the value key was present
func (c *Column) UnmarshalJSON(data []byte) error {
	type plain struct {
		Name      string          `json:"name"`
		Title     string          `json:"title"`
		Formatter string          `json:"formatter"`
		List      bool            `json:"list"`
		Value     json.RawMessage `json:"value"`
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	c.Name = p.Name
	c.Title = p.Title
	c.Formatter = p.Formatter
	c.List = p.List
	c.Value = nil
	c.Defined = len(p.Value) > 0
	if c.Defined {
		if err := json.Unmarshal(p.Value, &c.Value); err != nil {
			return fmt.Errorf("column %s: %w", p.Name, err)
		}
	}
	return nil
}

// Row is one listing entry
type Row struct {
	ID        ID        `json:"id"`
	Type      string    `json:"type,omitempty"`
	StorageID *ID       `json:"storage_id,omitempty"`
	Columns   []*Column `json:"columns"`
	Checked   bool      `json:"-"`
}

// Column returns the column at index or nil when out of range
func (r *Row) Column(index int) *Column {
	if r == nil || index < 0 || index >= len(r.Columns) {
		return nil
	}
	return r.Columns[index]
}

// Labels returns the string elements of a list column, e.g. the tags of a row
func (r *Row) Labels(index int) []string {
	col := r.Column(index)
	if col == nil {
		return nil
	}
	list, ok := col.Value.([]interface{})
	if !ok {
		return nil
	}
	labels := make([]string, 0, len(list))
	for _, v := range list {
		labels = append(labels, fmt.Sprint(v))
	}
	return labels
}

// SetLabels replaces the elements of a list column
func (r *Row) SetLabels(index int, labels []string) {
	col := r.Column(index)
	if col == nil {
		return
	}
	list := make([]interface{}, len(labels))
	for i, l := range labels {
		list[i] = l
	}
	col.Value = list
	col.Defined = true
}

// Plain returns the formatted cells of the row
func (r *Row) Plain() []string {
	cells := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		cells[i] = c.Formatted
	}
	return cells
}

// ListingResult is the server's answer to a listing query
type ListingResult struct {
	Rows      []*Row  `json:"rows"`
	Sort      *string `json:"sort"`
	Ascending *bool   `json:"ascending"`
}

// Clone returns a copy of the result sharing no row or column with the original
func (l *ListingResult) Clone() *ListingResult {
	if l == nil {
		return nil
	}
	out := &ListingResult{Sort: l.Sort, Ascending: l.Ascending, Rows: make([]*Row, len(l.Rows))}
	for i, row := range l.Rows {
		r := *row
		r.Columns = make([]*Column, len(row.Columns))
		for j, col := range row.Columns {
			c := *col
			if list, ok := col.Value.([]interface{}); ok {
				c.Value = append([]interface{}(nil), list...)
			}
			r.Columns[j] = &c
		}
		out.Rows[i] = &r
	}
	return out
}

// Tag is a fileset label
type Tag struct {
	ID    ID     `json:"id"`
	Label string `json:"label"`
}

// Author is the author of a comment
type Author struct {
	Username string `json:"username"`
}

// Comment is a free text note on a fileset
type Comment struct {
	Author    Author `json:"author"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Widget is one detail widget; its payload depends on Type
type Widget map[string]interface{}

// Type returns the widget type, e.g. "table", "text", "gallery"
func (w Widget) Type() string {
	t, _ := w["type"].(string)
	return t
}

// Title returns the widget title
func (w Widget) Title() string {
	t, _ := w["title"].(string)
	return t
}

// FilesetDetail is the detail record of one fileset
type FilesetDetail struct {
	ID        ID        `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	StorageID *ID       `json:"storage_id,omitempty"`
	Comments  []Comment `json:"comments"`
	Tags      []Tag     `json:"tags"`
	Widgets   []Widget  `json:"widgets"`
}

// TagLabels returns the tag labels in server order
func (d *FilesetDetail) TagLabels() []string {
	labels := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		labels = append(labels, t.Label)
	}
	return labels
}

// Fileset is the resource form of a fileset
type Fileset struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	MD5     string `json:"md5"`
	Dirpath string `json:"dirpath"`
}

// File is one file of a fileset
type File struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	MD5  string `json:"md5"`
	Size int64  `json:"size"`
}

// Path returns the absolute path of the file inside its fileset directory
func (f File) Path(fs Fileset) string {
	return strings.TrimRight(fs.Dirpath, "/") + "/" + f.Name
}
