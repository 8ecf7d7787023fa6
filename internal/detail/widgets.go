package detail

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/oj"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

// Widget kinds rendered natively; anything else is shown as JSON
const (
	KindTable = "table"
	KindRow   = "row"
	KindText  = "text"
	KindJSON  = "json"
)

// Section is one renderable block of a detail record
type Section struct {
	Kind   string
	Title  string
	Result *models.ListingResult
	Text   string
}

// Sections turns the widgets of a detail record into sections. Table and row
// widgets become listing results, text widgets stay text and the rest
// (image, gallery, map, chart, 3D) are pretty-printed JSON.
func Sections(d *models.FilesetDetail) ([]Section, error) {
	sections := make([]Section, 0, len(d.Widgets))
	for i, w := range d.Widgets {
		s, err := section(w)
		if err != nil {
			return nil, fmt.Errorf("widget %d (%s): %w", i, w.Type(), err)
		}
		sections = append(sections, s)
	}
	return sections, nil
}

func section(w models.Widget) (Section, error) {
	s := Section{Kind: w.Type(), Title: w.Title()}
	switch w.Type() {
	case KindTable, KindRow:
		result, err := TableResult(w)
		if err != nil {
			return s, err
		}
		s.Result = result
	case KindText:
		s.Text, _ = w["text"].(string)
	default:
		s.Kind = KindJSON
		text, err := Format(map[string]interface{}(w))
		if err != nil {
			return s, err
		}
		s.Text = text
	}
	return s, nil
}

// TableResult reads the rows of a table widget, or the single row of a row
// widget, into a listing result the view engine can sort and format.
func TableResult(w models.Widget) (*models.ListingResult, error) {
	payload := map[string]interface{}{}
	switch w.Type() {
	case KindTable:
		rows, _ := w["rows"].([]interface{})
		if rows == nil {
			rows = []interface{}{}
		}
		payload["rows"] = rows
		if sort, ok := w["sort"].(string); ok {
			payload["sort"] = sort
		}
		if asc, ok := w["ascending"].(bool); ok {
			payload["ascending"] = asc
		}
	case KindRow:
		payload["rows"] = []interface{}{map[string]interface{}{"columns": w["columns"]}}
	default:
		return nil, fmt.Errorf("widget type %q has no rows", w.Type())
	}

	data, err := oj.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode widget rows: %w", err)
	}
	var result models.ListingResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode widget rows: %w", err)
	}
	return &result, nil
}
