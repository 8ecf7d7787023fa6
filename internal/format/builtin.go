package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ohler55/ojg/oj"
)

// Options tune the default formatters
type Options struct {
	DateLayout string
	Location   *time.Location
}

// DefaultDateLayout is used when Options.DateLayout is empty
const DefaultDateLayout = "2006-01-02 15:04:05"

// icons maps server status icon names to terminal glyphs
var icons = map[string]string{
	"ok":            "✓",
	"ok-sign":       "✓",
	"check":         "✓",
	"warning-sign":  "!",
	"warning":       "!",
	"exclamation":   "!",
	"remove":        "✗",
	"remove-sign":   "✗",
	"error":         "✗",
	"question-sign": "?",
	"time":          "…",
	"eye-open":      "◉",
	"eye-close":     "○",
}

// NewDefaultRegistry registers the formatter keys the marv server emits
func NewDefaultRegistry(opts Options) *Registry {
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	r := NewRegistry()
	r.RegisterFunc("string", String)
	r.RegisterFunc("size", Size)
	r.Register("date", func() Formatter { return Date(opts.DateLayout, opts.Location) })
	r.RegisterFunc("float", Float)
	r.RegisterFunc("icon", Icon)
	r.RegisterFunc("link", Title)
	r.RegisterFunc("pill", Pill)
	r.RegisterFunc("route", Title)
	r.RegisterFunc("json", JSON)
	return r
}

// String renders scalars as text, null as "" and containers as compact JSON
func String(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case map[string]interface{}, []interface{}:
		return JSON(v)
	default:
		return fmt.Sprint(v)
	}
}

// JSON renders any value as compact JSON with sorted keys
func JSON(value interface{}) string {
	if n, ok := value.(json.Number); ok {
		return n.String()
	}
	data, err := oj.Marshal(value, &oj.Options{Sort: true})
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}

// number extracts a float from numeric or numeric-string values
func number(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Size renders a byte count with binary units
func Size(value interface{}) string {
	n, ok := number(value)
	if !ok {
		return String(value)
	}
	return FormatSize(n)
}

// Float renders a number in its shortest form
func Float(value interface{}) string {
	n, ok := number(value)
	if !ok {
		return String(value)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Date returns a formatter for epoch milliseconds
func Date(layout string, loc *time.Location) Formatter {
	return func(value interface{}) string {
		ms, ok := number(value)
		if !ok {
			return String(value)
		}
		return time.UnixMilli(int64(ms)).In(loc).Format(layout)
	}
}

// Icon renders {icon, title} as a glyph
func Icon(value interface{}) string {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return String(value)
	}
	name, _ := obj["icon"].(string)
	if glyph, ok := icons[name]; ok {
		return glyph
	}
	if title, ok := obj["title"].(string); ok && title != "" {
		return title
	}
	return name
}

// Title renders {title, ...} objects such as links and routes by their title
func Title(value interface{}) string {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return String(value)
	}
	if title, ok := obj["title"]; ok {
		return String(title)
	}
	return JSON(obj)
}

// Pill renders one tag as "[tag]"
func Pill(value interface{}) string {
	if value == nil {
		return ""
	}
	return "[" + String(value) + "]"
}
