package detail

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// parse turns JSON text into generic data and passes anything else through
func parse(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		parsed, err := oj.ParseString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return parsed, nil
	case []byte:
		parsed, err := oj.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return parsed, nil
	case json.RawMessage:
		return parse([]byte(v))
	default:
		return v, nil
	}
}

// IsJSON checks if a string holds a JSON document
func IsJSON(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	_, err := oj.ParseString(value)
	return err == nil
}

// Type returns the JSON type of a value (object, array, string, number, boolean, null)
func Type(value interface{}) string {
	if value == nil {
		return "null"
	}

	parsed, err := parse(value)
	if err != nil {
		return "unknown"
	}

	switch parsed.(type) {
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case int64, float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
