package detail

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// Format pretty-prints a JSON value with sorted keys
func Format(value interface{}) (string, error) {
	if value == nil {
		return "null", nil
	}

	parsed, err := parse(value)
	if err != nil {
		return "", err
	}

	data, err := oj.Marshal(parsed, &oj.Options{Indent: 2, Sort: true})
	if err != nil {
		return "", fmt.Errorf("failed to format: %w", err)
	}
	return string(data), nil
}

// Compact formats a JSON value on a single line with sorted keys
func Compact(value interface{}) (string, error) {
	if value == nil {
		return "null", nil
	}

	parsed, err := parse(value)
	if err != nil {
		return "", err
	}

	data, err := oj.Marshal(parsed, &oj.Options{Sort: true})
	if err != nil {
		return "", fmt.Errorf("failed to compact: %w", err)
	}
	return string(data), nil
}

// Truncate shortens a JSON string for single line display
func Truncate(jsonStr string, maxLen int) string {
	runes := []rune(jsonStr)
	if len(runes) <= maxLen {
		return jsonStr
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	truncated := string(runes[:maxLen-3])

	// Find last space, comma, or bracket
	lastGood := strings.LastIndexAny(truncated, " ,{}[]")
	if lastGood > len(truncated)/2 {
		truncated = truncated[:lastGood]
	}

	return truncated + "..."
}
