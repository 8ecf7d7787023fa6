package detail

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// maxArrayPaths limits how many elements of an array are listed by Paths
const maxArrayPaths = 5

// Path is a JSONPath into a detail record, e.g. $.widgets[0].title
type Path struct {
	Parts []string
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// String returns the JSONPath notation
func (p Path) String() string {
	result := "$"
	for _, part := range p.Parts {
		switch {
		case isIndex(part):
			result += "[" + part + "]"
		case identRe.MatchString(part):
			result += "." + part
		default:
			result += "['" + part + "']"
		}
	}
	return result
}

func isIndex(part string) bool {
	_, err := strconv.Atoi(part)
	return err == nil
}

// Paths lists every path in value, parents before children and object keys
// in sorted order. Only the first few array elements are descended into.
func Paths(value interface{}) []Path {
	var paths []Path

	parsed, err := parse(value)
	if err != nil {
		return paths
	}

	extractPaths(parsed, []string{}, &paths)
	return paths
}

func extractPaths(value interface{}, current []string, paths *[]Path) {
	*paths = append(*paths, Path{Parts: current})

	switch v := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := append(append([]string{}, current...), key)
			extractPaths(v[key], next, paths)
		}

	case []interface{}:
		limit := min(len(v), maxArrayPaths)
		for i := 0; i < limit; i++ {
			next := append(append([]string{}, current...), strconv.Itoa(i))
			extractPaths(v[i], next, paths)
		}
	}
}

// Query evaluates a JSONPath expression and returns every match
func Query(value interface{}, expr string) ([]interface{}, error) {
	parsed, err := parse(value)
	if err != nil {
		return nil, err
	}

	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression: %w", err)
	}

	return x.Get(parsed), nil
}

// QueryString evaluates expr and renders the first match for display
func QueryString(value interface{}, expr string) (string, error) {
	results, err := Query(value, expr)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no match for %s", expr)
	}

	switch v := results[0].(type) {
	case string:
		return v, nil
	case nil:
		return "null", nil
	case map[string]interface{}, []interface{}:
		return Format(v)
	default:
		data, err := oj.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v), nil
		}
		return string(data), nil
	}
}

// Get returns the value at path
func Get(value interface{}, path Path) (interface{}, error) {
	results, err := Query(value, path.String())
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("path %s not found", path)
	}
	return results[0], nil
}
