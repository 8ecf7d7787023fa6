package apitest

import (
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazymarv/internal/format"
	"github.com/rebeliceyang/lazymarv/internal/models"
)

// Match evaluates a filter tree against a fixture fileset. It understands the
// name, size, tags and comment fields; unknown fields never match.
func Match(node *models.FilterNode, fs *Fileset) bool {
	if node == nil || node.IsEmpty() {
		return true
	}
	switch node.Kind() {
	case models.KindAnd:
		for _, child := range node.And {
			if !Match(child, fs) {
				return false
			}
		}
		return true
	case models.KindOr:
		for _, child := range node.Or {
			if Match(child, fs) {
				return true
			}
		}
		return len(node.Or) == 0
	}

	switch node.NameValue() {
	case "name":
		return matchString(node.OpValue(), fs.Name, node.Val)
	case "size":
		return matchNumber(node.OpValue(), float64(fs.Size), node.Val)
	case "tags":
		return matchList(node.OpValue(), fs.Tags, node.Val)
	case "comment":
		texts := make([]string, len(fs.Comments))
		for i, c := range fs.Comments {
			texts[i] = c.Text
		}
		return matchList(node.OpValue(), texts, node.Val)
	default:
		return false
	}
}

func matchString(op models.FilterOperator, have string, val interface{}) bool {
	want := fmt.Sprint(val)
	switch op {
	case models.OpEqual:
		return have == want
	case models.OpNotEqual:
		return have != want
	case models.OpLike:
		pattern := strings.NewReplacer("%", "*", "_", "?").Replace(want)
		ok, _ := path.Match(pattern, have)
		return ok
	case models.OpIn:
		return slices.Contains(stringList(val), have)
	case models.OpNotIn:
		return !slices.Contains(stringList(val), have)
	case models.OpIsNull:
		return have == ""
	case models.OpIsNotNull:
		return have != ""
	default:
		return false
	}
}

func matchNumber(op models.FilterOperator, have float64, val interface{}) bool {
	want, ok := toNumber(val)
	if !ok {
		return false
	}
	switch op {
	case models.OpEqual:
		return have == want
	case models.OpNotEqual:
		return have != want
	case models.OpGreaterThan:
		return have > want
	case models.OpLessThan:
		return have < want
	case models.OpGreaterOrEqual:
		return have >= want
	case models.OpLessOrEqual:
		return have <= want
	default:
		return false
	}
}

// toNumber accepts numbers and filesize strings such as "10k"
func toNumber(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n, true
		}
		n, err := format.ParseSize(v)
		return float64(n), err == nil
	default:
		n, err := strconv.ParseFloat(fmt.Sprint(v), 64)
		return n, err == nil
	}
}

func matchList(op models.FilterOperator, have []string, val interface{}) bool {
	switch op {
	case models.OpHas:
		return slices.Contains(have, fmt.Sprint(val))
	case models.OpAny:
		for _, want := range stringList(val) {
			if slices.Contains(have, want) {
				return true
			}
		}
		return false
	case models.OpIsNull:
		return len(have) == 0
	case models.OpIsNotNull:
		return len(have) > 0
	case models.OpLike:
		for _, h := range have {
			if matchString(models.OpLike, h, val) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func stringList(val interface{}) []string {
	list, ok := val.([]interface{})
	if !ok {
		return []string{fmt.Sprint(val)}
	}
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = fmt.Sprint(v)
	}
	return out
}
