package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

// Describe renders a one-line human readable preview of a filter tree
func Describe(node *models.FilterNode) string {
	if node.IsEmpty() {
		return "no filter"
	}
	return describeNode(node, true)
}

// describeNode recursively renders a node
func describeNode(node *models.FilterNode, root bool) string {
	if !node.IsBoolean() {
		return describeLeaf(node)
	}

	var clauses []string
	for _, child := range node.Children() {
		if child.IsEmpty() {
			continue
		}
		clauses = append(clauses, describeNode(child, false))
	}

	logic := strings.ToUpper(string(node.Kind()))
	clause := strings.Join(clauses, " "+logic+" ")
	if root && len(clauses) < 2 {
		return clause
	}
	return "(" + clause + ")"
}

// describeLeaf renders a single comparison
func describeLeaf(node *models.FilterNode) string {
	name := node.NameValue()
	if name == "" {
		name = "?"
	}

	switch op := node.OpValue(); op {
	case models.OpIsNull:
		return fmt.Sprintf("%s is null", name)
	case models.OpIsNotNull:
		return fmt.Sprintf("%s is not null", name)
	case "", models.OpUnset:
		return fmt.Sprintf("%s ? %s", name, describeValue(node.Val))
	case models.OpNotIn:
		return fmt.Sprintf("%s not in %s", name, describeValue(node.Val))
	default:
		return fmt.Sprintf("%s %s %s", name, op, describeValue(node.Val))
	}
}

// describeValue quotes strings and renders everything else as JSON
func describeValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	case json.Number:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}

// OperatorsForType returns the operators offered for a server input value type
func OperatorsForType(valueType string) []models.FilterOperator {
	switch strings.ToLower(valueType) {
	case "integer", "float", "filesize", "datetime", "date", "timedelta":
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpGreaterThan, models.OpGreaterOrEqual,
			models.OpLessThan, models.OpLessOrEqual,
			models.OpIsNull, models.OpIsNotNull,
		}
	case "string", "text":
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpLike, models.OpIn, models.OpNotIn,
			models.OpIsNull, models.OpIsNotNull,
		}
	case "sublist", "list", "tags":
		return []models.FilterOperator{
			models.OpHas, models.OpAny,
			models.OpIsNull, models.OpIsNotNull,
		}
	case "bool", "boolean":
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
		}
	default:
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpIsNull, models.OpIsNotNull,
		}
	}
}

// OperatorsFor returns the operators of a field, preferring the server's own list
func OperatorsFor(input models.FilterInput) []models.FilterOperator {
	if len(input.Operators) > 0 {
		return input.Operators
	}
	return OperatorsForType(input.ValueType)
}

// ParseValue converts the text typed for a leaf into the value sent to the server
func ParseValue(op models.FilterOperator, text string) interface{} {
	text = strings.TrimSpace(text)
	switch op {
	case models.OpIsNull, models.OpIsNotNull:
		return nil
	case models.OpIn, models.OpNotIn, models.OpAny:
		var list []interface{}
		for _, part := range strings.Split(text, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, scalar(part))
			}
		}
		return list
	default:
		return scalar(text)
	}
}

// scalar keeps numbers numeric and everything else as text
func scalar(text string) interface{} {
	var n json.Number
	if err := json.Unmarshal([]byte(text), &n); err == nil {
		return n
	}
	return text
}

// FormatValue is the inverse of ParseValue for the builder's input field
func FormatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(e)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
