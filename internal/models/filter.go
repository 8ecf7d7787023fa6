package models

// FilterOperator represents a filter comparison operator
type FilterOperator string

const (
	OpEqual          FilterOperator = "=="
	OpNotEqual       FilterOperator = "!="
	OpGreaterThan    FilterOperator = ">"
	OpLessThan       FilterOperator = "<"
	OpGreaterOrEqual FilterOperator = ">="
	OpLessOrEqual    FilterOperator = "<="
	OpIn             FilterOperator = "in"
	OpNotIn          FilterOperator = "not_in"
	OpIsNull         FilterOperator = "is_null"
	OpIsNotNull      FilterOperator = "is_not_null"
	OpLike           FilterOperator = "like"
	OpHas            FilterOperator = "has"
	OpAny            FilterOperator = "any"

	// OpUnset is the placeholder operator of a freshly added leaf
	OpUnset FilterOperator = " "
)

// Operators lists every operator in the order the builder offers them
var Operators = []FilterOperator{
	OpEqual, OpNotEqual,
	OpGreaterThan, OpLessThan,
	OpGreaterOrEqual, OpLessOrEqual,
	OpIn, OpNotIn,
	OpIsNull, OpIsNotNull,
	OpLike, OpHas, OpAny,
}

// BooleanKind selects how the children of a boolean node combine
type BooleanKind string

const (
	KindNone BooleanKind = ""
	KindAnd  BooleanKind = "and"
	KindOr   BooleanKind = "or"
)

// FilterNode is one node of a filter expression tree.
//
// A leaf carries Name/Op/Val, a boolean node carries exactly one of And/Or.
// A node with nothing set is empty; the root may be empty (no filter).
// Field order here is the key order of the encoded JSON.
type FilterNode struct {
	Name *string         `json:"name,omitempty"`
	Op   *FilterOperator `json:"op,omitempty"`
	Val  interface{}     `json:"val,omitempty"`
	And  []*FilterNode   `json:"and,omitempty"`
	Or   []*FilterNode   `json:"or,omitempty"`
}

// NewLeaf creates a comparison leaf
func NewLeaf(name string, op FilterOperator, val interface{}) *FilterNode {
	return &FilterNode{Name: &name, Op: &op, Val: val}
}

// NewEmptyLeaf creates the placeholder leaf the builder inserts: {name:"", op:" ", val:""}
func NewEmptyLeaf() *FilterNode {
	return NewLeaf("", OpUnset, "")
}

// NewBoolean creates a boolean node of the given kind
func NewBoolean(kind BooleanKind, children ...*FilterNode) *FilterNode {
	n := &FilterNode{}
	n.SetChildren(kind, children)
	return n
}

// Kind returns the boolean kind of the node, KindNone for leaves and empty nodes
func (n *FilterNode) Kind() BooleanKind {
	switch {
	case n == nil:
		return KindNone
	case n.And != nil:
		return KindAnd
	case n.Or != nil:
		return KindOr
	default:
		return KindNone
	}
}

// IsBoolean reports whether the node combines children
func (n *FilterNode) IsBoolean() bool {
	return n.Kind() != KindNone
}

// IsEmpty reports whether nothing at all is set on the node
func (n *FilterNode) IsEmpty() bool {
	if n == nil {
		return true
	}
	return n.Name == nil && n.Op == nil && n.Val == nil && n.And == nil && n.Or == nil
}

// Children returns the child list of a boolean node
func (n *FilterNode) Children() []*FilterNode {
	switch n.Kind() {
	case KindAnd:
		return n.And
	case KindOr:
		return n.Or
	default:
		return nil
	}
}

// SetChildren replaces the child list and makes the node a boolean of kind
func (n *FilterNode) SetChildren(kind BooleanKind, children []*FilterNode) {
	if children == nil {
		children = []*FilterNode{}
	}
	n.And, n.Or = nil, nil
	switch kind {
	case KindAnd:
		n.And = children
	case KindOr:
		n.Or = children
	}
}

// Clear unsets every field, turning the node into an empty node
func (n *FilterNode) Clear() {
	*n = FilterNode{}
}

// NameValue returns the field name or "" when unset
func (n *FilterNode) NameValue() string {
	if n == nil || n.Name == nil {
		return ""
	}
	return *n.Name
}

// OpValue returns the operator or "" when unset
func (n *FilterNode) OpValue() FilterOperator {
	if n == nil || n.Op == nil {
		return ""
	}
	return *n.Op
}

// SetName sets the field name of a leaf
func (n *FilterNode) SetName(name string) {
	n.Name = &name
}

// SetOp sets the operator of a leaf
func (n *FilterNode) SetOp(op FilterOperator) {
	n.Op = &op
}

// Valid reports whether a leaf is complete enough to be sent to the server
func (n *FilterNode) Valid() bool {
	if n.IsBoolean() {
		return false
	}
	op := n.OpValue()
	if n.NameValue() == "" || op == "" || op == OpUnset {
		return false
	}
	if op == OpIsNull || op == OpIsNotNull {
		return true
	}
	if n.Val == nil {
		return false
	}
	if s, ok := n.Val.(string); ok && s == "" {
		return false
	}
	return true
}

// Clone returns a deep copy of the subtree
func (n *FilterNode) Clone() *FilterNode {
	if n == nil {
		return nil
	}
	c := &FilterNode{Val: cloneValue(n.Val)}
	if n.Name != nil {
		name := *n.Name
		c.Name = &name
	}
	if n.Op != nil {
		op := *n.Op
		c.Op = &op
	}
	if n.And != nil {
		c.And = cloneNodes(n.And)
	}
	if n.Or != nil {
		c.Or = cloneNodes(n.Or)
	}
	return c
}

func cloneNodes(nodes []*FilterNode) []*FilterNode {
	out := make([]*FilterNode, len(nodes))
	for i, child := range nodes {
		out[i] = child.Clone()
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// FilterInput describes one filterable field as advertised by the server
type FilterInput struct {
	Key         string           `json:"key"`
	Name        string           `json:"name"`
	Title       string           `json:"title"`
	Operators   []FilterOperator `json:"operators"`
	ValueType   string           `json:"value_type"`
	Constraints interface{}      `json:"constraints,omitempty"`
}

// FilterDefinition groups the inputs of one server-side filter
type FilterDefinition struct {
	Name   string        `json:"name"`
	Title  string        `json:"title"`
	Type   string        `json:"type"`
	Inputs []FilterInput `json:"inputs"`
}

// WebConfig is the server's client configuration
type WebConfig struct {
	Filters []FilterDefinition `json:"filters"`
}

// Inputs flattens all filter inputs in server order
func (c WebConfig) Inputs() []FilterInput {
	var inputs []FilterInput
	for _, f := range c.Filters {
		inputs = append(inputs, f.Inputs...)
	}
	return inputs
}
