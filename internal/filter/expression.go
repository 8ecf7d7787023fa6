package filter

import (
	"errors"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

var (
	// ErrNotBoolean is returned when a child operation targets a leaf
	ErrNotBoolean = errors.New("node is not a boolean node")
	// ErrNotLeaf is returned when a leaf edit targets a boolean node
	ErrNotLeaf = errors.New("node is not a leaf")
)

// Normalize prunes empty children and collapses single-child boolean nodes
// until nothing changes. It reports whether the tree was modified.
func Normalize(node *models.FilterNode) bool {
	if node == nil {
		return false
	}
	changed := false
	for normalizeOnce(node) {
		changed = true
	}
	return changed
}

// normalizeOnce runs one bottom-up pass
func normalizeOnce(node *models.FilterNode) bool {
	kind := node.Kind()
	if kind == models.KindNone {
		return false
	}

	changed := false
	children := node.Children()
	kept := children[:0:0]
	for _, child := range children {
		if child == nil {
			changed = true
			continue
		}
		if normalizeOnce(child) {
			changed = true
		}
		if child.IsEmpty() {
			changed = true
			continue
		}
		kept = append(kept, child)
	}

	switch len(kept) {
	case 0:
		node.Clear()
		return true
	case 1:
		// adopt the child's identity wholesale, including its boolean kind
		*node = *kept[0]
		return true
	}

	if changed {
		node.SetChildren(kind, kept)
	}
	return changed
}

// Convert wraps the node into a boolean of kind with a copy of itself and a fresh leaf
func Convert(node *models.FilterNode, kind models.BooleanKind) {
	if node == nil || kind == models.KindNone {
		return
	}
	cp := node.Clone()
	node.Clear()
	node.SetChildren(kind, []*models.FilterNode{cp, models.NewEmptyLeaf()})
}

// AddChild appends a fresh leaf to a boolean node
func AddChild(node *models.FilterNode) error {
	if !node.IsBoolean() {
		return ErrNotBoolean
	}
	node.SetChildren(node.Kind(), append(node.Children(), models.NewEmptyLeaf()))
	return nil
}

// RemoveChild empties the node so the next Normalize prunes it
func RemoveChild(node *models.FilterNode) {
	if node == nil {
		return
	}
	node.Clear()
}

// Initialize turns an empty root into an editable leaf
func Initialize(node *models.FilterNode) bool {
	if node == nil || !node.IsEmpty() {
		return false
	}
	*node = *models.NewEmptyLeaf()
	return true
}

// Walk visits every node depth-first, parents before children
func Walk(node *models.FilterNode, fn func(n *models.FilterNode, depth int)) {
	walk(node, 0, fn)
}

func walk(node *models.FilterNode, depth int, fn func(n *models.FilterNode, depth int)) {
	if node == nil {
		return
	}
	fn(node, depth)
	for _, child := range node.Children() {
		walk(child, depth+1, fn)
	}
}

// Parent returns the boolean node holding target, or nil for the root
func Parent(root, target *models.FilterNode) *models.FilterNode {
	var parent *models.FilterNode
	Walk(root, func(n *models.FilterNode, _ int) {
		for _, child := range n.Children() {
			if child == target {
				parent = n
			}
		}
	})
	return parent
}
