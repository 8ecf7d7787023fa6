package filter

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

func TestNormalizeCollapsesSingleChild(t *testing.T) {
	leaf := models.NewLeaf("size", models.OpGreaterOrEqual, 1024.0)
	root := models.NewBoolean(models.KindAnd, leaf.Clone(), &models.FilterNode{})

	if !Normalize(root) {
		t.Fatal("Expected normalize to report a change")
	}
	if !reflect.DeepEqual(root, leaf) {
		t.Errorf("Expected root to equal the remaining leaf, got %+v", root)
	}
}

func TestNormalizeRipplesUpward(t *testing.T) {
	leaf := models.NewLeaf("name", models.OpLike, "%run%")
	inner := models.NewBoolean(models.KindOr, leaf.Clone(), &models.FilterNode{})
	root := models.NewBoolean(models.KindAnd, inner, &models.FilterNode{})

	Normalize(root)

	if !reflect.DeepEqual(root, leaf) {
		t.Errorf("Expected nested collapse to reach the leaf, got %+v", root)
	}
}

func TestNormalizeAdoptsBooleanChild(t *testing.T) {
	a := models.NewLeaf("a", models.OpEqual, "1")
	b := models.NewLeaf("b", models.OpEqual, "2")
	root := models.NewBoolean(models.KindAnd, models.NewBoolean(models.KindOr, a, b))

	Normalize(root)

	if root.Kind() != models.KindOr {
		t.Fatalf("Expected root to become an or node, got %q", root.Kind())
	}
	if len(root.Children()) != 2 {
		t.Errorf("Expected 2 children, got %d", len(root.Children()))
	}
	if root.And != nil {
		t.Error("Expected and list to be cleared")
	}
}

func TestNormalizeClearsEmptyBoolean(t *testing.T) {
	root := models.NewBoolean(models.KindAnd, &models.FilterNode{}, &models.FilterNode{})

	Normalize(root)

	if !root.IsEmpty() {
		t.Errorf("Expected empty root, got %+v", root)
	}
}

func TestNormalizeKeepsValidTree(t *testing.T) {
	root := models.NewBoolean(models.KindAnd,
		models.NewLeaf("a", models.OpEqual, "1"),
		models.NewLeaf("b", models.OpEqual, "2"),
	)

	if Normalize(root) {
		t.Error("Expected no change on a normalized tree")
	}
	if len(root.And) != 2 {
		t.Errorf("Expected 2 children, got %d", len(root.And))
	}
}

func TestConvert(t *testing.T) {
	root := models.NewLeaf("size", models.OpLessThan, "10m")

	Convert(root, models.KindOr)

	if root.Kind() != models.KindOr {
		t.Fatalf("Expected or node, got %q", root.Kind())
	}
	if root.Name != nil || root.Op != nil || root.Val != nil {
		t.Error("Expected scalar fields to be cleared")
	}
	children := root.Children()
	if len(children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(children))
	}
	if children[0].NameValue() != "size" || children[0].OpValue() != models.OpLessThan {
		t.Errorf("Expected first child to be the original leaf, got %+v", children[0])
	}
	if !reflect.DeepEqual(children[1], models.NewEmptyLeaf()) {
		t.Errorf("Expected second child to be a fresh leaf, got %+v", children[1])
	}
}

func TestAddChild(t *testing.T) {
	root := models.NewBoolean(models.KindAnd, models.NewLeaf("a", models.OpEqual, "1"))

	if err := AddChild(root); err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
	if len(root.And) != 2 {
		t.Errorf("Expected 2 children, got %d", len(root.And))
	}

	leaf := models.NewLeaf("a", models.OpEqual, "1")
	if err := AddChild(leaf); !errors.Is(err, ErrNotBoolean) {
		t.Errorf("Expected ErrNotBoolean, got %v", err)
	}
}

func TestRemoveChildThenNormalize(t *testing.T) {
	a := models.NewLeaf("a", models.OpEqual, "1")
	b := models.NewLeaf("b", models.OpEqual, "2")
	c := models.NewLeaf("c", models.OpEqual, "3")
	root := models.NewBoolean(models.KindAnd, a, b, c)

	RemoveChild(b)
	Normalize(root)

	if len(root.And) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(root.And))
	}
	if root.And[0].NameValue() != "a" || root.And[1].NameValue() != "c" {
		t.Errorf("Expected a and c to remain in order, got %s and %s", root.And[0].NameValue(), root.And[1].NameValue())
	}
}

func TestInitialize(t *testing.T) {
	root := &models.FilterNode{}
	if !Initialize(root) {
		t.Fatal("Expected empty root to be initialized")
	}
	if root.IsEmpty() || root.OpValue() != models.OpUnset {
		t.Errorf("Expected a fresh leaf, got %+v", root)
	}
	if Initialize(root) {
		t.Error("Expected a non-empty root to be left alone")
	}
}

func TestParent(t *testing.T) {
	a := models.NewLeaf("a", models.OpEqual, "1")
	inner := models.NewBoolean(models.KindOr, a, models.NewLeaf("b", models.OpEqual, "2"))
	root := models.NewBoolean(models.KindAnd, inner, models.NewLeaf("c", models.OpEqual, "3"))

	if p := Parent(root, a); p != inner {
		t.Errorf("Expected inner node as parent, got %+v", p)
	}
	if p := Parent(root, root); p != nil {
		t.Errorf("Expected nil parent for root, got %+v", p)
	}
}
