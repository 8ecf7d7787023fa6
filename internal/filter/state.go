package filter

import (
	"fmt"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

// State holds the edited filter tree together with its pending and applied tokens.
// Every mutating method normalizes and re-encodes the tree before returning.
type State struct {
	Root       *models.FilterNode
	Applied    string
	Pending    string
	AutoUpdate bool
}

// NewState creates a state from the token currently in effect
func NewState(applied string) (*State, error) {
	root, err := Decode(applied)
	if err != nil {
		return nil, err
	}
	s := &State{Root: root, Applied: applied}
	if err := s.refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// refresh recomputes the normalized tree and the pending token
func (s *State) refresh() error {
	if s.Root == nil {
		s.Root = &models.FilterNode{}
	}
	Normalize(s.Root)
	token, err := Encode(s.Root)
	if err != nil {
		return err
	}
	s.Pending = token
	if s.AutoUpdate {
		s.Applied = token
	}
	return nil
}

// Mutate runs fn on the tree and refreshes the derived state
func (s *State) Mutate(fn func(root *models.FilterNode) error) error {
	if s.Root == nil {
		s.Root = &models.FilterNode{}
	}
	if err := fn(s.Root); err != nil {
		return err
	}
	return s.refresh()
}

// Initialize makes an empty filter editable
func (s *State) Initialize() error {
	return s.Mutate(func(root *models.FilterNode) error {
		Initialize(root)
		return nil
	})
}

// Convert wraps node into a boolean of kind
func (s *State) Convert(node *models.FilterNode, kind models.BooleanKind) error {
	return s.Mutate(func(*models.FilterNode) error {
		Convert(node, kind)
		return nil
	})
}

// AddChild appends a fresh leaf to a boolean node
func (s *State) AddChild(node *models.FilterNode) error {
	return s.Mutate(func(*models.FilterNode) error {
		return AddChild(node)
	})
}

// RemoveChild removes node from the tree
func (s *State) RemoveChild(node *models.FilterNode) error {
	return s.Mutate(func(*models.FilterNode) error {
		RemoveChild(node)
		return nil
	})
}

// SetLeaf updates the fields of a leaf
func (s *State) SetLeaf(node *models.FilterNode, name string, op models.FilterOperator, val interface{}) error {
	return s.Mutate(func(*models.FilterNode) error {
		if node.IsBoolean() {
			return ErrNotLeaf
		}
		node.SetName(name)
		node.SetOp(op)
		node.Val = val
		return nil
	})
}

// Load replaces the tree with the one encoded in token
func (s *State) Load(token string) error {
	root, err := Decode(token)
	if err != nil {
		return err
	}
	s.Root = root
	return s.refresh()
}

// Apply makes the pending token the applied one
func (s *State) Apply() {
	s.Applied = s.Pending
}

// Reset drops the filter and applies the empty token
func (s *State) Reset() error {
	s.Root = &models.FilterNode{}
	if err := s.refresh(); err != nil {
		return fmt.Errorf("failed to reset filter: %w", err)
	}
	s.Applied = s.Pending
	return nil
}

// Dirty reports whether the pending filter differs from the applied one
func (s *State) Dirty() bool {
	return !IsApplied(s.Applied, s.Pending)
}

// JSON returns the compact JSON of the pending filter as sent to the listing endpoint
func (s *State) JSON() (string, error) {
	data, err := MarshalJSON(s.Root)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
