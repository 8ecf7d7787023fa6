package filter

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

// ErrDecode matches every token decoding failure
var ErrDecode = errors.New("invalid filter token")

// DecodeError reports a malformed filter token
type DecodeError struct {
	Token string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode filter token %q: %v", e.Token, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDecode) hold for every DecodeError
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// MarshalJSON returns the compact JSON form of the tree, "{}" for an empty tree
func MarshalJSON(node *models.FilterNode) ([]byte, error) {
	if node == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to marshal filter: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode returns the transport token: padded base64 of the compact JSON.
// The empty tree encodes to "".
func Encode(node *models.FilterNode) (string, error) {
	data, err := MarshalJSON(node)
	if err != nil {
		return "", err
	}
	if string(data) == "{}" {
		return "", nil
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode parses a token produced by Encode. "" decodes to an empty node.
func Decode(token string) (*models.FilterNode, error) {
	if token == "" {
		return &models.FilterNode{}, nil
	}
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, &DecodeError{Token: token, Err: err}
	}
	node, err := UnmarshalJSON(data)
	if err != nil {
		return nil, &DecodeError{Token: token, Err: err}
	}
	return node, nil
}

// UnmarshalJSON parses the JSON form of a tree
func UnmarshalJSON(data []byte) (*models.FilterNode, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var node models.FilterNode
	if err := dec.Decode(&node); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after filter")
	}
	return &node, nil
}

// EncodeIndent returns the indented JSON of the tree for debugging
func EncodeIndent(node *models.FilterNode) (string, error) {
	data, err := MarshalJSON(node)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", fmt.Errorf("failed to indent filter: %w", err)
	}
	return buf.String(), nil
}

// IsApplied reports whether the pending token equals the applied one
func IsApplied(current, pending string) bool {
	return current == pending
}
