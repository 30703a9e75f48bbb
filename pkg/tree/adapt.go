package tree

import (
	"fmt"

	"github.com/syntree/syntree/pkg/errors"
)

// Source is the narrow capability interface foreign tree objects must
// implement to be ingested. Any structure that can name itself and
// enumerate its ordered children can be converted, without the engine
// knowing its concrete type.
type Source interface {
	Label() string
	Children() []Source
}

// Build converts a foreign tree object into the internal node model.
// The resulting tree is validated before being returned.
func Build(s Source) (*Node, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeBadStructure, "nil tree source")
	}
	root := build(s)
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return root, nil
}

func build(s Source) *Node {
	n := &Node{Label: Text(s.Label())}
	for _, c := range s.Children() {
		n.Children = append(n.Children, build(c))
	}
	return n
}

// FromList converts a nested-sequence representation into a tree. The
// first element of a sequence is the node label; remaining elements are
// either strings (leaf labels) or further nested sequences. An empty
// sequence becomes an empty leaf, and a bare string a single leaf.
//
//	FromList([]any{"S", []any{"NP", "the", "elephant"}, []any{"VP", "saw"}})
func FromList(v any) (*Node, error) {
	n, err := fromList(v)
	if err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func fromList(v any) (*Node, error) {
	switch t := v.(type) {
	case string:
		return NewLeaf(t), nil
	case []any:
		if len(t) == 0 {
			return NewLeaf(""), nil
		}
		label, ok := t[0].(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidDocument,
				"list head must be a string label, got %T", t[0])
		}
		n := &Node{Label: Text(label)}
		for i, c := range t[1:] {
			child, err := fromList(c)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err,
					"daughter %d of %q", i, label)
			}
			n.Children = append(n.Children, child)
		}
		return n, nil
	case []string:
		// Convenience for flat leaf sequences.
		anys := make([]any, len(t))
		for i, s := range t {
			anys[i] = s
		}
		return fromList(anys)
	default:
		return nil, errors.New(errors.ErrCodeInvalidDocument,
			"unsupported tree element type %T (%v)", v, fmt.Sprint(v))
	}
}
