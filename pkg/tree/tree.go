package tree

import (
	"strings"

	"github.com/syntree/syntree/pkg/errors"
)

// FontWeight selects the rendered weight of a label.
type FontWeight int

const (
	WeightNormal FontWeight = iota
	WeightBold
)

// Align selects the horizontal alignment of a multi-line label.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// Font carries the font metadata attached to a label. Zero values mean
// "inherit from the enclosing style" and are resolved during layout.
type Font struct {
	Size   float64    // in user units; 0 = inherit
	Weight FontWeight // normal or bold
	Style  string     // e.g. "italic"; empty = normal
}

// StyledText is one or more lines of text plus font metadata. Multi-line
// labels are rendered as stacked rows.
type StyledText struct {
	Lines []string
	Font  Font
	Align Align
}

// Text builds a StyledText from a string, splitting on newlines.
func Text(s string) StyledText {
	return StyledText{Lines: strings.Split(s, "\n")}
}

// String joins the lines back into a single newline-separated string.
func (t StyledText) String() string { return strings.Join(t.Lines, "\n") }

// IsEmpty reports whether the text has no visible content.
func (t StyledText) IsEmpty() bool {
	for _, l := range t.Lines {
		if l != "" {
			return false
		}
	}
	return true
}

// NodeStyle is the enumerated set of per-node overrides. Fields left at
// their zero value inherit from the parent node's resolved style; Merge
// implements that precedence.
type NodeStyle struct {
	FontSize float64    // 0 = inherit
	Weight   FontWeight // WeightNormal = inherit unless SetWeight
	Style    string     // "" = inherit
	Align    Align      // AlignCenter = inherit unless SetAlign

	// SetWeight and SetAlign mark the zero-valued fields above as
	// deliberate overrides rather than inherited defaults.
	SetWeight bool
	SetAlign  bool

	// Collapse renders the node's subtree as a triangle over its
	// flattened yield instead of recursing into the children.
	Collapse bool
}

// Merge returns the child style layered over the parent style.
// Child overrides win field by field; Collapse never propagates downward.
func Merge(parent, child *NodeStyle) NodeStyle {
	var out NodeStyle
	if parent != nil {
		out = *parent
		out.Collapse = false
	}
	if child == nil {
		return out
	}
	if child.FontSize != 0 {
		out.FontSize = child.FontSize
	}
	if child.SetWeight || child.Weight != WeightNormal {
		out.Weight = child.Weight
		out.SetWeight = true
	}
	if child.Style != "" {
		out.Style = child.Style
	}
	if child.SetAlign || child.Align != AlignCenter {
		out.Align = child.Align
		out.SetAlign = true
	}
	out.Collapse = child.Collapse
	return out
}

// Node is the internal tree representation consumed by the layout engine.
// A tree is a strict hierarchy: every node is owned by at most one parent
// and the root has no parent. Nodes are treated as immutable once passed
// into layout; all computed state lives in per-call side tables keyed by
// node identity.
type Node struct {
	// ID optionally names the node so annotations (movement arrows,
	// highlights) can reference it. Empty IDs are valid; such nodes can
	// still be addressed by tree path.
	ID string

	Label    StyledText
	Children []*Node

	// Style holds per-node overrides; nil means inherit everything.
	Style *NodeStyle
}

// NewLeaf creates a terminal node from a label string.
func NewLeaf(label string) *Node {
	return &Node{Label: Text(label)}
}

// New creates an internal node with the given label and children.
func New(label string, children ...*Node) *Node {
	return &Node{Label: Text(label), Children: children}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Collapsed reports whether the node is rendered as a triangle.
func (n *Node) Collapsed() bool { return n.Style != nil && n.Style.Collapse }

// Depth returns the maximum depth of the subtree rooted at n, where a
// single leaf has depth 1.
func (n *Node) Depth() int {
	max := 0
	for _, c := range n.Children {
		if d := c.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Yield returns the space-joined terminal labels of the subtree, the text
// a triangle-collapsed subtree displays under its base.
func (n *Node) Yield() string {
	var leaves []string
	n.Walk(func(m *Node, _ []int) bool {
		if m.IsLeaf() {
			leaves = append(leaves, m.Label.String())
		}
		return true
	})
	return strings.Join(leaves, " ")
}

// Walk visits every node in pre-order, passing the node and its tree path
// (the sequence of child indices from the root). Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(node *Node, path []int) bool) {
	n.walk(nil, fn)
}

func (n *Node) walk(path []int, fn func(*Node, []int) bool) {
	if !fn(n, path) {
		return
	}
	for i, c := range n.Children {
		// Copy the path so callers may retain it across visits.
		p := make([]int, len(path)+1)
		copy(p, path)
		p[len(path)] = i
		c.walk(p, fn)
	}
}

// ByID returns the first node in the subtree with the given ID.
func (n *Node) ByID(id string) (*Node, bool) {
	var found *Node
	n.Walk(func(m *Node, _ []int) bool {
		if found == nil && m.ID == id {
			found = m
		}
		return found == nil
	})
	return found, found != nil
}

// AtPath resolves a tree path (sequence of daughter indices from the
// root) to a node. An empty path resolves to n itself.
func (n *Node) AtPath(path []int) (*Node, error) {
	cur := n
	for i, idx := range path {
		if idx < 0 || idx >= len(cur.Children) {
			return nil, errors.New(errors.ErrCodeUnknownNode,
				"invalid tree path at index %d (daughter %d of %d)", i, idx, len(cur.Children))
		}
		cur = cur.Children[idx]
	}
	return cur, nil
}

// Validate checks the strict-hierarchy invariant: no node may appear
// twice (shared ownership or cycle). The layout engine runs the same
// check defensively, but adapters should call this at the boundary.
func (n *Node) Validate() error {
	seen := make(map[*Node]struct{})
	return n.validate(seen)
}

func (n *Node) validate(seen map[*Node]struct{}) error {
	if _, dup := seen[n]; dup {
		return errors.New(errors.ErrCodeBadStructure,
			"node %q appears more than once in the tree", n.Label.String())
	}
	seen[n] = struct{}{}
	if n.ID != "" {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
	}
	for _, line := range n.Label.Lines {
		if err := errors.ValidateLabel(line); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if c == nil {
			return errors.New(errors.ErrCodeBadStructure,
				"node %q has a nil child", n.Label.String())
		}
		if err := c.validate(seen); err != nil {
			return err
		}
	}
	return nil
}
