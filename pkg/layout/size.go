package layout

import (
	"github.com/syntree/syntree/pkg/errors"
	"github.com/syntree/syntree/pkg/tree"
)

// SizeInfo holds the per-node output of the sizing pass. It is stored in
// a side table keyed by node identity; the node itself is never mutated.
type SizeInfo struct {
	// OwnWidth and OwnHeight are the extent of the node's label box.
	OwnWidth  float64
	OwnHeight float64

	// SubtreeWidth is the minimum horizontal span the node and all its
	// descendants require without overlap. SubtreeHeight is the vertical
	// span down to the subtree's deepest aligned row.
	SubtreeWidth  float64
	SubtreeHeight float64

	// ChildOffsets holds, per child, the left edge of that child's
	// subtree span relative to this node's subtree left edge.
	ChildOffsets []float64

	// Level is the node's depth row; MaxLevel is the deepest row any of
	// its descendants occupies (for a collapsed node, the yield row).
	Level    int
	MaxLevel int

	// Text is the label with fully resolved font metadata. Style is the
	// merged style chain that produced it.
	Text  tree.StyledText
	Style tree.NodeStyle

	// YieldText and YieldWidth are set for collapsed nodes: the
	// flattened terminal text shown under the triangle and its
	// estimated width.
	YieldText  tree.StyledText
	YieldWidth float64
}

// Collapsed reports whether the node is rendered as a triangle over its
// yield instead of a recursive subtree.
func (si *SizeInfo) Collapsed() bool { return si.Style.Collapse }

// Sizes is the complete output of the sizing pass.
type Sizes struct {
	Info map[*tree.Node]*SizeInfo

	// LevelHeights[l] is the tallest label box at depth row l across the
	// whole tree, so that every row renders at a consistent height.
	LevelHeights []float64

	// Depth is the deepest row index.
	Depth int
}

// ResolveSizes runs the bottom-up sizing pass: a post-order traversal
// computing every node's label box and minimum subtree span. Collapsed
// subtrees are sized as a single leaf-like unit whose width is the wider
// of the label and the flattened yield text.
//
// The traversal detects cycles and shared subtrees defensively and
// reports them as BAD_STRUCTURE.
func ResolveSizes(root *tree.Node, opts Options) (*Sizes, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeBadStructure, "nil tree root")
	}

	depth, err := effectiveDepth(root, make(map[*tree.Node]struct{}))
	if err != nil {
		return nil, err
	}

	s := &Sizes{
		Info:         make(map[*tree.Node]*SizeInfo, root.Count()),
		LevelHeights: make([]float64, depth),
		Depth:        depth - 1,
	}

	if err := s.resolve(root, 0, nil, opts); err != nil {
		return nil, err
	}
	s.fillSubtreeHeights(root, opts)
	return s, nil
}

// effectiveDepth computes the number of rows the tree occupies, treating
// collapsed nodes as two rows (label plus yield) regardless of how deep
// their hidden children go. Doubles as the first line of cycle defense.
func effectiveDepth(n *tree.Node, seen map[*tree.Node]struct{}) (int, error) {
	if _, dup := seen[n]; dup {
		return 0, errors.New(errors.ErrCodeBadStructure,
			"cycle or shared subtree at node %q", n.Label.String())
	}
	seen[n] = struct{}{}

	if n.Collapsed() {
		return 2, nil
	}
	if n.IsLeaf() {
		return 1, nil
	}
	max := 0
	for _, c := range n.Children {
		d, err := effectiveDepth(c, seen)
		if err != nil {
			return 0, err
		}
		if d > max {
			max = d
		}
	}
	return max + 1, nil
}

func (s *Sizes) resolve(n *tree.Node, level int, parentStyle *tree.NodeStyle, opts Options) error {
	if _, dup := s.Info[n]; dup {
		return errors.New(errors.ErrCodeBadStructure,
			"node %q reached twice during sizing", n.Label.String())
	}

	style := tree.Merge(parentStyle, n.Style)
	size := style.FontSize
	if size == 0 {
		size = opts.FontSize
	}

	text := n.Label
	text.Font = tree.Font{Size: size, Weight: style.Weight, Style: style.Style}
	if style.SetAlign {
		text.Align = style.Align
	}

	ownW, ownH := opts.Metrics.EstimateExtent(text)

	info := &SizeInfo{
		OwnWidth:  ownW,
		OwnHeight: ownH,
		Level:     level,
		MaxLevel:  level,
		Text:      text,
		Style:     style,
	}
	s.Info[n] = info

	// Leaves gravitate to the deepest row when requested, so the yield
	// reads as one line. Collapsed nodes keep their natural row.
	if opts.AlignLeaves && n.IsLeaf() && !n.Collapsed() {
		info.Level = s.Depth
		info.MaxLevel = s.Depth
	}

	switch {
	case n.Collapsed():
		yield := tree.StyledText{Lines: []string{n.Yield()}, Font: text.Font}
		yw, yh := opts.Metrics.EstimateExtent(yield)
		info.YieldText = yield
		info.YieldWidth = yw
		info.SubtreeWidth = clampWidth(maxf(ownW, yw), size)
		info.MaxLevel = info.Level + 1
		s.growLevel(info.Level, ownH)
		s.growLevel(info.MaxLevel, yh)

	case n.IsLeaf():
		info.SubtreeWidth = clampWidth(ownW, size)
		s.growLevel(info.Level, ownH)

	default:
		var kidsSum float64
		for _, c := range n.Children {
			if err := s.resolve(c, level+1, &style, opts); err != nil {
				return err
			}
			ci := s.Info[c]
			kidsSum += ci.SubtreeWidth
			if ci.MaxLevel > info.MaxLevel {
				info.MaxLevel = ci.MaxLevel
			}
		}
		kidsSum += float64(len(n.Children)-1) * opts.SiblingGap

		info.SubtreeWidth = maxf(ownW, kidsSum)

		// Children pack flush left-to-right; slack from a label wider
		// than its children is split evenly on both sides so the label
		// stays centered over them. Floating point, no rounding bias.
		pad := (info.SubtreeWidth - kidsSum) / 2
		info.ChildOffsets = make([]float64, len(n.Children))
		x := pad
		for i, c := range n.Children {
			info.ChildOffsets[i] = x
			x += s.Info[c].SubtreeWidth + opts.SiblingGap
		}
		s.growLevel(info.Level, ownH)
	}

	return nil
}

// fillSubtreeHeights assigns SubtreeHeight once all level heights are
// known, so rows at a given depth stay aligned across the whole tree.
func (s *Sizes) fillSubtreeHeights(n *tree.Node, opts Options) {
	info := s.Info[n]
	h := 0.0
	for l := info.Level; l <= info.MaxLevel && l < len(s.LevelHeights); l++ {
		h += s.LevelHeights[l]
	}
	h += float64(info.MaxLevel-info.Level) * opts.LevelGap
	info.SubtreeHeight = h

	if !n.Collapsed() {
		for _, c := range n.Children {
			s.fillSubtreeHeights(c, opts)
		}
	}
}

func (s *Sizes) growLevel(level int, h float64) {
	if level < len(s.LevelHeights) && h > s.LevelHeights[level] {
		s.LevelHeights[level] = h
	}
}

// clampWidth keeps degenerate (empty-label) subtrees from collapsing to
// zero width, which would break centering math downstream.
func clampWidth(w, fontSize float64) float64 {
	return maxf(w, fontSize)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
