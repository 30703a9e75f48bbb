package layout

import (
	"github.com/syntree/syntree/pkg/tree"
)

// descenderRatio pads edge and arrow endpoints below a label box so
// strokes clear descender glyphs (g, y, p).
const descenderRatio = 0.2

// Position is a node's resolved anchor: the top-center of its label box
// in canvas coordinates.
type Position struct {
	X float64
	Y float64
}

// Edge is a resolved parent-child connector. Points runs from just below
// the parent's label to just above the child's; elbow descents carry an
// intermediate bend point.
type Edge struct {
	Parent *tree.Node
	Child  *tree.Node
	Points []Point
}

// Positions is the output of the top-down placement pass.
type Positions struct {
	At     map[*tree.Node]Position
	Edges  []Edge
	Width  float64
	Height float64

	// LevelYs[l] is the canvas y of the top of depth row l.
	LevelYs []float64

	sizes *Sizes
	opts  Options
}

// ResolvePositions runs the pre-order placement pass over a completed
// sizing pass. Each node is centered over its children's combined span;
// rows sit at uniform y determined by the tallest label per level.
func ResolvePositions(root *tree.Node, sizes *Sizes, opts Options) (*Positions, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	p := &Positions{
		At:      make(map[*tree.Node]Position, len(sizes.Info)),
		LevelYs: make([]float64, len(sizes.LevelHeights)),
		sizes:   sizes,
		opts:    opts,
	}

	y := opts.Margin
	for l, h := range sizes.LevelHeights {
		p.LevelYs[l] = y
		y += h + opts.LevelGap
	}

	rootInfo := sizes.Info[root]
	p.place(root, opts.Margin)
	p.Width = rootInfo.SubtreeWidth + 2*opts.Margin
	p.Height = y - opts.LevelGap + opts.Margin

	p.connect(root)
	return p, nil
}

// place positions n's label at the horizontal center of its subtree
// span, whose left edge is x, then recurses using the offsets computed
// during sizing.
func (p *Positions) place(n *tree.Node, x float64) {
	info := p.sizes.Info[n]
	p.At[n] = Position{
		X: x + info.SubtreeWidth/2,
		Y: p.LevelYs[info.Level],
	}
	if n.Collapsed() {
		return
	}
	for i, c := range n.Children {
		p.place(c, x+info.ChildOffsets[i])
	}
}

// connect emits the parent-child edges. Edges leave the parent slightly
// below its label box and arrive slightly above the child's; a child
// more than one row down gets either a direct diagonal or, with
// ElbowDescent, an angled segment to the next row followed by a
// vertical drop.
func (p *Positions) connect(n *tree.Node) {
	if n.Collapsed() {
		return
	}
	info := p.sizes.Info[n]
	for _, c := range n.Children {
		ci := p.sizes.Info[c]
		from := p.edgeBottom(n)
		to := Point{X: p.At[c].X, Y: p.At[c].Y - descenderRatio*p.opts.FontSize}

		e := Edge{Parent: n, Child: c}
		if p.opts.ElbowDescent && ci.Level > info.Level+1 {
			bendY := p.LevelYs[info.Level+1]
			e.Points = []Point{from, {X: to.X, Y: bendY}, to}
		} else {
			e.Points = []Point{from, to}
		}
		p.Edges = append(p.Edges, e)
		p.connect(c)
	}
}

// edgeBottom is the point just below n's label box where edges and
// arrows attach.
func (p *Positions) edgeBottom(n *tree.Node) Point {
	info := p.sizes.Info[n]
	pos := p.At[n]
	return Point{X: pos.X, Y: pos.Y + info.OwnHeight + descenderRatio*p.opts.FontSize}
}

// labelBox returns the bounding box of n's label in canvas coordinates.
func (p *Positions) labelBox(n *tree.Node) (min, max Point) {
	info := p.sizes.Info[n]
	pos := p.At[n]
	min = Point{X: pos.X - info.OwnWidth/2, Y: pos.Y}
	max = Point{X: pos.X + info.OwnWidth/2, Y: pos.Y + info.OwnHeight}
	return min, max
}

// subtreeBox returns the bounding box of n's whole subtree span,
// including the yield row of a collapsed node.
func (p *Positions) subtreeBox(n *tree.Node) (min, max Point) {
	info := p.sizes.Info[n]
	pos := p.At[n]
	min = Point{X: pos.X - info.SubtreeWidth/2, Y: pos.Y}
	max = Point{X: pos.X + info.SubtreeWidth/2, Y: pos.Y + info.SubtreeHeight}
	return min, max
}
