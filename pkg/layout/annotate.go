package layout

import (
	"github.com/syntree/syntree/pkg/errors"
	"github.com/syntree/syntree/pkg/tree"
)

// Arrow geometry ratios, in ems of the base font size.
const (
	arrowClearance = 1.0  // gap between the tree bottom and the first arrow lane
	arrowStack     = 0.5  // extra dip per stacked arrow sharing a lane
	arrowheadHalf  = 0.5  // half-width of the arrowhead V
	arrowheadDrop  = 0.45 // vertical reach of the arrowhead V
	boxPad         = 0.2  // highlight box padding around the subtree span
)

// MoveArrow requests a movement arrow from one node to another,
// addressed by node ID. Style zero (ArrowDefault) inherits the
// layout-wide arrow style.
type MoveArrow struct {
	Source string     `json:"source" toml:"source"`
	Target string     `json:"target" toml:"target"`
	Style  ArrowStyle `json:"style,omitempty" toml:"style,omitempty"`
}

// HighlightBox requests a rounded rectangle drawn behind a node's
// subtree span.
type HighlightBox struct {
	Node    string  `json:"node" toml:"node"`
	Fill    string  `json:"fill,omitempty" toml:"fill,omitempty"`
	Opacity float64 `json:"opacity,omitempty" toml:"opacity,omitempty"`
}

// Underline requests a rule under a node's label.
type Underline struct {
	Node string `json:"node" toml:"node"`
}

// Annotations is the set of decorations applied on top of a positioned
// tree.
type Annotations struct {
	Arrows     []MoveArrow    `json:"arrows,omitempty" toml:"arrows,omitempty"`
	Boxes      []HighlightBox `json:"boxes,omitempty" toml:"boxes,omitempty"`
	Underlines []Underline    `json:"underlines,omitempty" toml:"underlines,omitempty"`
}

// Empty reports whether the set carries no decorations.
func (a Annotations) Empty() bool {
	return len(a.Arrows) == 0 && len(a.Boxes) == 0 && len(a.Underlines) == 0
}

// annotator turns a positioned tree plus an annotation set into the
// final primitive sequence. Primitives are emitted back-to-front: boxes,
// edges, triangles, text, underlines, arrows.
type annotator struct {
	root  *tree.Node
	sizes *Sizes
	pos   *Positions
	opts  Options

	prims  []Primitive
	height float64

	// lanes tracks occupied arrow dips: x-interval plus lane y, so a
	// later arrow crossing the same span drops half a line further.
	lanes []lane
}

type lane struct {
	minX, maxX, y float64
}

func (a *annotator) resolveNode(id string) (*tree.Node, error) {
	n, ok := a.root.ByID(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNode, "annotation references unknown node %q", id)
	}
	// Nodes inside a collapsed subtree exist in the model but were never
	// placed, so there is no anchor to attach to.
	if _, placed := a.pos.At[n]; !placed {
		return nil, errors.New(errors.ErrCodeUnknownNode,
			"annotation references node %q hidden inside a collapsed subtree", id)
	}
	return n, nil
}

func (a *annotator) run(ann Annotations) error {
	a.height = a.pos.Height

	if err := a.emitBoxes(ann.Boxes); err != nil {
		return err
	}
	a.emitEdges()
	a.emitNodes(a.root)
	if err := a.emitUnderlines(ann.Underlines); err != nil {
		return err
	}
	return a.emitArrows(ann.Arrows)
}

func (a *annotator) emitBoxes(boxes []HighlightBox) error {
	for _, b := range boxes {
		n, err := a.resolveNode(b.Node)
		if err != nil {
			return err
		}
		min, max := a.pos.subtreeBox(n)
		pad := boxPad * a.opts.FontSize
		fill := b.Fill
		if fill == "" {
			fill = "none"
		}
		a.prims = append(a.prims, Rect{
			Min:     Point{X: min.X - pad, Y: min.Y - pad},
			Max:     Point{X: max.X + pad, Y: max.Y + pad},
			Radius:  pad,
			Fill:    fill,
			Opacity: b.Opacity,
		})
	}
	return nil
}

func (a *annotator) emitEdges() {
	for _, e := range a.pos.Edges {
		if len(e.Points) == 2 {
			a.prims = append(a.prims, Line{From: e.Points[0], To: e.Points[1]})
			continue
		}
		a.prims = append(a.prims, Path{Kind: PathPolyline, Points: e.Points})
	}
}

// emitNodes walks the tree emitting label text runs, and for collapsed
// nodes the triangle connector plus yield text.
func (a *annotator) emitNodes(n *tree.Node) {
	info := a.sizes.Info[n]
	a.emitText(info.Text, a.pos.At[n], info.OwnWidth)

	if n.Collapsed() {
		a.emitTriangle(n, info)
		return
	}
	for _, c := range n.Children {
		a.emitNodes(c)
	}
}

// emitText lays the label out line by line. The anchor point is the
// top-center of the label box; each line's baseline descends by one
// line height.
func (a *annotator) emitText(text tree.StyledText, at Position, boxW float64) {
	size := text.Font.Size
	lineH := LineHeight(size)
	base := Baseline(size)

	font := FontSpec{
		Family: a.opts.FontFamily,
		Size:   size,
		Weight: text.Font.Weight,
		Style:  text.Font.Style,
	}

	for i, line := range text.Lines {
		x := at.X
		anchor := text.Align
		switch anchor {
		case tree.AlignLeft:
			x = at.X - boxW/2
		case tree.AlignRight:
			x = at.X + boxW/2
		default:
			anchor = tree.AlignCenter
		}
		a.prims = append(a.prims, TextRun{
			Pos:    Point{X: x, Y: at.Y + float64(i)*lineH + base},
			Text:   line,
			Font:   font,
			Anchor: anchor,
		})
	}
}

// emitTriangle draws the collapse connector: a triangle from the label
// bottom spanning the yield width, with the yield text on the next row.
func (a *annotator) emitTriangle(n *tree.Node, info *SizeInfo) {
	pos := a.pos.At[n]
	apex := Point{X: pos.X, Y: pos.Y + info.OwnHeight + descenderRatio*a.opts.FontSize}
	baseY := a.pos.LevelYs[info.MaxLevel]
	half := info.YieldWidth / 2

	a.prims = append(a.prims, Polygon{
		Points: []Point{
			apex,
			{X: pos.X - half, Y: baseY},
			{X: pos.X + half, Y: baseY},
		},
		Fill: "none",
	})
	a.emitText(info.YieldText, Position{X: pos.X, Y: baseY}, info.YieldWidth)
}

func (a *annotator) emitUnderlines(uls []Underline) error {
	for _, u := range uls {
		n, err := a.resolveNode(u.Node)
		if err != nil {
			return err
		}
		min, max := a.pos.labelBox(n)
		y := max.Y + 0.1*a.opts.FontSize
		a.prims = append(a.prims, Line{
			From: Point{X: min.X, Y: y},
			To:   Point{X: max.X, Y: y},
		})
	}
	return nil
}

// emitArrows routes movement arrows. Each arrow departs the bottom of
// its source label, dips into a lane below the tree, and rises to the
// bottom of its target, finished with an arrowhead V. Arrows whose
// spans overlap an occupied lane stack half a line lower, so crossing
// arrows never merge visually.
func (a *annotator) emitArrows(arrows []MoveArrow) error {
	// Resolve everything before emitting so a bad reference produces no
	// partial output.
	type routed struct {
		src, dst *tree.Node
		style    ArrowStyle
	}
	rs := make([]routed, 0, len(arrows))
	for _, ar := range arrows {
		src, err := a.resolveNode(ar.Source)
		if err != nil {
			return err
		}
		dst, err := a.resolveNode(ar.Target)
		if err != nil {
			return err
		}
		style := ar.Style
		if style == ArrowDefault {
			style = a.opts.ArrowStyle
		}
		rs = append(rs, routed{src: src, dst: dst, style: style})
	}

	for _, r := range rs {
		from := a.pos.edgeBottom(r.src)
		to := a.pos.edgeBottom(r.dst)

		dipY := a.laneY(from.X, to.X)
		sameRow := a.sizes.Info[r.src].MaxLevel == a.sizes.Info[r.dst].MaxLevel
		a.emitArrowPath(from, to, dipY, r.style, sameRow)
		a.emitArrowhead(to)

		bottom := dipY + arrowheadDrop*a.opts.FontSize
		if bottom+a.opts.Margin > a.height {
			a.height = bottom + a.opts.Margin
		}
	}
	return nil
}

// dipBase returns the y just below the deepest label material whose
// horizontal span intersects [minX, maxX]. An arrow passes under
// everything standing between its endpoints, not under the whole tree.
func (a *annotator) dipBase(minX, maxX float64) float64 {
	base := 0.0
	a.root.Walk(func(n *tree.Node, _ []int) bool {
		info := a.sizes.Info[n]
		pos := a.pos.At[n]
		// A collapsed node occupies the wider of its label and its yield
		// row, both centered on the same anchor.
		half := info.OwnWidth / 2
		if info.Collapsed() && info.YieldWidth > info.OwnWidth {
			half = info.YieldWidth / 2
		}
		if pos.X-half <= maxX && pos.X+half >= minX {
			bottomLevel := info.MaxLevel
			bottom := a.pos.LevelYs[bottomLevel] + a.sizes.LevelHeights[bottomLevel]
			if bottom > base {
				base = bottom
			}
		}
		return !n.Collapsed()
	})
	return base + arrowClearance*a.opts.FontSize
}

// laneY picks the dip depth for an arrow spanning [x1, x2]: one em
// below the deepest intervening row, plus half a line per occupied
// lane the span overlaps.
func (a *annotator) laneY(x1, x2 float64) float64 {
	minX, maxX := x1, x2
	if minX > maxX {
		minX, maxX = maxX, minX
	}

	y := a.dipBase(minX, maxX)
	for {
		clear := true
		for _, l := range a.lanes {
			if minX <= l.maxX && maxX >= l.minX && nearf(y, l.y) {
				clear = false
				break
			}
		}
		if clear {
			break
		}
		y += arrowStack * LineHeight(a.opts.FontSize)
	}
	a.lanes = append(a.lanes, lane{minX: minX, maxX: maxX, y: y})
	return y
}

func nearf(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}

func (a *annotator) emitArrowPath(from, to Point, dipY float64, style ArrowStyle, sameRow bool) {
	if style == ArrowBent {
		a.prims = append(a.prims, Path{
			Kind: PathPolyline,
			Points: []Point{
				from,
				{X: from.X, Y: dipY},
				{X: to.X, Y: dipY},
				to,
			},
		})
		return
	}

	// Curved. Endpoints on the same row get a single arc; otherwise a
	// cubic whose control points pull the stroke down into its lane.
	if sameRow {
		mid := Point{X: (from.X + to.X) / 2, Y: dipY + (dipY - maxf(from.Y, to.Y))}
		a.prims = append(a.prims, Path{
			Kind:   PathQuadratic,
			Points: []Point{from, mid, to},
		})
		return
	}
	a.prims = append(a.prims, Path{
		Kind: PathCubic,
		Points: []Point{
			from,
			{X: from.X, Y: dipY},
			{X: to.X, Y: dipY},
			to,
		},
	})
}

// emitArrowhead draws an open V pointing up at the arrival point.
func (a *annotator) emitArrowhead(at Point) {
	half := arrowheadHalf * a.opts.FontSize
	drop := arrowheadDrop * a.opts.FontSize
	a.prims = append(a.prims,
		Line{From: Point{X: at.X - half, Y: at.Y + drop}, To: at},
		Line{From: Point{X: at.X + half, Y: at.Y + drop}, To: at},
	)
}
