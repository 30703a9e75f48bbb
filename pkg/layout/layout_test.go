package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/syntree/syntree/pkg/errors"
	"github.com/syntree/syntree/pkg/tree"
)

func sentence() *tree.Node {
	return tree.New("S",
		tree.New("NP", tree.NewLeaf("the"), tree.NewLeaf("elephant")),
		tree.New("VP",
			tree.NewLeaf("saw"),
			tree.New("NP", tree.NewLeaf("the"), tree.NewLeaf("rhinoceros")),
		),
	)
}

func mustBuild(t *testing.T, root *tree.Node, opts Options) *Result {
	t.Helper()
	res, err := Build(root, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res
}

func TestSiblingSubtreesDoNotOverlap(t *testing.T) {
	root := sentence()
	res := mustBuild(t, root, Options{})

	var check func(n *tree.Node)
	check = func(n *tree.Node) {
		for i := 0; i < len(n.Children)-1; i++ {
			a, b := n.Children[i], n.Children[i+1]
			_, aMax := res.Positions.subtreeBox(a)
			bMin, _ := res.Positions.subtreeBox(b)
			if aMax.X > bMin.X {
				t.Errorf("subtree %q (right edge %.2f) overlaps %q (left edge %.2f)",
					a.Label.String(), aMax.X, b.Label.String(), bMin.X)
			}
		}
		for _, c := range n.Children {
			check(c)
		}
	}
	check(root)
}

func TestParentCenteredOverChildren(t *testing.T) {
	root := sentence()
	res := mustBuild(t, root, Options{})

	root.Walk(func(n *tree.Node, _ []int) bool {
		if n.IsLeaf() || n.Collapsed() {
			return true
		}
		first := res.Positions.At[n.Children[0]]
		last := res.Positions.At[n.Children[len(n.Children)-1]]
		fi := res.Sizes.Info[n.Children[0]]
		li := res.Sizes.Info[n.Children[len(n.Children)-1]]

		spanMid := ((first.X - fi.SubtreeWidth/2) + (last.X + li.SubtreeWidth/2)) / 2
		got := res.Positions.At[n].X
		if math.Abs(got-spanMid) > 1e-9 {
			t.Errorf("node %q at x=%.4f, span midpoint %.4f", n.Label.String(), got, spanMid)
		}
		return true
	})
}

func TestWidthMonotonicUnderGrowth(t *testing.T) {
	small := tree.New("VP", tree.NewLeaf("saw"))
	big := tree.New("VP", tree.NewLeaf("saw"), tree.New("NP", tree.NewLeaf("the"), tree.NewLeaf("rhinoceros")))

	rs := mustBuild(t, small, Options{})
	rb := mustBuild(t, big, Options{})
	if rb.Layout.Width < rs.Layout.Width {
		t.Errorf("adding a child shrank width: %.2f -> %.2f", rs.Layout.Width, rb.Layout.Width)
	}

	// Lengthening a leaf label never shrinks the canvas either.
	word := "rhinoceros"
	prev := 0.0
	for i := 1; i <= len(word); i++ {
		root := tree.New("S",
			tree.New("NP", tree.NewLeaf("the"), tree.NewLeaf(word[:i])),
			tree.New("VP", tree.NewLeaf("left")),
		)
		w := mustBuild(t, root, Options{}).Layout.Width
		if w < prev {
			t.Errorf("label %q shrank canvas: %.2f -> %.2f", word[:i], prev, w)
		}
		prev = w
	}
}

func TestLayoutDeterministic(t *testing.T) {
	opts := Options{FontSize: 14, SiblingGap: 20}
	a := mustBuild(t, sentence(), opts)
	b := mustBuild(t, sentence(), opts)

	if a.Layout.Width != b.Layout.Width || a.Layout.Height != b.Layout.Height {
		t.Fatalf("canvas differs across runs: %gx%g vs %gx%g",
			a.Layout.Width, a.Layout.Height, b.Layout.Width, b.Layout.Height)
	}
	if !reflect.DeepEqual(a.Layout.Primitives, b.Layout.Primitives) {
		t.Error("primitive sequences differ across identical runs")
	}
}

func TestSentenceScenario(t *testing.T) {
	root := sentence()
	res := mustBuild(t, root, Options{})

	// One edge per parent-child pair: 8 non-root nodes.
	if got := len(res.Positions.Edges); got != 8 {
		t.Errorf("edges = %d, want 8", got)
	}

	// Every label shows up as a text run.
	texts := map[string]bool{}
	for _, pr := range res.Layout.Primitives {
		if tr, ok := pr.(TextRun); ok {
			texts[tr.Text] = true
		}
	}
	for _, want := range []string{"S", "NP", "VP", "the", "elephant", "saw", "rhinoceros"} {
		if !texts[want] {
			t.Errorf("no text run for %q", want)
		}
	}

	// Leaves sit strictly below their parents.
	root.Walk(func(n *tree.Node, _ []int) bool {
		for _, c := range n.Children {
			if res.Positions.At[c].Y <= res.Positions.At[n].Y {
				t.Errorf("child %q not below parent %q", c.Label.String(), n.Label.String())
			}
		}
		return true
	})
}

func TestMovementArrow(t *testing.T) {
	moved := tree.NewLeaf("what")
	moved.ID = "wh"
	trace := tree.NewLeaf("t")
	trace.ID = "trace"
	root := tree.New("S",
		tree.New("NP", moved),
		tree.New("VP", tree.NewLeaf("did"), tree.New("NP", trace)),
	)

	res, err := Resolve(root, Annotations{
		Arrows: []MoveArrow{{Source: "trace", Target: "wh"}},
	}, Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	var paths []Path
	for _, pr := range res.Layout.Primitives {
		if p, ok := pr.(Path); ok && p.Kind != PathPolyline {
			paths = append(paths, p)
		}
	}
	if len(paths) != 1 {
		t.Fatalf("curved paths = %d, want 1", len(paths))
	}

	// The arrow dips below both endpoint rows.
	p := paths[0]
	from, to := p.Points[0], p.Points[len(p.Points)-1]
	for _, mid := range p.Points[1 : len(p.Points)-1] {
		if mid.Y <= from.Y || mid.Y <= to.Y {
			t.Errorf("arrow control point %v does not dip below endpoints %v, %v", mid, from, to)
		}
	}

	// Arrowhead: two short lines converging on the target point.
	heads := 0
	for _, pr := range res.Layout.Primitives {
		if l, ok := pr.(Line); ok && l.To == to {
			heads++
		}
	}
	if heads != 2 {
		t.Errorf("arrowhead lines at target = %d, want 2", heads)
	}
}

func TestUnknownAnnotationTarget(t *testing.T) {
	root := sentence()
	tests := []struct {
		name string
		ann  Annotations
	}{
		{name: "arrow source", ann: Annotations{Arrows: []MoveArrow{{Source: "nope", Target: "also-nope"}}}},
		{name: "box", ann: Annotations{Boxes: []HighlightBox{{Node: "nope"}}}},
		{name: "underline", ann: Annotations{Underlines: []Underline{{Node: "nope"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(root, tt.ann, Options{})
			if !errors.Is(err, errors.ErrCodeUnknownNode) {
				t.Errorf("error = %v, want UNKNOWN_NODE", err)
			}
			if res != nil {
				t.Error("got partial result alongside error")
			}
		})
	}
}

func TestAnnotationCannotTargetHiddenNode(t *testing.T) {
	hidden := tree.NewLeaf("gone")
	hidden.ID = "gone"
	np := tree.New("NP", tree.NewLeaf("the"), hidden)
	np.Style = &tree.NodeStyle{Collapse: true}
	root := tree.New("S", np, tree.New("VP", tree.NewLeaf("left")))

	res, err := Resolve(root, Annotations{
		Arrows: []MoveArrow{{Source: "gone", Target: "gone"}},
	}, Options{})
	if !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Errorf("error = %v, want UNKNOWN_NODE for node under a triangle", err)
	}
	if res != nil {
		t.Error("got partial result alongside error")
	}
}

func TestCollapsedTriangle(t *testing.T) {
	np := tree.New("NP", tree.NewLeaf("the"), tree.NewLeaf("big"), tree.NewLeaf("rhinoceros"))
	np.Style = &tree.NodeStyle{Collapse: true}
	root := tree.New("S", np, tree.New("VP", tree.NewLeaf("left")))

	res := mustBuild(t, root, Options{})

	var tri *Polygon
	for _, pr := range res.Layout.Primitives {
		if pg, ok := pr.(Polygon); ok {
			cp := pg
			tri = &cp
		}
	}
	if tri == nil {
		t.Fatal("no triangle polygon emitted")
	}
	if len(tri.Points) != 3 {
		t.Fatalf("triangle has %d points, want 3", len(tri.Points))
	}

	// Base width equals the estimated yield width.
	info := res.Sizes.Info[np]
	baseW := math.Abs(tri.Points[2].X - tri.Points[1].X)
	if math.Abs(baseW-info.YieldWidth) > 1e-9 {
		t.Errorf("triangle base %.2f, yield width %.2f", baseW, info.YieldWidth)
	}

	// The hidden leaves are not drawn; the yield line is.
	texts := map[string]bool{}
	for _, pr := range res.Layout.Primitives {
		if tr, ok := pr.(TextRun); ok {
			texts[tr.Text] = true
		}
	}
	if !texts["the big rhinoceros"] {
		t.Error("collapsed yield text missing")
	}
	if texts["big"] {
		t.Error("hidden leaf rendered despite collapse")
	}
}

func TestAlignLeavesPushesTerminalsDown(t *testing.T) {
	root := tree.New("S",
		tree.New("NP", tree.NewLeaf("we")),
		tree.NewLeaf("left"), // shallow leaf
	)
	res := mustBuild(t, root, Options{AlignLeaves: true})

	deep := res.Positions.At[root.Children[0].Children[0]]
	shallow := res.Positions.At[root.Children[1]]
	if deep.Y != shallow.Y {
		t.Errorf("leaves at different rows: %.2f vs %.2f", deep.Y, shallow.Y)
	}
}

func TestElbowDescent(t *testing.T) {
	root := tree.New("S",
		tree.New("NP", tree.NewLeaf("we")),
		tree.NewLeaf("left"),
	)
	res := mustBuild(t, root, Options{AlignLeaves: true, ElbowDescent: true})

	var bent bool
	for _, e := range res.Positions.Edges {
		if len(e.Points) == 3 {
			bent = true
		}
	}
	if !bent {
		t.Error("no elbow edge for multi-level descent")
	}
}

func TestArrowStacking(t *testing.T) {
	mk := func(id string) *tree.Node {
		n := tree.NewLeaf(id)
		n.ID = id
		return n
	}
	root := tree.New("S",
		tree.New("A", mk("a1"), mk("a2")),
		tree.New("B", mk("b1"), mk("b2")),
	)

	res, err := Resolve(root, Annotations{
		Arrows: []MoveArrow{
			{Source: "b2", Target: "a1", Style: ArrowBent},
			{Source: "b1", Target: "a2", Style: ArrowBent},
		},
	}, Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	var dips []float64
	for _, pr := range res.Layout.Primitives {
		if p, ok := pr.(Path); ok && p.Kind == PathPolyline && len(p.Points) == 4 {
			dips = append(dips, p.Points[1].Y)
		}
	}
	if len(dips) != 2 {
		t.Fatalf("bent arrows = %d, want 2", len(dips))
	}
	if dips[0] == dips[1] {
		t.Error("overlapping arrows share a lane")
	}
	if res.Layout.Height <= res.Positions.Height {
		t.Error("canvas did not grow to hold stacked arrows")
	}
}

func TestArrowClearsCollapsedYield(t *testing.T) {
	np := tree.New("NP",
		tree.NewLeaf("an"), tree.NewLeaf("absolutely"), tree.NewLeaf("enormous"),
		tree.NewLeaf("flattened"), tree.NewLeaf("constituent"))
	np.Style = &tree.NodeStyle{Collapse: true}
	v := tree.NewLeaf("a")
	v.ID = "v"
	root := tree.New("S", tree.New("X", np), tree.New("VP", v))
	root.ID = "s"

	res, err := Resolve(root, Annotations{
		Arrows: []MoveArrow{{Source: "v", Target: "s", Style: ArrowBent}},
	}, Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	dip := math.Inf(-1)
	for _, pr := range res.Layout.Primitives {
		if p, ok := pr.(Path); ok && p.Kind == PathPolyline && len(p.Points) == 4 {
			dip = p.Points[1].Y
		}
	}
	if math.IsInf(dip, -1) {
		t.Fatal("no bent arrow emitted")
	}

	// The wide yield row stands between the endpoints even though the
	// narrow NP label does not; the arrow has to pass under the yield,
	// not just under the labels.
	yieldRow := res.Sizes.Info[np].MaxLevel
	yieldBottom := res.Positions.LevelYs[yieldRow] + res.Sizes.LevelHeights[yieldRow]
	if dip <= yieldBottom {
		t.Errorf("arrow dips to %.2f, yield row bottom is %.2f", dip, yieldBottom)
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "negative gap", opts: Options{SiblingGap: -1}},
		{name: "negative font", opts: Options{FontSize: -4}},
		{name: "negative margin", opts: Options{Margin: -0.5}},
		{name: "bogus arrow style", opts: Options{ArrowStyle: 99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(sentence(), tt.opts); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestHeuristicMonotonic(t *testing.T) {
	h := Heuristic{}
	short, _ := h.EstimateExtent(tree.Text("cat"))
	long, _ := h.EstimateExtent(tree.Text("cats"))
	if long <= short {
		t.Errorf("appending a rune did not grow width: %.2f -> %.2f", short, long)
	}

	small, _ := h.EstimateExtent(tree.StyledText{Lines: []string{"word"}, Font: tree.Font{Size: 12}})
	big, _ := h.EstimateExtent(tree.StyledText{Lines: []string{"word"}, Font: tree.Font{Size: 24}})
	if big <= small {
		t.Errorf("larger font did not grow width: %.2f -> %.2f", small, big)
	}

	_, h1 := h.EstimateExtent(tree.Text("one"))
	_, h2 := h.EstimateExtent(tree.StyledText{Lines: []string{"one", "two"}})
	if h2 <= h1 {
		t.Errorf("second line did not grow height: %.2f -> %.2f", h1, h2)
	}
}
