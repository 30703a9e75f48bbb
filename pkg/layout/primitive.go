package layout

import "github.com/syntree/syntree/pkg/tree"

// Point is a coordinate in user units. The origin is the top-left
// corner of the canvas; y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FontSpec carries resolved font metadata on a text primitive.
type FontSpec struct {
	Family string          `json:"family"`
	Size   float64         `json:"size"`
	Weight tree.FontWeight `json:"weight,omitempty"`
	Style  string          `json:"style,omitempty"`
}

// PathKind distinguishes how a Path's points are interpreted.
type PathKind int

const (
	// PathPolyline connects the points with straight segments.
	PathPolyline PathKind = iota
	// PathQuadratic is a single quadratic curve: start, control, end.
	PathQuadratic
	// PathCubic is a cubic spline: start followed by triples of
	// (ctrl1, ctrl2, end).
	PathCubic
)

// Primitive is a resolved drawing instruction. The layout engine emits
// an ordered sequence of primitives; canvas emitters serialize them
// without further geometry decisions.
type Primitive interface {
	primitive()
}

// Line is a straight stroke between two points.
type Line struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Polygon is a closed stroked shape, used for triangle connectors.
type Polygon struct {
	Points []Point `json:"points"`
	Fill   string  `json:"fill,omitempty"`
}

// Rect is an axis-aligned rectangle with optional corner rounding,
// used for constituent highlight boxes.
type Rect struct {
	Min     Point   `json:"min"`
	Max     Point   `json:"max"`
	Radius  float64 `json:"radius,omitempty"`
	Fill    string  `json:"fill,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// TextRun is a single line of positioned text. Pos is the baseline
// point; Anchor controls how the text aligns to it horizontally.
type TextRun struct {
	Pos    Point      `json:"pos"`
	Text   string     `json:"text"`
	Font   FontSpec   `json:"font"`
	Anchor tree.Align `json:"anchor,omitempty"`
}

// Path is a multi-point stroke used for movement arrows.
type Path struct {
	Kind   PathKind `json:"kind"`
	Points []Point  `json:"points"`
}

func (Line) primitive()    {}
func (Polygon) primitive() {}
func (Rect) primitive()    {}
func (TextRun) primitive() {}
func (Path) primitive()    {}

// Layout is the final output of a render pass: an ordered primitive
// sequence plus the canvas extent. It holds no references to mutable
// engine state and is safe to serialize or share across goroutines.
type Layout struct {
	Width      float64
	Height     float64
	Primitives []Primitive
}
