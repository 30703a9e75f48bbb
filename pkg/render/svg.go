package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/syntree/syntree/pkg/layout"
	"github.com/syntree/syntree/pkg/tree"
)

// SVGOption configures SVG serialization.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background  string
	stroke      string
	textColor   string
	strokeWidth float64
	fontFamily  string
}

// WithBackground fills the canvas with the given color. The default is
// a transparent background.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithStroke sets the stroke color for edges, triangles and arrows.
func WithStroke(color string) SVGOption {
	return func(r *svgRenderer) { r.stroke = color }
}

// WithTextColor sets the label fill color.
func WithTextColor(color string) SVGOption {
	return func(r *svgRenderer) { r.textColor = color }
}

// WithStrokeWidth sets the stroke width in user units.
func WithStrokeWidth(w float64) SVGOption {
	return func(r *svgRenderer) { r.strokeWidth = w }
}

// WithFontFamily overrides the font-family attribute on text runs.
func WithFontFamily(family string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = family }
}

// SVG serializes a layout to standalone SVG. The output is
// deterministic: the same layout and options always produce identical
// bytes.
func SVG(l *layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{
		stroke:      "#000",
		textColor:   "#000",
		strokeWidth: 1,
	}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	w, h := px(l.Width), px(l.Height)
	canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))

	if r.background != "" {
		canvas.Rect(0, 0, w, h, "fill:"+r.background)
	}

	for _, p := range l.Primitives {
		r.draw(canvas, p)
	}

	canvas.End()
	return buf.Bytes()
}

func (r *svgRenderer) draw(canvas *svg.SVG, p layout.Primitive) {
	switch v := p.(type) {
	case layout.Line:
		canvas.Line(px(v.From.X), px(v.From.Y), px(v.To.X), px(v.To.Y), r.strokeStyle())

	case layout.Polygon:
		xs := make([]int, len(v.Points))
		ys := make([]int, len(v.Points))
		for i, pt := range v.Points {
			xs[i], ys[i] = px(pt.X), px(pt.Y)
		}
		fill := v.Fill
		if fill == "" {
			fill = "none"
		}
		canvas.Polygon(xs, ys, r.strokeStyle()+";fill:"+fill)

	case layout.Rect:
		style := "stroke:none"
		if v.Fill != "" {
			style = "fill:" + v.Fill
		}
		if v.Opacity > 0 && v.Opacity < 1 {
			style += fmt.Sprintf(";fill-opacity:%.2f", v.Opacity)
		}
		rad := px(v.Radius)
		canvas.Roundrect(px(v.Min.X), px(v.Min.Y),
			px(v.Max.X-v.Min.X), px(v.Max.Y-v.Min.Y), rad, rad, style)

	case layout.TextRun:
		canvas.Text(px(v.Pos.X), px(v.Pos.Y), v.Text, r.textStyle(v))

	case layout.Path:
		r.drawPath(canvas, v)
	}
}

func (r *svgRenderer) drawPath(canvas *svg.SVG, p layout.Path) {
	pts := p.Points
	switch p.Kind {
	case layout.PathQuadratic:
		if len(pts) == 3 {
			canvas.Qbez(px(pts[0].X), px(pts[0].Y), px(pts[1].X), px(pts[1].Y),
				px(pts[2].X), px(pts[2].Y), r.strokeStyle()+";fill:none")
			return
		}
	case layout.PathCubic:
		if len(pts) == 4 {
			canvas.Bezier(px(pts[0].X), px(pts[0].Y), px(pts[1].X), px(pts[1].Y),
				px(pts[2].X), px(pts[2].Y), px(pts[3].X), px(pts[3].Y),
				r.strokeStyle()+";fill:none")
			return
		}
	}
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, pt := range pts {
		xs[i], ys[i] = px(pt.X), px(pt.Y)
	}
	canvas.Polyline(xs, ys, r.strokeStyle()+";fill:none")
}

func (r *svgRenderer) strokeStyle() string {
	return fmt.Sprintf("stroke:%s;stroke-width:%s;stroke-linecap:round",
		r.stroke, fmtFloat(r.strokeWidth))
}

func (r *svgRenderer) textStyle(t layout.TextRun) string {
	family := t.Font.Family
	if r.fontFamily != "" {
		family = r.fontFamily
	}

	parts := []string{
		"font-family:" + family,
		"font-size:" + fmtFloat(t.Font.Size) + "px",
		"fill:" + r.textColor,
	}
	switch t.Anchor {
	case tree.AlignLeft:
		parts = append(parts, "text-anchor:start")
	case tree.AlignRight:
		parts = append(parts, "text-anchor:end")
	default:
		parts = append(parts, "text-anchor:middle")
	}
	if t.Font.Weight == tree.WeightBold {
		parts = append(parts, "font-weight:bold")
	}
	if t.Font.Style != "" {
		parts = append(parts, "font-style:"+t.Font.Style)
	}
	return strings.Join(parts, ";")
}

// px rounds a user-unit coordinate to the nearest integer pixel. SVG
// could carry floats, but integer output keeps files small and byte
// comparisons stable across platforms.
func px(v float64) int {
	return int(math.Round(v))
}

func fmtFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
