package render

import (
	"bytes"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/syntree/syntree/pkg/errors"
	"github.com/syntree/syntree/pkg/layout"
	"github.com/syntree/syntree/pkg/tree"
)

var (
	regularFont     *opentype.Font
	regularFontErr  error
	regularFontOnce sync.Once
)

func loadFont() (*opentype.Font, error) {
	regularFontOnce.Do(func() {
		regularFont, regularFontErr = opentype.Parse(goregular.TTF)
	})
	if regularFontErr != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, regularFontErr, "parse bundled font")
	}
	return regularFont, nil
}

// PNG rasters a layout natively at the given scale factor, with no
// external tooling. Text is drawn with the bundled Go Regular face, so
// glyph widths differ slightly from the SVG output's font stack; for
// pixel-faithful conversion of the SVG, use [ToPNG] instead.
func PNG(l *layout.Layout, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	fnt, err := loadFont()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(int(l.Width*scale), int(l.Height*scale))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Scale(scale, scale)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)

	faces := map[float64]font.Face{}
	faceFor := func(size float64) (font.Face, error) {
		if f, ok := faces[size]; ok {
			return f, nil
		}
		f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
			Size: size, DPI: 72, Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "font face at %gpx", size)
		}
		faces[size] = f
		return f, nil
	}

	for _, p := range l.Primitives {
		if err := rasterize(dc, p, faceFor); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func rasterize(dc *gg.Context, p layout.Primitive, faceFor func(float64) (font.Face, error)) error {
	switch v := p.(type) {
	case layout.Line:
		dc.DrawLine(v.From.X, v.From.Y, v.To.X, v.To.Y)
		dc.Stroke()

	case layout.Polygon:
		for i, pt := range v.Points {
			if i == 0 {
				dc.MoveTo(pt.X, pt.Y)
			} else {
				dc.LineTo(pt.X, pt.Y)
			}
		}
		dc.ClosePath()
		dc.Stroke()

	case layout.Rect:
		if v.Fill == "" {
			return nil
		}
		dc.Push()
		dc.SetRGBA(0.6, 0.6, 0.6, clampOpacity(v.Opacity))
		dc.DrawRoundedRectangle(v.Min.X, v.Min.Y, v.Max.X-v.Min.X, v.Max.Y-v.Min.Y, v.Radius)
		dc.Fill()
		dc.Pop()

	case layout.TextRun:
		face, err := faceFor(v.Font.Size)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		ax := 0.5
		switch v.Anchor {
		case tree.AlignLeft:
			ax = 0
		case tree.AlignRight:
			ax = 1
		}
		// gg anchors at the baseline when ay=0, matching the primitive's
		// baseline Pos.
		dc.DrawStringAnchored(v.Text, v.Pos.X, v.Pos.Y, ax, 0)

	case layout.Path:
		rasterizePath(dc, v)
	}
	return nil
}

func rasterizePath(dc *gg.Context, p layout.Path) {
	pts := p.Points
	if len(pts) < 2 {
		return
	}
	dc.MoveTo(pts[0].X, pts[0].Y)
	switch {
	case p.Kind == layout.PathQuadratic && len(pts) == 3:
		dc.QuadraticTo(pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
	case p.Kind == layout.PathCubic && len(pts) == 4:
		dc.CubicTo(pts[1].X, pts[1].Y, pts[2].X, pts[2].Y, pts[3].X, pts[3].Y)
	default:
		for _, pt := range pts[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
	}
	dc.Stroke()
}

func clampOpacity(o float64) float64 {
	if o <= 0 || o > 1 {
		return 0.25
	}
	return o
}
