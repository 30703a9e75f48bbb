package render

import (
	"encoding/json"

	"github.com/syntree/syntree/pkg/layout"
)

// jsonPrimitive tags each primitive with its kind so consumers can
// dispatch without relying on field shapes.
type jsonPrimitive struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

type jsonLayout struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Primitives []jsonPrimitive `json:"primitives"`
}

// JSON serializes a layout as an indented JSON document: canvas extent
// plus the ordered primitive sequence, each entry tagged with its kind.
func JSON(l *layout.Layout) ([]byte, error) {
	out := jsonLayout{
		Width:      l.Width,
		Height:     l.Height,
		Primitives: make([]jsonPrimitive, 0, len(l.Primitives)),
	}
	for _, p := range l.Primitives {
		out.Primitives = append(out.Primitives, jsonPrimitive{Kind: kindOf(p), Data: p})
	}
	return json.MarshalIndent(out, "", "  ")
}

func kindOf(p layout.Primitive) string {
	switch p.(type) {
	case layout.Line:
		return "line"
	case layout.Polygon:
		return "polygon"
	case layout.Rect:
		return "rect"
	case layout.TextRun:
		return "text"
	case layout.Path:
		return "path"
	default:
		return "unknown"
	}
}
