package layout

import (
	"github.com/syntree/syntree/pkg/tree"
)

// lineHeightRatio converts a font size into the vertical space one line
// of text occupies.
const lineHeightRatio = 1.25

// ascentRatio is the distance from the top of a line box to its baseline.
const ascentRatio = 0.8

// boldWidthRatio widens bold text relative to normal weight.
const boldWidthRatio = 1.06

// fallbackCharWidth is the advance width, in ems, assumed for runes not
// present in the width table.
const fallbackCharWidth = 0.6

// charWidths maps runes to advance widths in ems, approximating a common
// sans-serif face (Helvetica). The table only needs to be good enough
// for collision-free layout: the renderer never measures real glyphs, so
// widths here err slightly wide.
var charWidths = map[rune]float64{
	' ': 0.28, '!': 0.28, '"': 0.36, '\'': 0.19, '(': 0.33, ')': 0.33,
	',': 0.28, '-': 0.33, '.': 0.28, '/': 0.28, ':': 0.28, ';': 0.28,
	'[': 0.28, ']': 0.28, '_': 0.56, '|': 0.26,

	'0': 0.56, '1': 0.56, '2': 0.56, '3': 0.56, '4': 0.56,
	'5': 0.56, '6': 0.56, '7': 0.56, '8': 0.56, '9': 0.56,

	'a': 0.56, 'b': 0.56, 'c': 0.5, 'd': 0.56, 'e': 0.56, 'f': 0.28,
	'g': 0.56, 'h': 0.56, 'i': 0.22, 'j': 0.22, 'k': 0.5, 'l': 0.22,
	'm': 0.83, 'n': 0.56, 'o': 0.56, 'p': 0.56, 'q': 0.56, 'r': 0.33,
	's': 0.5, 't': 0.28, 'u': 0.56, 'v': 0.5, 'w': 0.72, 'x': 0.5,
	'y': 0.5, 'z': 0.5,

	'A': 0.67, 'B': 0.67, 'C': 0.72, 'D': 0.72, 'E': 0.67, 'F': 0.61,
	'G': 0.78, 'H': 0.72, 'I': 0.28, 'J': 0.5, 'K': 0.67, 'L': 0.56,
	'M': 0.83, 'N': 0.72, 'O': 0.78, 'P': 0.67, 'Q': 0.78, 'R': 0.72,
	'S': 0.67, 'T': 0.61, 'U': 0.72, 'V': 0.67, 'W': 0.94, 'X': 0.67,
	'Y': 0.67, 'Z': 0.61,
}

// Estimator estimates the rendered extent of a styled label. The layout
// engine has no feedback loop to real glyph measurements, so the
// estimate must be deterministic and monotonic: growing the font size or
// appending characters may never shrink the result. SizeResolver's
// non-overlap guarantee depends on that monotonicity.
type Estimator interface {
	// EstimateExtent returns the width and height of the label in user
	// units. The label's font size must already be resolved (non-zero).
	// An empty label yields zero width and a single line height.
	EstimateExtent(text tree.StyledText) (w, h float64)
}

// Heuristic is the default Estimator: a static per-character width table
// scaled by font size. Pure, never fails.
type Heuristic struct{}

// EstimateExtent implements Estimator.
func (Heuristic) EstimateExtent(text tree.StyledText) (w, h float64) {
	size := text.Font.Size
	if size <= 0 {
		size = DefaultFontSize
	}

	lines := text.Lines
	if len(lines) == 0 {
		lines = []string{""}
	}

	var maxEm float64
	for _, line := range lines {
		var em float64
		for _, r := range line {
			cw, ok := charWidths[r]
			if !ok {
				cw = fallbackCharWidth
			}
			em += cw
		}
		if em > maxEm {
			maxEm = em
		}
	}

	if text.Font.Weight == tree.WeightBold {
		maxEm *= boldWidthRatio
	}

	return maxEm * size, float64(len(lines)) * LineHeight(size)
}

// LineHeight returns the vertical space one text line occupies at the
// given font size.
func LineHeight(fontSize float64) float64 {
	return fontSize * lineHeightRatio
}

// Baseline returns the offset from the top of a line box to the text
// baseline at the given font size.
func Baseline(fontSize float64) float64 {
	return fontSize * lineHeightRatio * ascentRatio
}

var _ Estimator = Heuristic{}
