package layout

import (
	"github.com/syntree/syntree/pkg/errors"
)

// Default layout parameters, in user units (CSS pixels in the SVG output).
const (
	DefaultFontSize   = 16.0
	DefaultSiblingGap = 16.0
	DefaultLevelGap   = 28.0
	DefaultMargin     = 8.0

	// DefaultFontFamily approximates the metrics table in metrics.go.
	DefaultFontFamily = "Helvetica, Arial, sans-serif"
)

// ArrowStyle selects how movement arrows are routed.
type ArrowStyle int

const (
	// ArrowDefault defers to Options.ArrowStyle (curved when unset).
	ArrowDefault ArrowStyle = iota
	// ArrowCurved routes same-level arrows as a quadratic arc below the
	// baselines and cross-level arrows as a smooth curve.
	ArrowCurved
	// ArrowBent routes arrows as right-angled polylines.
	ArrowBent
)

// Options configures a single layout pass. The zero value is not usable;
// call ValidateAndSetDefaults (or start from DefaultOptions) first. All
// fields are pure inputs; the engine reads no environment state.
type Options struct {
	// SiblingGap is the horizontal spacing between adjacent subtrees.
	SiblingGap float64

	// LevelGap is the vertical spacing between consecutive depth levels,
	// added on top of the tallest label height at each level.
	LevelGap float64

	// FontSize and FontFamily are the defaults for nodes without style
	// overrides.
	FontSize   float64
	FontFamily string

	// Margin is the padding between the tree and the canvas edge.
	Margin float64

	// ArrowStyle is the default routing for movement arrows; individual
	// requests may override it.
	ArrowStyle ArrowStyle

	// AlignLeaves pushes all terminal nodes down to the deepest level so
	// the yield reads as a single row.
	AlignLeaves bool

	// ElbowDescent draws multi-level descents (which AlignLeaves can
	// produce) as an angled segment to the next level followed by a
	// vertical drop. The default is a single straight edge.
	ElbowDescent bool

	// Metrics estimates text extents. Nil selects the built-in heuristic
	// table; environments with access to real font metrics can plug in
	// their own implementation.
	Metrics Estimator

	validated bool
}

// DefaultOptions returns the options used when none are supplied.
func DefaultOptions() Options {
	o := Options{}
	o.setDefaults()
	return o
}

func (o *Options) setDefaults() {
	if o.SiblingGap == 0 {
		o.SiblingGap = DefaultSiblingGap
	}
	if o.LevelGap == 0 {
		o.LevelGap = DefaultLevelGap
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.FontFamily == "" {
		o.FontFamily = DefaultFontFamily
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Metrics == nil {
		o.Metrics = Heuristic{}
	}
	if o.ArrowStyle == ArrowDefault {
		o.ArrowStyle = ArrowCurved
	}
	o.validated = true
}

// ValidateAndSetDefaults checks option domains and fills in defaults.
// It is idempotent. A value outside its valid domain yields an
// INVALID_CONFIG error.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.SiblingGap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "sibling gap must be >= 0, got %g", o.SiblingGap)
	}
	if o.LevelGap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "level gap must be >= 0, got %g", o.LevelGap)
	}
	if o.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font size must be >= 0, got %g", o.FontSize)
	}
	if o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margin must be >= 0, got %g", o.Margin)
	}
	if o.ArrowStyle < ArrowDefault || o.ArrowStyle > ArrowBent {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown arrow style %d", o.ArrowStyle)
	}
	o.setDefaults()
	return nil
}
