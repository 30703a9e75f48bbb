// Package layout turns constituent trees into ordered vector drawing
// primitives in a single deterministic pass: sizes bottom-up, positions
// top-down, then decorations. No I/O, no randomness, no global state.
package layout

import (
	"github.com/syntree/syntree/pkg/tree"
)

// Result bundles the final primitive sequence with the intermediate
// passes, which callers like the inspect command and the JSON exporter
// want access to.
type Result struct {
	Layout    *Layout
	Sizes     *Sizes
	Positions *Positions
}

// Resolve lays out a tree with its annotations. On any error the result
// is nil: there is no partially resolved output.
//
// The returned Layout is immutable and safe to share across goroutines;
// laying out the same tree with the same options always produces the
// same primitive sequence.
func Resolve(root *tree.Node, ann Annotations, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}

	sizes, err := ResolveSizes(root, opts)
	if err != nil {
		return nil, err
	}
	pos, err := ResolvePositions(root, sizes, opts)
	if err != nil {
		return nil, err
	}

	a := &annotator{root: root, sizes: sizes, pos: pos, opts: opts}
	if err := a.run(ann); err != nil {
		return nil, err
	}

	return &Result{
		Layout: &Layout{
			Width:      pos.Width,
			Height:     a.height,
			Primitives: a.prims,
		},
		Sizes:     sizes,
		Positions: pos,
	}, nil
}

// Build is the common case: layout without annotations.
func Build(root *tree.Node, opts Options) (*Result, error) {
	return Resolve(root, Annotations{}, opts)
}
