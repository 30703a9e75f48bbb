// Package io provides document import and export for constituent trees.
//
// # Overview
//
// A document bundles everything one render needs: the tree itself, the
// decoration set (movement arrows, highlight boxes, underlines) and
// layout options. Two input syntaxes are supported:
//
//   - JSON documents, the full-fidelity format
//   - bracket notation, the compact linguist-friendly syntax
//     ("(S (NP the elephant) (VP saw ...))")
//
// # JSON Format
//
//	{
//	  "tree": {
//	    "label": "S",
//	    "children": [
//	      {"label": "NP", "id": "subj", "children": [{"label": "we"}]},
//	      {"label": "VP", "children": [{"label": "left"}]}
//	    ]
//	  },
//	  "annotations": {
//	    "arrows": [{"source": "a", "target": "b"}],
//	    "boxes": [{"node": "subj", "fill": "#def"}]
//	  },
//	  "options": {"font_size": 16, "align_leaves": true}
//	}
//
// # Node Fields
//
// Required:
//   - label: a string, or an array of strings for multi-line labels
//
// Optional:
//   - id: identity for annotation references; must be unique
//   - children: daughter nodes in order
//   - style: per-subtree overrides (font_size, bold, italic, align,
//     collapse); inherited by descendants except collapse
//
// # Round-trip
//
// [Write] emits the same format [Read] accepts, preserving IDs, styles,
// annotations and options, so a document can be imported, rendered,
// exported and re-imported identically. Bracket input loses nothing on
// import but exports as JSON.
package io
