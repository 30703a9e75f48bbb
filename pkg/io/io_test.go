package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/syntree/syntree/pkg/errors"
	"github.com/syntree/syntree/pkg/layout"
	"github.com/syntree/syntree/pkg/tree"
)

const sampleJSON = `{
  "tree": {
    "label": "S",
    "children": [
      {"label": "NP", "id": "subj", "children": [{"label": "we"}]},
      {"label": "VP", "style": {"bold": true}, "children": [{"label": "left", "id": "v"}]}
    ]
  },
  "annotations": {
    "arrows": [{"source": "v", "target": "subj"}]
  },
  "options": {"font_size": 14, "align_leaves": true, "arrow_style": "bent"}
}`

func TestReadDocument(t *testing.T) {
	doc, err := Read(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got := doc.Root.Label.String(); got != "S" {
		t.Errorf("root label = %q, want S", got)
	}
	if got := doc.Root.Yield(); got != "we left" {
		t.Errorf("yield = %q, want %q", got, "we left")
	}
	if _, ok := doc.Root.ByID("subj"); !ok {
		t.Error("id subj not resolvable")
	}
	vp := doc.Root.Children[1]
	if vp.Style == nil || vp.Style.Weight != tree.WeightBold {
		t.Error("VP bold style lost")
	}
	if len(doc.Annotations.Arrows) != 1 {
		t.Fatalf("arrows = %d, want 1", len(doc.Annotations.Arrows))
	}

	opts, err := doc.Options.ToLayout()
	if err != nil {
		t.Fatalf("ToLayout: %v", err)
	}
	if opts.FontSize != 14 || !opts.AlignLeaves || opts.ArrowStyle != layout.ArrowBent {
		t.Errorf("options not mapped: %+v", opts)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{name: "not json", input: "((", code: errors.ErrCodeInvalidDocument},
		{name: "no tree", input: `{"annotations": {}}`, code: errors.ErrCodeInvalidDocument},
		{name: "unknown field", input: `{"tree": {"label": "S"}, "bogus": 1}`, code: errors.ErrCodeInvalidDocument},
		{name: "empty leaf label", input: `{"tree": {"label": "S", "children": [{"label": ""}]}}`, code: errors.ErrCodeInvalidDocument},
		{
			name:  "duplicate ids",
			input: `{"tree": {"label": "S", "children": [{"label": "a", "id": "x"}, {"label": "b", "id": "x"}]}}`,
			code:  errors.ErrCodeInvalidDocument,
		},
		{
			name:  "bad align",
			input: `{"tree": {"label": "S", "style": {"align": "up"}, "children": [{"label": "a"}]}}`,
			code:  errors.ErrCodeInvalidDocument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input)); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestEmptyLeafLabelRejected(t *testing.T) {
	// A constituent may omit its label; a terminal may not.
	in := `{"tree": {"label": "", "children": [{"label": "ok"}]}}`
	if _, err := Read(strings.NewReader(in)); err != nil {
		t.Errorf("label-less constituent rejected: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := Read(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("re-Read: %v", err)
	}
	if back.Root.Yield() != doc.Root.Yield() {
		t.Errorf("yield changed: %q -> %q", doc.Root.Yield(), back.Root.Yield())
	}
	if len(back.Annotations.Arrows) != 1 {
		t.Error("annotations lost in round trip")
	}
	if back.Options != doc.Options {
		t.Errorf("options changed: %+v -> %+v", doc.Options, back.Options)
	}
	vp := back.Root.Children[1]
	if vp.Style == nil || vp.Style.Weight != tree.WeightBold {
		t.Error("style lost in round trip")
	}
}

func TestMultiLineLabelForms(t *testing.T) {
	in := `{"tree": {"label": ["word", "N"], "children": []}}`
	doc, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(doc.Root.Label.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(doc.Root.Label.Lines))
	}

	in = `{"tree": {"label": "word\nN"}}`
	doc, err = Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(doc.Root.Label.Lines) != 2 {
		t.Fatalf("newline string lines = %d, want 2", len(doc.Root.Label.Lines))
	}
}

func TestImportString(t *testing.T) {
	doc, err := ImportString("(S (NP we) (VP left))")
	if err != nil {
		t.Fatalf("ImportString bracket: %v", err)
	}
	if doc.Root.Yield() != "we left" {
		t.Errorf("bracket yield = %q", doc.Root.Yield())
	}

	doc, err = ImportString(`{"tree": {"label": "S", "children": [{"label": "hi"}]}}`)
	if err != nil {
		t.Fatalf("ImportString json: %v", err)
	}
	if doc.Root.Yield() != "hi" {
		t.Errorf("json yield = %q", doc.Root.Yield())
	}
}

func TestInvalidArrowStyle(t *testing.T) {
	o := Options{ArrowStyle: "zigzag"}
	if _, err := o.ToLayout(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}
