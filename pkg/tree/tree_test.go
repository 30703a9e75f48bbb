package tree

import (
	"testing"

	"github.com/syntree/syntree/pkg/errors"
)

func sample() *Node {
	return New("S",
		New("NP", NewLeaf("the"), NewLeaf("elephant")),
		New("VP", NewLeaf("saw"), New("NP", NewLeaf("the"), NewLeaf("rhinoceros"))),
	)
}

func TestDepthAndCount(t *testing.T) {
	root := sample()
	if got := root.Depth(); got != 4 {
		t.Errorf("Depth() = %d, want 4", got)
	}
	if got := root.Count(); got != 9 {
		t.Errorf("Count() = %d, want 9", got)
	}
	if got := NewLeaf("w").Depth(); got != 1 {
		t.Errorf("leaf Depth() = %d, want 1", got)
	}
}

func TestYield(t *testing.T) {
	root := sample()
	want := "the elephant saw the rhinoceros"
	if got := root.Yield(); got != want {
		t.Errorf("Yield() = %q, want %q", got, want)
	}
	if got := root.Children[0].Yield(); got != "the elephant" {
		t.Errorf("NP Yield() = %q", got)
	}
}

func TestWalkPaths(t *testing.T) {
	root := sample()
	paths := make(map[string][]int)
	root.Walk(func(n *Node, path []int) bool {
		if n.IsLeaf() {
			paths[n.Label.String()+"/"+itoa(path)] = path
		}
		return true
	})
	// Sibling visits must not alias each other's paths.
	if len(paths) != 5 {
		t.Fatalf("visited %d leaves, want 5", len(paths))
	}
}

func itoa(path []int) string {
	s := ""
	for _, p := range path {
		s += string(rune('0' + p))
	}
	return s
}

func TestAtPath(t *testing.T) {
	root := sample()

	n, err := root.AtPath([]int{1, 1, 0})
	if err != nil {
		t.Fatalf("AtPath: %v", err)
	}
	if got := n.Label.String(); got != "the" {
		t.Errorf("AtPath(1,1,0) = %q, want %q", got, "the")
	}

	if _, err := root.AtPath([]int{5}); !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Errorf("invalid path error = %v, want UNKNOWN_NODE", err)
	}

	self, err := root.AtPath(nil)
	if err != nil || self != root {
		t.Error("empty path should resolve to the root")
	}
}

func TestByID(t *testing.T) {
	root := sample()
	root.Children[1].ID = "vp"

	n, ok := root.ByID("vp")
	if !ok || n.Label.String() != "VP" {
		t.Errorf("ByID(vp) = %v, %v", n, ok)
	}
	if _, ok := root.ByID("missing"); ok {
		t.Error("ByID should miss unknown ids")
	}
}

func TestValidateRejectsSharedChild(t *testing.T) {
	shared := NewLeaf("shared")
	root := New("S", New("A", shared), New("B", shared))

	err := root.Validate()
	if !errors.Is(err, errors.ErrCodeBadStructure) {
		t.Errorf("Validate() = %v, want BAD_STRUCTURE", err)
	}
}

func TestValidateRejectsCycle(t *testing.T) {
	a := New("A")
	b := New("B", a)
	a.Children = append(a.Children, b)

	if err := a.Validate(); !errors.Is(err, errors.ErrCodeBadStructure) {
		t.Errorf("Validate() = %v, want BAD_STRUCTURE", err)
	}
}

func TestStyleMerge(t *testing.T) {
	parent := &NodeStyle{FontSize: 14, Weight: WeightBold, SetWeight: true}

	tests := []struct {
		name  string
		child *NodeStyle
		want  NodeStyle
	}{
		{
			name:  "nil child inherits all but collapse",
			child: nil,
			want:  NodeStyle{FontSize: 14, Weight: WeightBold, SetWeight: true},
		},
		{
			name:  "child font size wins",
			child: &NodeStyle{FontSize: 10},
			want:  NodeStyle{FontSize: 10, Weight: WeightBold, SetWeight: true},
		},
		{
			name:  "collapse does not inherit",
			child: &NodeStyle{Collapse: true},
			want:  NodeStyle{FontSize: 14, Weight: WeightBold, SetWeight: true, Collapse: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Merge(parent, tt.child); got != tt.want {
				t.Errorf("Merge() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromList(t *testing.T) {
	root, err := FromList([]any{
		"S",
		[]any{"NP", "the", "elephant"},
		[]any{"VP", "saw", []any{"NP", "the", "rhinoceros"}},
	})
	if err != nil {
		t.Fatalf("FromList: %v", err)
	}
	if got := root.Label.String(); got != "S" {
		t.Errorf("root label = %q", got)
	}
	if got := root.Yield(); got != "the elephant saw the rhinoceros" {
		t.Errorf("Yield() = %q", got)
	}
	if got := root.Depth(); got != 4 {
		t.Errorf("Depth() = %d, want 4", got)
	}
}

func TestFromListErrors(t *testing.T) {
	if _, err := FromList([]any{42, "x"}); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("non-string head error = %v", err)
	}
	if _, err := FromList(3.14); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("unsupported type error = %v", err)
	}
}

func TestFromListEmptySequence(t *testing.T) {
	n, err := FromList([]any{})
	if err != nil {
		t.Fatalf("FromList(empty): %v", err)
	}
	if !n.IsLeaf() || n.Label.String() != "" {
		t.Errorf("empty sequence should become an empty leaf, got %+v", n)
	}
}

type fakeSource struct {
	label string
	kids  []Source
}

func (f fakeSource) Label() string      { return f.label }
func (f fakeSource) Children() []Source { return f.kids }

func TestBuildFromSource(t *testing.T) {
	src := fakeSource{label: "S", kids: []Source{
		fakeSource{label: "NP", kids: []Source{fakeSource{label: "we"}}},
		fakeSource{label: "VP", kids: []Source{fakeSource{label: "left"}}},
	}}

	root, err := Build(src)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := root.Yield(); got != "we left" {
		t.Errorf("Yield() = %q", got)
	}
	if len(root.Children) != 2 {
		t.Errorf("children = %d, want 2", len(root.Children))
	}
}
