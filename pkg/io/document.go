package io

import (
	"github.com/syntree/syntree/pkg/errors"
	"github.com/syntree/syntree/pkg/layout"
	"github.com/syntree/syntree/pkg/tree"
)

// Document is a complete render request: tree, decorations, options.
type Document struct {
	Root        *tree.Node
	Annotations layout.Annotations
	Options     Options
}

// Options is the serializable form of [layout.Options]. Zero values
// defer to the engine defaults.
type Options struct {
	SiblingGap   float64 `json:"sibling_gap,omitempty" toml:"sibling_gap"`
	LevelGap     float64 `json:"level_gap,omitempty" toml:"level_gap"`
	FontSize     float64 `json:"font_size,omitempty" toml:"font_size"`
	FontFamily   string  `json:"font_family,omitempty" toml:"font_family"`
	Margin       float64 `json:"margin,omitempty" toml:"margin"`
	ArrowStyle   string  `json:"arrow_style,omitempty" toml:"arrow_style"`
	AlignLeaves  bool    `json:"align_leaves,omitempty" toml:"align_leaves"`
	ElbowDescent bool    `json:"elbow_descent,omitempty" toml:"elbow_descent"`
}

// ToLayout converts the document options to engine options. Unknown
// arrow styles yield INVALID_CONFIG.
func (o Options) ToLayout() (layout.Options, error) {
	out := layout.Options{
		SiblingGap:   o.SiblingGap,
		LevelGap:     o.LevelGap,
		FontSize:     o.FontSize,
		FontFamily:   o.FontFamily,
		Margin:       o.Margin,
		AlignLeaves:  o.AlignLeaves,
		ElbowDescent: o.ElbowDescent,
	}
	switch o.ArrowStyle {
	case "":
		out.ArrowStyle = layout.ArrowDefault
	case "curved":
		out.ArrowStyle = layout.ArrowCurved
	case "bent":
		out.ArrowStyle = layout.ArrowBent
	default:
		return layout.Options{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown arrow style %q (want curved or bent)", o.ArrowStyle)
	}
	return out, nil
}

// jsonDocument is the wire shape of a document.
type jsonDocument struct {
	Tree        *jsonNode          `json:"tree"`
	Annotations layout.Annotations `json:"annotations,omitempty"`
	Options     *Options           `json:"options,omitempty"`
}

// jsonNode is the wire shape of a tree node. Label accepts either a
// string or an array of line strings.
type jsonNode struct {
	ID       string     `json:"id,omitempty"`
	Label    jsonLabel  `json:"label"`
	Style    *jsonStyle `json:"style,omitempty"`
	Children []jsonNode `json:"children,omitempty"`
}

type jsonStyle struct {
	FontSize float64 `json:"font_size,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
	Italic   bool    `json:"italic,omitempty"`
	Align    string  `json:"align,omitempty"`
	Collapse bool    `json:"collapse,omitempty"`
}

func (s *jsonStyle) toStyle() (*tree.NodeStyle, error) {
	if s == nil {
		return nil, nil
	}
	out := &tree.NodeStyle{
		FontSize: s.FontSize,
		Collapse: s.Collapse,
	}
	if s.Bold {
		out.Weight = tree.WeightBold
		out.SetWeight = true
	}
	if s.Italic {
		out.Style = "italic"
	}
	switch s.Align {
	case "":
	case "center":
		out.Align = tree.AlignCenter
		out.SetAlign = true
	case "left":
		out.Align = tree.AlignLeft
		out.SetAlign = true
	case "right":
		out.Align = tree.AlignRight
		out.SetAlign = true
	default:
		return nil, errors.New(errors.ErrCodeInvalidDocument,
			"unknown align %q (want left, center or right)", s.Align)
	}
	return out, nil
}

func styleToJSON(s *tree.NodeStyle) *jsonStyle {
	if s == nil {
		return nil
	}
	out := &jsonStyle{
		FontSize: s.FontSize,
		Bold:     s.Weight == tree.WeightBold,
		Italic:   s.Style == "italic",
		Collapse: s.Collapse,
	}
	if s.SetAlign {
		switch s.Align {
		case tree.AlignLeft:
			out.Align = "left"
		case tree.AlignRight:
			out.Align = "right"
		default:
			out.Align = "center"
		}
	}
	return out
}

func (n *jsonNode) toNode() (*tree.Node, error) {
	empty := tree.StyledText{Lines: n.Label.Lines}.IsEmpty()
	if empty && len(n.Children) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "leaf node with empty label")
	}

	style, err := n.Style.toStyle()
	if err != nil {
		return nil, err
	}
	node := &tree.Node{
		ID:    n.ID,
		Label: tree.StyledText{Lines: n.Label.Lines},
		Style: style,
	}
	if len(node.Label.Lines) == 0 {
		node.Label.Lines = []string{""}
	}
	for i := range n.Children {
		child, err := n.Children[i].toNode()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func nodeToJSON(n *tree.Node) jsonNode {
	out := jsonNode{
		ID:    n.ID,
		Label: jsonLabel{Lines: n.Label.Lines},
		Style: styleToJSON(n.Style),
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, nodeToJSON(c))
	}
	return out
}
