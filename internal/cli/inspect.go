package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syntree/syntree/pkg/layout"
	"github.com/syntree/syntree/pkg/pipeline"
	"github.com/syntree/syntree/pkg/render"
	"github.com/syntree/syntree/pkg/tree"
)

// inspectCommand creates the inspect command for examining resolved layouts.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		text     string
		showDOT  bool
		dotSVG   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the tree structure with resolved sizes and positions",
		Long: `Inspect parses a document, resolves its layout, and prints each
node with its subtree width and anchor position. Useful for debugging
spacing issues without opening the rendered output.

With --dot the Graphviz DOT form of the tree is printed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Document: text}
			if len(args) == 1 {
				opts.Path = args[0]
				opts.Document = ""
			}
			return c.runInspect(cmd.Context(), opts, showDOT, dotSVG, detailed)
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "inline document (bracket notation or JSON)")
	cmd.Flags().BoolVar(&showDOT, "dot", false, "print Graphviz DOT instead of the layout table")
	cmd.Flags().StringVar(&dotSVG, "dot-svg", "", "render the DOT view to SVG via Graphviz and write it to this file")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node IDs and leaf counts in DOT output")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, opts pipeline.Options, showDOT bool, dotSVG string, detailed bool) error {
	runner := pipeline.NewRunner(nil, c.Logger)
	defer runner.Close()

	doc, err := runner.Parse(ctx, opts)
	if err != nil {
		return err
	}

	if dotSVG != "" {
		dot := render.ToDOT(doc.Root, render.DOTOptions{Detailed: detailed})
		svg, err := render.GraphvizSVG(ctx, dot)
		if err != nil {
			return err
		}
		out, err := openOutput(dotSVG)
		if err != nil {
			return err
		}
		defer out.Close()
		if _, err := out.Write(svg); err != nil {
			return err
		}
		printFile(dotSVG)
		return nil
	}
	if showDOT {
		fmt.Print(render.ToDOT(doc.Root, render.DOTOptions{Detailed: detailed}))
		return nil
	}

	res, err := runner.ComputeLayout(ctx, doc, opts)
	if err != nil {
		return err
	}

	printKeyValue("nodes", fmt.Sprintf("%d", doc.Root.Count()))
	printKeyValue("depth", fmt.Sprintf("%d", res.Sizes.Depth))
	printKeyValue("canvas", fmt.Sprintf("%.1f × %.1f", res.Layout.Width, res.Layout.Height))
	fmt.Println()

	printNode(doc.Root, res, 0)
	return nil
}

// printNode prints one node and recurses into visible children.
func printNode(n *tree.Node, res *layout.Result, depth int) {
	info := res.Sizes.Info[n]
	pos := res.Positions.At[n]

	label := n.Label.String()
	if n.ID != "" {
		label += StyleDim.Render(" #" + n.ID)
	}
	line := strings.Repeat("  ", depth) + StyleValue.Render(label)
	line += StyleDim.Render(fmt.Sprintf("  w=%.1f at (%.1f, %.1f)", info.SubtreeWidth, pos.X, pos.Y))
	fmt.Println(line)

	if n.Collapsed() {
		fmt.Println(strings.Repeat("  ", depth+1) + StyleDim.Render("△ "+n.Yield()))
		return
	}
	for _, child := range n.Children {
		printNode(child, res, depth+1)
	}
}
