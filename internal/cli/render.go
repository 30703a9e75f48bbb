package cli

import (
	"context"
	"fmt"
	stdio "io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syntree/syntree/pkg/errors"
	"github.com/syntree/syntree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file path (or base path for multiple formats)
	formatsStr string // comma-separated output formats
	text       string // inline document text (bracket or JSON)
	configPath string // TOML config file
	noCache    bool   // disable the artifact cache
	refresh    bool   // bypass cached artifacts and re-render
}

// renderCommand creates the render command for generating tree diagrams.
//
// Input comes from a file argument, --text, or a config file. Layout
// flags override options carried by the document; the config file sits
// below both.
func (c *CLI) renderCommand() *cobra.Command {
	var ropts renderOpts
	var popts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a constituent tree to SVG, PNG, PDF, JSON, or DOT",
		Long: `Render a constituent tree to one or more output formats.

The input is a bracket-notation string like

  (S (NP the elephant) (VP saw (NP the rhinoceros)))

or a JSON document with a tree, annotations, and layout options. Input
is read from the file argument, from --text, or from a TOML config
file given with --config.

Rendered artifacts are cached locally; use --refresh to force a
re-render or --no-cache to disable caching entirely.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildPipelineOptions(cmd, args, &ropts, popts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, &ropts)
		},
	}

	cmd.Flags().StringVarP(&ropts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ropts.formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&ropts.text, "text", "t", "", "inline document (bracket notation or JSON)")
	cmd.Flags().StringVar(&ropts.configPath, "config", "", "TOML config file with pipeline options")
	cmd.Flags().BoolVar(&ropts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&ropts.refresh, "refresh", false, "bypass cached artifacts")

	cmd.Flags().StringVar(&popts.Background, "background", "", "canvas background color (e.g. #ffffff)")
	cmd.Flags().Float64Var(&popts.Scale, "scale", 0, "PNG scale factor (default 2)")

	cmd.Flags().Float64Var(&popts.LayoutOptions.FontSize, "font-size", 0, "label font size in points")
	cmd.Flags().StringVar(&popts.LayoutOptions.FontFamily, "font-family", "", "label font family")
	cmd.Flags().Float64Var(&popts.LayoutOptions.SiblingGap, "sibling-gap", 0, "horizontal gap between sibling subtrees")
	cmd.Flags().Float64Var(&popts.LayoutOptions.LevelGap, "level-gap", 0, "vertical gap between tree levels")
	cmd.Flags().Float64Var(&popts.LayoutOptions.Margin, "margin", 0, "canvas margin")
	cmd.Flags().StringVar(&popts.LayoutOptions.ArrowStyle, "arrow-style", "", "movement arrow style: curved (default), bent")
	cmd.Flags().BoolVar(&popts.LayoutOptions.AlignLeaves, "align-leaves", false, "push all terminals to the bottom row")
	cmd.Flags().BoolVar(&popts.LayoutOptions.ElbowDescent, "elbow-descent", false, "route long edges straight down after one level")

	return cmd
}

// buildPipelineOptions layers flag values over an optional config file.
// Flags the user actually set win; config values fill the rest.
func buildPipelineOptions(cmd *cobra.Command, args []string, ropts *renderOpts, flagOpts pipeline.Options) (pipeline.Options, error) {
	opts := flagOpts
	if ropts.configPath != "" {
		loaded, err := pipeline.LoadOptions(ropts.configPath)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts = overlayOptions(loaded, flagOpts, cmd)
	}

	if len(args) == 1 {
		opts.Path = args[0]
		opts.Document = ""
	}
	if ropts.text != "" {
		opts.Document = ropts.text
		opts.Path = ""
	}
	if cmd.Flags().Changed("format") || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(ropts.formatsStr)
	}
	opts.Refresh = opts.Refresh || ropts.refresh
	return opts, nil
}

// overlayOptions applies explicitly-set flags over config-file options.
func overlayOptions(base, flags pipeline.Options, cmd *cobra.Command) pipeline.Options {
	set := cmd.Flags().Changed
	if set("background") {
		base.Background = flags.Background
	}
	if set("scale") {
		base.Scale = flags.Scale
	}
	if set("font-size") {
		base.LayoutOptions.FontSize = flags.LayoutOptions.FontSize
	}
	if set("font-family") {
		base.LayoutOptions.FontFamily = flags.LayoutOptions.FontFamily
	}
	if set("sibling-gap") {
		base.LayoutOptions.SiblingGap = flags.LayoutOptions.SiblingGap
	}
	if set("level-gap") {
		base.LayoutOptions.LevelGap = flags.LayoutOptions.LevelGap
	}
	if set("margin") {
		base.LayoutOptions.Margin = flags.LayoutOptions.Margin
	}
	if set("arrow-style") {
		base.LayoutOptions.ArrowStyle = flags.LayoutOptions.ArrowStyle
	}
	if set("align-leaves") {
		base.LayoutOptions.AlignLeaves = flags.LayoutOptions.AlignLeaves
	}
	if set("elbow-descent") {
		base.LayoutOptions.ElbowDescent = flags.LayoutOptions.ElbowDescent
	}
	return base
}

// runRender executes the pipeline and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, ropts *renderOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ropts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		printError("Render failed: %v", err)
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(res.Artifacts)))

	if err := writeArtifacts(res.Artifacts, opts.Formats, ropts.output, inputName(opts)); err != nil {
		return err
	}
	printStats(res.Stats.NodeCount, len(res.Document.Annotations.Arrows), res.CacheInfo.RenderHit)
	return nil
}

// inputName derives a default output base name from the input.
func inputName(opts pipeline.Options) string {
	if opts.Path != "" {
		return opts.Path
	}
	return "tree"
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output has
// a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes each rendered format to its own file. With a
// single format, "-" as output streams to stdout.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) error {
	if len(formats) == 1 && output == "-" {
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return err
	}

	base := basePath(output, input)
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		out, err := openOutput(path)
		if err != nil {
			return err
		}
		if _, err := out.Write(artifacts[format]); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// openOutput returns a WriteCloser for the given path.
// An empty path writes to stdout (which is not closed).
func openOutput(path string) (stdio.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

type nopCloser struct{ stdio.Writer }

func (nopCloser) Close() error { return nil }
