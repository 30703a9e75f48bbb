package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/syntree/syntree/pkg/cache"
	"github.com/syntree/syntree/pkg/errors"
	"github.com/syntree/syntree/pkg/io"
	"github.com/syntree/syntree/pkg/layout"
	"github.com/syntree/syntree/pkg/observability"
	"github.com/syntree/syntree/pkg/render"
)

// TTLArtifact is how long rendered artifacts stay cached. Renders are
// deterministic, so the TTL only bounds disk usage, not staleness.
const TTLArtifact = 7 * 24 * time.Hour

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the render server use this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete parse → layout → render pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	doc, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.DocHash = docHash(doc, opts)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = doc.Root.Count()

	opts.Logger.Info("parsed document",
		"nodes", result.Stats.NodeCount,
		"depth", doc.Root.Depth(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, err := r.ComputeLayout(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Info("resolved layout",
		"primitives", len(res.Layout.Primitives),
		"canvas", []float64{res.Layout.Width, res.Layout.Height},
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCacheInfo(ctx, result.DocHash, doc, res, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse decodes the input document.
func (r *Runner) Parse(ctx context.Context, opts Options) (*io.Document, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnParseStart(ctx, inputFormat(opts))

	var doc *io.Document
	var err error
	if opts.Path != "" {
		doc, err = io.Import(opts.Path)
	} else {
		doc, err = io.ImportString(opts.Document)
	}

	nodes := 0
	if doc != nil {
		nodes = doc.Root.Count()
	}
	observability.Pipeline().OnParseComplete(ctx, inputFormat(opts), nodes, time.Since(start), err)
	return doc, err
}

// ComputeLayout resolves the document into drawing primitives, merging
// request-level options and annotations over those carried by the
// document.
func (r *Runner) ComputeLayout(ctx context.Context, doc *io.Document, opts Options) (*layout.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	lopts, err := mergeOptions(doc.Options, opts.LayoutOptions).ToLayout()
	if err != nil {
		return nil, err
	}
	ann := mergeAnnotations(doc.Annotations, opts.Annotations)

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, doc.Root.Count())
	res, err := layout.Resolve(doc.Root, ann, lopts)
	observability.Pipeline().OnLayoutComplete(ctx, doc.Root.Count(), time.Since(start), err)
	return res, err
}

// Render serializes a resolved layout into every requested format.
func (r *Runner) Render(ctx context.Context, doc *io.Document, res *layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.renderWithCacheInfo(ctx, docHash(doc, opts), doc, res, opts)
	return artifacts, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, hash string, doc *io.Document, res *layout.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache.
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		allCached := true
		for _, format := range opts.Formats {
			key := cache.ArtifactKey(hash, artifactKeyOpts(opts), format)
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	// Render all formats.
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		observability.Pipeline().OnRenderStart(ctx, format)
		data, err := r.renderFormat(ctx, doc, res, format, opts)
		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = data
	}

	// Cache each format.
	for format, data := range rendered {
		key := cache.ArtifactKey(hash, artifactKeyOpts(opts), format)
		if err := r.Cache.Set(ctx, key, data, TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

func (r *Runner) renderFormat(ctx context.Context, doc *io.Document, res *layout.Result, format string, opts Options) ([]byte, error) {
	var svgOpts []render.SVGOption
	if opts.Background != "" {
		svgOpts = append(svgOpts, render.WithBackground(opts.Background))
	}

	switch format {
	case FormatSVG:
		return render.SVG(res.Layout, svgOpts...), nil
	case FormatPNG:
		return render.PNG(res.Layout, opts.Scale)
	case FormatPDF:
		return render.ToPDF(render.SVG(res.Layout, svgOpts...))
	case FormatJSON:
		return render.JSON(res.Layout)
	case FormatDOT:
		return []byte(render.ToDOT(doc.Root, render.DOTOptions{})), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format %q", format)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func inputFormat(opts Options) string {
	s := opts.Document
	if opts.Path != "" {
		return "file"
	}
	if len(s) > 0 && s[0] == '{' {
		return "json"
	}
	return "bracket"
}

// keyOpts is the subset of Options that changes rendered bytes, used
// in artifact cache keys.
type keyOpts struct {
	Layout     io.Options `json:"layout"`
	Background string     `json:"background"`
	Scale      float64    `json:"scale"`
}

func artifactKeyOpts(opts Options) keyOpts {
	return keyOpts{
		Layout:     opts.LayoutOptions,
		Background: opts.Background,
		Scale:      opts.Scale,
	}
}

// docHash keys the cache by the parsed document's canonical JSON plus
// any request-level annotations. Hashing content rather than the input
// reference means a file edited in place never serves a stale artifact,
// and the same tree reaches the same cache entry whether it arrived
// inline, as bracket text or as a file.
func docHash(doc *io.Document, opts Options) string {
	var buf bytes.Buffer
	if err := io.Write(doc, &buf); err != nil {
		// Unreachable for a parsed document; an unkeyable input still
		// renders, it just never hits the cache.
		return cache.Key("doc", uuid.NewString(), opts.Annotations)
	}
	return cache.Key("doc", buf.String(), opts.Annotations)
}

// mergeOptions layers request options over document options.
func mergeOptions(base, over io.Options) io.Options {
	out := base
	if over.SiblingGap != 0 {
		out.SiblingGap = over.SiblingGap
	}
	if over.LevelGap != 0 {
		out.LevelGap = over.LevelGap
	}
	if over.FontSize != 0 {
		out.FontSize = over.FontSize
	}
	if over.FontFamily != "" {
		out.FontFamily = over.FontFamily
	}
	if over.Margin != 0 {
		out.Margin = over.Margin
	}
	if over.ArrowStyle != "" {
		out.ArrowStyle = over.ArrowStyle
	}
	if over.AlignLeaves {
		out.AlignLeaves = true
	}
	if over.ElbowDescent {
		out.ElbowDescent = true
	}
	return out
}

func mergeAnnotations(base, over layout.Annotations) layout.Annotations {
	return layout.Annotations{
		Arrows:     append(append([]layout.MoveArrow{}, base.Arrows...), over.Arrows...),
		Boxes:      append(append([]layout.HighlightBox{}, base.Boxes...), over.Boxes...),
		Underlines: append(append([]layout.Underline{}, base.Underlines...), over.Underlines...),
	}
}
