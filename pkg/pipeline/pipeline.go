// Package pipeline provides the core parse → layout → render pipeline.
//
// The same pipeline backs the CLI and the render server. Centralizing
// it keeps behavior consistent across entry points: one place validates
// options, computes cache keys, and emits observability events.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode a document (bracket notation or JSON) into a tree
//  2. Layout: resolve the tree into drawing primitives
//  3. Render: serialize the primitives into output formats
//
// Each stage can be run independently or as part of the complete
// pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Document: "(S (NP the elephant) (VP saw (NP the rhinoceros)))",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	stdio "io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/syntree/syntree/pkg/errors"
	"github.com/syntree/syntree/pkg/io"
	"github.com/syntree/syntree/pkg/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// DefaultScale is the default PNG scale factor.
const DefaultScale = 2.0

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for server requests and TOML
// for config files.
type Options struct {
	// Input: exactly one of Document (inline text, bracket or JSON) or
	// Path (file to import).
	Document string `json:"document,omitempty" toml:"document"`
	Path     string `json:"path,omitempty" toml:"path"`

	// LayoutOptions are merged over any options carried by the document
	// itself; request options win field by field.
	LayoutOptions io.Options `json:"layout,omitempty" toml:"layout"`

	// Annotations to apply in addition to those in the document.
	Annotations layout.Annotations `json:"annotations,omitempty" toml:"annotations"`

	// Render options
	Formats    []string `json:"formats,omitempty" toml:"formats"`
	Background string   `json:"background,omitempty" toml:"background"`
	Scale      float64  `json:"scale,omitempty" toml:"scale"`

	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty" toml:"refresh"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the parsed input.
	Document *io.Document

	// DocHash is the content hash of the document, used in cache keys.
	DocHash string

	// Layout is the resolved layout.
	Layout *layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	// RenderHit reports whether all requested artifacts came from cache.
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Document == "" && o.Path == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "document or path is required")
	}
	if o.Document != "" && o.Path != "" {
		return errors.New(errors.ErrCodeInvalidConfig, "document and path are mutually exclusive")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(stdio.Discard, log.Options{})
	}
	o.validated = true
	return nil
}
