// Package pipeline runs the layout → render pipeline for brickwall.
//
// The CLI and the HTTP API both go through a [Runner], so caching,
// validation and defaults behave the same at every entry point.
//
// # Stages
//
//  1. Layout: validate the items and options, then compute a [wall.Result]
//  2. Render: produce artifacts (JSON, SVG, DOT, rows diagram) from it
//
// Each stage is cached independently: layouts by a content hash of the
// items plus the layout options, artifacts by a hash of the layout plus
// the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Width:   900,
//	    Items:   items,
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatJSON},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brickwall/pkg/cache"
	"github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/wall"
	"github.com/matzehuels/brickwall/pkg/wall/sink"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatRows = "rows" // DOT row diagram rendered to SVG by Graphviz
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatRows: true,
}

// DefaultFormats are rendered when Options.Formats is empty.
var DefaultFormats = []string{FormatSVG}

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG, FormatRows:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension used when writing format to disk.
func Extension(format string) string {
	switch format {
	case FormatRows:
		return ".rows.svg"
	default:
		return "." + format
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Width  float64      `json:"width"`
	Layout *wall.Config `json:"layout,omitempty"` // nil means wall.DefaultConfig()
	Items  []wall.Item  `json:"items"`

	// Render options
	Formats       []string `json:"formats,omitempty"`
	Images        bool     `json:"images,omitempty"`
	ImagePrefix   string   `json:"image_prefix,omitempty"`
	FocusMarkers  bool     `json:"focus_markers,omitempty"`
	Reveal        bool     `json:"reveal,omitempty"`
	RevealDelayMS int64    `json:"reveal_delay_ms,omitempty"`
	DisplayTimeMS int64    `json:"display_time_ms,omitempty"`
	Background    string   `json:"background,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ContentHash is the hash of the input items.
	ContentHash string

	// Layout is the computed wall.
	Layout wall.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items      int
	Rows       int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
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

// ParseFormats splits a comma separated format list, trimming blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// FormatNames returns the supported format names in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Config returns the effective layout configuration.
func (o *Options) Config() wall.Config {
	if o.Layout == nil {
		return wall.DefaultConfig()
	}
	return *o.Layout
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Layout == nil {
		cfg := wall.DefaultConfig()
		o.Layout = &cfg
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
// Errors carry the layout engine's codes (INVALID_WIDTH, INVALID_ITEM,
// INVALID_CONFIG).
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return wall.Validate(o.Items, o.Width, *o.Layout)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if o.Reveal {
		if o.RevealDelayMS == 0 {
			o.RevealDelayMS = sink.DefaultRevealDelay.Milliseconds()
		}
		if o.DisplayTimeMS == 0 {
			o.DisplayTimeMS = sink.DefaultDisplayTime.Milliseconds()
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
// Duplicate formats are dropped, keeping the first occurrence.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.RevealDelayMS < 0 || o.DisplayTimeMS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "reveal timings must not be negative")
	}
	o.Formats = dedupe(o.Formats)
	return nil
}

func dedupe(formats []string) []string {
	out := formats[:0:0]
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg := o.Config().Normalize()
	return cache.LayoutKeyOpts{
		Width:       o.Width,
		Margin:      cfg.Margin,
		LineHeight:  float64(cfg.LineHeight),
		ResizeLast:  cfg.ResizeLast,
		FocusPointX: cfg.FocusPoints.X,
		FocusPointY: cfg.FocusPoints.Y,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Images = o.Images
		k.ImagePrefix = o.ImagePrefix
		k.Markers = o.FocusMarkers
		k.Background = o.Background
		if o.Reveal {
			k.RevealMS = o.RevealDelayMS
			k.DisplayMS = o.DisplayTimeMS
		}
	case FormatJSON:
		if o.Reveal {
			k.RevealMS = o.RevealDelayMS
		}
	}
	return k
}
