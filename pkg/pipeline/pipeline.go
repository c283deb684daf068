// Package pipeline provides the read → shape → render pipeline shared by
// the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: decode CSV, TSV, XLSX or JSON input into a [table.Table]
//  2. Shape: group the rows into a [chart.Model]
//  3. Render: lay the model out on a fresh surface and write artifacts
//     (SVG, PNG, PDF, JSON)
//
// Decoded tables and rendered artifacts are cached by content hash, so
// re-rendering an unchanged file with unchanged settings is a cache hit.
// Concurrent identical requests are coalesced into one render.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "sales.csv",
//	    Data:    data,
//	    Schema:  table.NewSchema("Month", "Region", "Team", []string{"Revenue"}, ""),
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tableheatmap/pkg/cache"
	"github.com/matzehuels/tableheatmap/pkg/chart"
	"github.com/matzehuels/tableheatmap/pkg/errors"
	"github.com/matzehuels/tableheatmap/pkg/heatmap"
	"github.com/matzehuels/tableheatmap/pkg/settings"
	"github.com/matzehuels/tableheatmap/pkg/table"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Read options. Exactly one of Table and Data must be set. Source names
	// the input for logs and, when InputFormat is empty, for picking the
	// reader by extension.
	Source      string        `json:"source,omitempty"`
	Data        []byte        `json:"-"`
	InputFormat string        `json:"input_format,omitempty"`
	Sheet       string        `json:"sheet,omitempty"`
	Schema      *table.Schema `json:"schema,omitempty"`
	Table       *table.Table  `json:"table,omitempty"`

	// Render options
	Width     float64          `json:"width,omitempty"`
	Height    float64          `json:"height,omitempty"`
	Margin    *heatmap.Margin  `json:"margin,omitempty"`
	Objects   settings.Objects `json:"objects,omitempty"`
	Formats   []string         `json:"formats,omitempty"`
	Animate   bool             `json:"animate,omitempty"`
	EmbedFont bool             `json:"embed_font,omitempty"`
	Scale     float64          `json:"scale,omitempty"`
	Refresh   bool             `json:"refresh,omitempty"`

	// PNG options. Background is a CSS color (default white); RSVG
	// rasterises through rsvg-convert instead of the built-in rasteriser.
	Background string `json:"background,omitempty"`
	RSVG       bool   `json:"rsvg,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run in logs and response headers.
	ID string

	// Table is the decoded input.
	Table *table.Table

	// TableHash is the content hash of the decoded table.
	TableHash string

	// Model is the shaped chart, or nil when every artifact came from
	// the cache.
	Model *chart.Model

	// Layout is the computed layout, nil for the empty chart or when every
	// artifact came from the cache.
	Layout *heatmap.Layout

	// Settings are the parsed settings the chart was drawn with.
	Settings settings.Settings

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Groups     int
	Points     int
	ReadTime   time.Duration
	ShapeTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TableHit  bool // Whether the decoded table came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Table == nil && o.Data == nil {
		return errors.New(errors.ErrCodeInvalidInput, "table or input data is required")
	}
	if o.Table == nil && o.InputFormat == "" {
		o.InputFormat = table.FormatOf(o.Source)
		if o.InputFormat == "" {
			return errors.New(errors.ErrCodeUnsupported, "cannot infer input format of %q", o.Source)
		}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := errors.ValidateOutputFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Viewport returns the viewport the chart is laid out in.
func (o *Options) Viewport() heatmap.Viewport {
	return heatmap.Viewport{Width: o.Width, Height: o.Height}
}

// TableKeyOpts returns cache key options for a decoded table.
func (o *Options) TableKeyOpts() cache.TableKeyOpts {
	k := cache.TableKeyOpts{Format: o.InputFormat, Sheet: o.Sheet}
	if o.Schema != nil {
		k.Schema, _ = cache.HashJSON(o.Schema)
	}
	return k
}

// ArtifactKeyOpts returns cache key options for one artifact format.
// settingsHash identifies the parsed settings.
func (o *Options) ArtifactKeyOpts(format, settingsHash, version string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:   format,
		Width:    o.Width,
		Height:   o.Height,
		Settings: settingsHash,
		Version:  version,
	}
	if o.Margin != nil {
		m, _ := cache.HashJSON(o.Margin)
		k.Settings += ":" + m
	}
	switch format {
	case FormatSVG:
		k.Animate = o.Animate
		k.EmbedFont = o.EmbedFont
	case FormatPDF:
		k.EmbedFont = o.EmbedFont
	case FormatPNG:
		k.Scale = o.Scale
		k.Background = o.Background
		if o.RSVG {
			k.Rasterizer = "rsvg"
			k.EmbedFont = o.EmbedFont
		}
	}
	return k
}
