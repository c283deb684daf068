package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/tableheatmap/pkg/buildinfo"
	"github.com/matzehuels/tableheatmap/pkg/cache"
	"github.com/matzehuels/tableheatmap/pkg/chart"
	"github.com/matzehuels/tableheatmap/pkg/heatmap"
	"github.com/matzehuels/tableheatmap/pkg/observability"
	"github.com/matzehuels/tableheatmap/pkg/settings"
	"github.com/matzehuels/tableheatmap/pkg/table"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, the logger and the set of
// in-flight renders. Multiple goroutines can safely use the same Runner;
// identical concurrent requests share one render.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	flight singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete read → shape → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{ID: uuid.NewString(), Artifacts: make(map[string][]byte)}
	logger := opts.Logger.With("run", result.ID[:8])

	// Stage 1: Read
	readStart := time.Now()
	t, tableHit, err := r.ReadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	result.Table = t
	result.Stats.Rows = len(t.Rows)
	result.Stats.ReadTime = time.Since(readStart)
	result.CacheInfo.TableHit = tableHit

	if result.TableHash, err = cache.HashJSON(t); err != nil {
		return nil, fmt.Errorf("hash table: %w", err)
	}
	logger.Debug("read table",
		"rows", len(t.Rows),
		"columns", len(t.Columns),
		"cached", tableHit,
		"duration", result.Stats.ReadTime)

	s, err := settings.Parse(opts.Objects)
	if err != nil {
		return nil, err
	}
	result.Settings = s

	// Stages 2 and 3: Shape and render, unless every artifact is cached
	keys, err := r.artifactKeys(result.TableHash, s, opts)
	if err != nil {
		return nil, err
	}
	if !opts.Refresh {
		if cached, ok := r.cachedArtifacts(ctx, keys); ok {
			result.Artifacts = cached
			result.CacheInfo.RenderHit = true
			logger.Info("artifacts from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	v, err, shared := r.flight.Do(flightKey(keys, opts.Formats), func() (any, error) {
		return r.render(ctx, t, s, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out := v.(*rendered)
	result.Model = out.model
	result.Layout = out.layout
	result.Stats.Groups = len(out.model.Groups)
	result.Stats.Points = out.model.PointCount()
	result.Stats.ShapeTime = out.shapeTime
	result.Stats.RenderTime = out.renderTime
	for f, data := range out.artifacts {
		result.Artifacts[f] = data
	}

	if !shared {
		for _, f := range opts.Formats {
			data := out.artifacts[f]
			if err := r.Cache.Set(ctx, keys[f], data, cache.TTLArtifact); err != nil {
				logger.Warn("cache write failed", "format", f, "err", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	logger.Info("rendered heat map",
		"groups", result.Stats.Groups,
		"points", result.Stats.Points,
		"formats", opts.Formats,
		"shared", shared,
		"duration", result.Stats.ShapeTime+result.Stats.RenderTime)

	return result, nil
}

// ReadWithCacheInfo decodes the input with caching and reports whether
// the table came from the cache. A pre-decoded opts.Table is returned
// as is.
func (r *Runner) ReadWithCacheInfo(ctx context.Context, opts Options) (*table.Table, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if opts.Table != nil {
		if err := opts.Table.Validate(); err != nil {
			return nil, false, err
		}
		return opts.Table, false, nil
	}

	cacheKey := r.Keyer.TableKey(cache.Hash(opts.Data), opts.TableKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if t, err := table.ReadJSON(bytes.NewReader(data), nil); err == nil {
				observability.Cache().OnCacheHit(ctx, "table")
				return t, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "table")
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnReadStart(ctx, opts.Source)
	t, err := table.Decode(bytes.NewReader(opts.Data), opts.InputFormat, table.ReadOptions{
		Schema: opts.Schema,
		Sheet:  opts.Sheet,
	})
	if err != nil {
		hooks.OnReadComplete(ctx, opts.Source, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnReadComplete(ctx, opts.Source, len(t.Rows), time.Since(start), nil)

	var buf bytes.Buffer
	if err := table.WriteJSON(t, &buf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLTable); err == nil {
			observability.Cache().OnCacheSet(ctx, "table", buf.Len())
		}
	}
	return t, false, nil
}

// Read is a convenience wrapper that calls ReadWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Read(ctx context.Context, opts Options) (*table.Table, error) {
	t, _, err := r.ReadWithCacheInfo(ctx, opts)
	return t, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

type rendered struct {
	model      *chart.Model
	layout     *heatmap.Layout
	artifacts  map[string][]byte
	shapeTime  time.Duration
	renderTime time.Duration
}

func (r *Runner) render(ctx context.Context, t *table.Table, s settings.Settings, opts Options) (*rendered, error) {
	hooks := observability.Pipeline()
	out := &rendered{}

	start := time.Now()
	hooks.OnShapeStart(ctx, len(t.Rows))
	out.model = chart.Shape(t)
	out.shapeTime = time.Since(start)
	hooks.OnShapeComplete(ctx, len(out.model.Groups), out.model.PointCount(), out.shapeTime)

	start = time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	layout, artifacts, err := Render(out.model, s, opts)
	out.renderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, out.renderTime, err)
	if err != nil {
		return nil, err
	}
	out.layout = layout
	out.artifacts = artifacts
	return out, nil
}

func (r *Runner) artifactKeys(tableHash string, s settings.Settings, opts Options) (map[string]string, error) {
	settingsHash, err := cache.HashJSON(s)
	if err != nil {
		return nil, fmt.Errorf("hash settings: %w", err)
	}
	version := buildinfo.Short()
	keys := make(map[string]string, len(opts.Formats))
	for _, f := range opts.Formats {
		keys[f] = r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(f, settingsHash, version))
	}
	return keys, nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, keys map[string]string) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(keys))
	for f, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		artifacts[f] = data
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return artifacts, true
}

func flightKey(keys map[string]string, formats []string) string {
	parts := make([]string, len(formats))
	for i, f := range formats {
		parts[i] = keys[f]
	}
	return strings.Join(parts, "|")
}
