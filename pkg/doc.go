// Package pkg provides the core libraries for tableheatmap.
//
// # Overview
//
// tableheatmap turns a table whose columns carry roles (CategoryX,
// CategoryY, Group, Value) into a grouped heat map: one small grid per
// group, sharing the Y axis, each group colored on its own quantile scale
// over a ColorBrewer palette. The pkg directory is organized into three
// areas:
//
//  1. Data shaping - [table], [chart], [format]
//  2. Layout and drawing - [settings], [palette], [scale], [heatmap], [surface]
//  3. Output and orchestration - [render], [render/sink], [pipeline],
//     [cache], [server]
//
// # Architecture
//
// The typical data flow:
//
//	CSV / TSV / XLSX / JSON
//	         ↓
//	    [table] package (columns, roles, typed cells)
//	         ↓
//	    [chart] package (shape rows into groups and data points)
//	         ↓
//	    [heatmap] package (geometry, per-group color scales, draw)
//	         ↓
//	    [surface] package (retained element tree with transitions)
//	         ↓
//	    [render/sink] package (SVG, PNG, PDF, JSON)
//
// # Quick Start
//
// Read a table and render it to SVG:
//
//	import (
//	    "github.com/matzehuels/tableheatmap/pkg/heatmap"
//	    "github.com/matzehuels/tableheatmap/pkg/render/sink"
//	    "github.com/matzehuels/tableheatmap/pkg/surface"
//	    "github.com/matzehuels/tableheatmap/pkg/table"
//	)
//
//	// 1. Read the table, mapping headers to roles
//	t, _ := table.Read("sales.csv", table.ReadOptions{
//	    Schema: table.NewSchema("Month", "Region", "Team", []string{"Revenue"}, "#,0.00"),
//	})
//
//	// 2. Feed it to a visual (shape, parse settings, draw)
//	v := heatmap.NewVisual(surface.New())
//	_, _ = v.Update(t, heatmap.Viewport{Width: 800, Height: 600}, nil)
//
//	// 3. Serialize the surface
//	svg := sink.RenderSVG(v.Surface())
//
// # Main Packages
//
// [table] - Tabular input. CSV and TSV through encoding/csv, XLSX through
// excelize, JSON in the host's column/row shape. TOML schemas map headers
// to roles and display formats.
//
// [chart] - The data shaper. Walks the rows once and produces the groups,
// their X categories, the shared Y categories and the data points.
//
// [format] - Excel-style number formats ("#,0.00", "0%") applied to values
// and labels.
//
// [settings] - The user-facing property objects (general, labels,
// dataPoint) with defaults, parsing and enumeration.
//
// [palette] - The ColorBrewer catalogue with the fallback rules for unknown
// names and out-of-range bucket counts.
//
// [scale] - Quantile scales mapping values to palette buckets.
//
// [heatmap] - Layout and render engine. [heatmap.Visual] keeps the last
// model and settings across updates, the way a host re-feeds one visual.
//
// [surface] - Retained element tree the renderer draws into; elements are
// keyed so updates transition fills instead of recreating cells.
//
// [render/sink] - Output formats. SVG is written directly; PNG is
// rasterised natively; PDF goes through rsvg-convert.
//
// # Infrastructure
//
// [pipeline] - Complete read → shape → render pipeline with caching, used
// by the CLI and the HTTP server so both behave the same.
//
// [cache] - Artifact and table cache with file, Redis, MongoDB and null
// backends behind one interface.
//
// [server] - HTTP render API built on chi.
//
// [observability] - Hooks for logging and metrics around reads, shaping
// and rendering.
//
// [errors] - Coded errors and input validators shared by every entry point.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/heatmap/...       # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// [table]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/table
// [chart]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/chart
// [format]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/format
// [settings]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/settings
// [palette]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/palette
// [scale]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/scale
// [heatmap]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/heatmap
// [heatmap.Visual]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/heatmap#Visual
// [surface]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/surface
// [render]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/tableheatmap/pkg/errors
package pkg
