// Package heatmap lays out and draws a grouped heat map.
//
// # Geometry
//
// Cells share one width for the whole chart:
//
//	gridSizeWidth  = floor((width - margin.left - margin.right - 60)
//	                       / (Σ len(group.categoryX) + 2*len(groups)))
//	gridSizeHeight = gridSizeWidth / 2
//
// The width is capped at 80. Groups are laid out left to right after a
// 60 unit gutter for the Y labels, each taking one cell per X category
// and followed by a gap of two cells. A dashed separator is drawn in the
// middle of each gap except after the last group.
//
// # Colors
//
// Every group has its own quantile scale over the domain [1, n], where n
// is the group's X category count, onto the configured ColorBrewer
// palette. A cell's color is scale(n - 1 - i) for the cell's X position
// i, so the first category gets the highest bucket.
//
// # Rendering
//
// [Renderer.Render] runs in two phases. [Renderer.Plan] computes the
// target state (positions, truncated labels, colors) into a [Layout];
// [Renderer.Draw] emits surface elements, creating each cell with the
// palette's first color and asking the surface to transition it to its
// target color. The surface is then resized to its content.
//
// [Visual] wraps the renderer with the host lifecycle: every update
// reshapes the table, re-parses settings and redraws from scratch.
package heatmap
