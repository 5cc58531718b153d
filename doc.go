// Package halo draws a soft highlight around the mouse pointer on Wayland
// compositors that implement wlr-layer-shell.
//
// # Overview
//
// halo places one transparent overlay surface on every output and paints a
// translucent circle under the pointer on the output the pointer is on.
// Painting is done in software into shared-memory buffers that are handed to
// the compositor; redraws are paced by frame callbacks so that at most one
// frame per output is in flight.
//
// # Architecture
//
// The module is organized into:
//   - Root package: shared primitives (RGBA, Rect, logging)
//   - shm: shared-memory buffer pool with reuse and idle eviction
//   - compositor: background fill and luminosity-blended indicator
//   - render: per-output frame pacing state machine and pointer tracking
//   - wayland: pure Go Wayland client transport and session wiring
//   - background: solid, raster and SVG background sources
//   - config: environment configuration
//   - cmd/halo: command line entry point
//
// # Logging
//
// halo is silent by default. Call [SetLogger] to route diagnostics to a
// [log/slog] handler.
package halo
