// Package pkg provides the libraries behind brickwall, a justified "brick
// wall" gallery layout engine.
//
// # Overview
//
// Images of arbitrary aspect ratio are packed into rows, each row is scaled
// so it fills the container width exactly at a common line height, and each
// image gets a crop offset that keeps its chosen focus cell visible. The
// pkg directory is organized as:
//
//  1. [wall] - The layout engine (pack, scale, focus, line height)
//  2. [wall/sink] - Renderers (JSON, SVG preview, Graphviz row diagrams)
//  3. [gallery] - TOML/JSON gallery manifests
//  4. [focus] - The focus-point picker grid
//  5. [pipeline] - Orchestration (layout → render) with caching
//  6. [cache] - File and Redis cache backends
//  7. [probe] and [httputil] - Image size probing, local and remote
//  8. [server] - The HTTP API
//
// # Architecture
//
// The typical data flow through brickwall:
//
//	gallery manifest / API request
//	         ↓
//	    [pipeline] Runner (cache lookup)
//	         ↓
//	    [wall] Layout (rows, slots, crops)
//	         ↓
//	    [wall/sink] SVG / JSON / DOT output
//
// # Quick Start
//
//	res, err := wall.Layout(items, 900, wall.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(res, sink.WithFocusMarkers())
package pkg
