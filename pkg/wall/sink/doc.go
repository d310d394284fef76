// Package sink provides output format renderers for computed walls.
//
// A "sink" transforms a [wall.Result] into a final output format:
//
//   - JSON: the rows and placements for external renderers
//   - SVG: a preview with clipped slots, focus markers and an optional
//     row-by-row progressive reveal
//   - DOT: a row membership diagram, rendered to SVG through Graphviz
//
// Basic usage:
//
//	res, _ := wall.Layout(items, 900, wall.DefaultConfig())
//	svg := sink.RenderSVG(res,
//	    sink.WithImages(),
//	    sink.WithReveal(sink.DefaultRevealDelay, sink.DefaultDisplayTime),
//	)
//
// Renderers never modify the result and are safe to call concurrently.
//
// [wall.Result]: github.com/matzehuels/brickwall/pkg/wall.Result
package sink
