// Package cli implements the brickwall command-line interface.
//
// This package provides commands for computing gallery layouts from a
// manifest, rendering previews, probing image sizes, picking focus points
// interactively, serving the HTTP API, and managing the layout cache. The
// CLI is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: Compute the wall and write it as JSON
//   - render: Generate SVG, JSON, or Graphviz outputs
//   - probe: Read image sizes and emit a gallery manifest
//   - focus: Choose an item's focus cell in a terminal grid
//   - serve: Run the HTTP API
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Probed 12 images (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
