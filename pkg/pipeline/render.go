package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/wall"
	"github.com/matzehuels/brickwall/pkg/wall/sink"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, res wall.Result, opts Options) (map[string][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, res, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, res wall.Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return sink.RenderJSON(res, buildJSONOptions(opts)...)
	case FormatSVG:
		return sink.RenderSVG(res, buildSVGOptions(opts)...), nil
	case FormatDOT:
		return []byte(sink.ToDOT(res)), nil
	case FormatRows:
		return sink.RenderDOTSVG(ctx, sink.ToDOT(res))
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

func buildJSONOptions(opts Options) []sink.JSONOption {
	var jsonOpts []sink.JSONOption
	if opts.Reveal {
		jsonOpts = append(jsonOpts, sink.WithJSONReveal(time.Duration(opts.RevealDelayMS)*time.Millisecond))
	}
	return jsonOpts
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.ImagePrefix != "" {
		prefix := opts.ImagePrefix
		svgOpts = append(svgOpts, sink.WithHref(func(id string) string { return prefix + id }))
	} else if opts.Images {
		svgOpts = append(svgOpts, sink.WithImages())
	}
	if opts.FocusMarkers {
		svgOpts = append(svgOpts, sink.WithFocusMarkers())
	}
	if opts.Reveal {
		svgOpts = append(svgOpts, sink.WithReveal(
			time.Duration(opts.RevealDelayMS)*time.Millisecond,
			time.Duration(opts.DisplayTimeMS)*time.Millisecond,
		))
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	return svgOpts
}
