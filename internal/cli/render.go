package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brickwall/pkg/pipeline"
)

// renderOpts holds the render-only command-line flags.
type renderOpts struct {
	outDir      string // output directory (default: next to the manifest)
	formats     string // comma-separated output formats
	noCache     bool   // disable caching
	refresh     bool   // bypass cache reads
	images      bool   // reference image files in the SVG preview
	imagePrefix string // prefix joined to item IDs to form image hrefs
	markers     bool   // draw focus cell markers
	reveal      bool   // progressive row reveal animation
	revealDelay int64  // per-row reveal delay in milliseconds
	displayTime int64  // fade-in duration in milliseconds
	background  string // SVG background colour
}

// renderCommand creates the render command for generating wall previews.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts  renderOpts
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [gallery.toml]",
		Short: "Render a gallery manifest to SVG, JSON or Graphviz",
		Long: `Render a gallery manifest.

Formats:
  svg   preview with one clipped slot per image (default)
  json  the computed layout
  dot   Graphviz source of the row structure
  rows  the row structure rendered to SVG by Graphviz

Outputs are written next to the manifest as <gallery>.<format>, or into
--out-dir. With --images the SVG references the image files themselves,
resolved against --image-prefix; otherwise placeholders are drawn.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeManifest,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGallery(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			return c.runRender(cmd, args[0], optionsFor(g), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output formats, comma-separated: svg, json, dot, rows")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "output directory (default: next to the manifest)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached outputs exist")
	cmd.Flags().BoolVar(&opts.images, "images", false, "embed image references instead of placeholders")
	cmd.Flags().StringVar(&opts.imagePrefix, "image-prefix", "", "prefix for image hrefs (e.g. a CDN base URL)")
	cmd.Flags().BoolVar(&opts.markers, "markers", false, "mark each image's focus cell")
	cmd.Flags().BoolVar(&opts.reveal, "reveal", false, "fade rows in one after another")
	cmd.Flags().Int64Var(&opts.revealDelay, "reveal-delay", 0, "delay between rows in milliseconds (default 100 with --reveal)")
	cmd.Flags().Int64Var(&opts.displayTime, "display-time", 0, "fade-in duration in milliseconds (default 500 with --reveal)")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background colour")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	flags.register(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, popts pipeline.Options, opts renderOpts) error {
	ctx := cmd.Context()

	popts.Formats = pipeline.ParseFormats(opts.formats)
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}
	popts.Refresh = opts.refresh
	popts.Images = opts.images
	popts.ImagePrefix = opts.imagePrefix
	popts.FocusMarkers = opts.markers
	popts.Reveal = opts.reveal
	popts.RevealDelayMS = opts.revealDelay
	popts.DisplayTimeMS = opts.displayTime
	popts.Background = opts.background
	popts.Logger = c.Logger

	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	result, err := c.execute(ctx, popts, opts.noCache)
	if err != nil {
		return err
	}

	base := outputBase(input, opts.outDir)
	written := make([]string, 0, len(result.Artifacts))
	for _, format := range popts.Formats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		path := base + pipeline.Extension(format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	slices.Sort(written)

	printSuccess(c.Out, "Rendered %s", filepath.Base(input))
	for _, path := range written {
		printFile(c.Out, path)
	}
	printStats(c.Out, result.Stats.Items, countRows(result.Layout.Rows), result.Layout.Height(),
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// execute runs the pipeline behind a spinner.
func (c *CLI) execute(ctx context.Context, opts pipeline.Options, noCache bool) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, os.Stderr, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return result, nil
}
