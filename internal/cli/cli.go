package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickwall/pkg/buildinfo"
	"github.com/matzehuels/brickwall/pkg/cache"
	"github.com/matzehuels/brickwall/pkg/gallery"
	"github.com/matzehuels/brickwall/pkg/pipeline"
	"github.com/matzehuels/brickwall/pkg/wall"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "brickwall"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives status output and artifacts written to stdout.
	Out io.Writer
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Brickwall lays out image galleries as justified rows",
		Long:          `Brickwall packs images into rows of equal height that fill the container width exactly, computes focus-point crops, and renders previews as SVG, JSON or Graphviz diagrams.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.probeCommand())
	root.AddCommand(c.focusCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, cache.KeyerFromEnv(), c.Logger), nil
}

// newCache opens the configured cache backend. A cache directory that
// cannot be determined disables caching instead of failing the command.
func newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory ($XDG_CACHE_HOME/brickwall or the
// platform user cache directory).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// outputBase strips the manifest extension: "photos/trip.toml" → "photos/trip".
func outputBase(input, dir string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if dir != "" {
		base = filepath.Join(dir, filepath.Base(base))
	}
	return base
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the manifest values that can be overridden on the
// command line. Only flags the user actually set are applied.
type layoutFlags struct {
	width       float64
	margin      float64
	lineHeight  string
	resizeLast  bool
	focusPoints string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	def := wall.DefaultConfig()
	cmd.Flags().Float64Var(&f.width, "width", 0, "container width in pixels (overrides manifest)")
	cmd.Flags().Float64Var(&f.margin, "margin", def.Margin, "margin around each image in pixels")
	cmd.Flags().StringVar(&f.lineHeight, "line-height", def.LineHeight.String(), `row height in pixels, or "auto"`)
	cmd.Flags().BoolVar(&f.resizeLast, "resize-last", def.ResizeLast, "stretch the last row to the full width")
	cmd.Flags().StringVar(&f.focusPoints, "focus-points", "5x5", "focus grid size as COLSxROWS")
}

// apply overrides g's layout with the flags changed on cmd.
func (f *layoutFlags) apply(cmd *cobra.Command, g *gallery.Gallery) error {
	flags := cmd.Flags()
	if flags.Changed("width") {
		g.Width = f.width
	}
	if flags.Changed("margin") {
		g.Layout.Margin = f.margin
	}
	if flags.Changed("line-height") {
		h, err := wall.ParseLineHeight(f.lineHeight)
		if err != nil {
			return err
		}
		g.Layout.LineHeight = h
	}
	if flags.Changed("resize-last") {
		g.Layout.ResizeLast = f.resizeLast
	}
	if flags.Changed("focus-points") {
		p, err := parseFocusPoints(f.focusPoints)
		if err != nil {
			return err
		}
		g.Layout.FocusPoints = p
	}
	return nil
}

// parseFocusPoints parses "5x5" or a single "5" for a square grid.
func parseFocusPoints(s string) (wall.FocusPoints, error) {
	xs, ys, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !found {
		ys = xs
	}
	var p wall.FocusPoints
	if _, err := fmt.Sscan(xs, &p.X); err != nil {
		return p, fmt.Errorf("focus points %q: want COLSxROWS", s)
	}
	if _, err := fmt.Sscan(ys, &p.Y); err != nil {
		return p, fmt.Errorf("focus points %q: want COLSxROWS", s)
	}
	return p, nil
}

// loadGallery reads the manifest at path and applies flag overrides.
func loadGallery(cmd *cobra.Command, path string, flags *layoutFlags) (*gallery.Gallery, error) {
	g, err := gallery.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cmd, g); err != nil {
		return nil, err
	}
	return g, nil
}

// optionsFor builds pipeline options from a manifest.
func optionsFor(g *gallery.Gallery) pipeline.Options {
	cfg := g.Layout
	return pipeline.Options{
		Width:  g.Width,
		Layout: &cfg,
		Items:  g.Items,
	}
}
