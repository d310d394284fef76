package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/gallery"
	"github.com/matzehuels/brickwall/pkg/httputil"
	"github.com/matzehuels/brickwall/pkg/probe"
)

// probeCommand creates the probe command that builds a manifest from image headers.
func (c *CLI) probeCommand() *cobra.Command {
	var (
		output      string
		width       float64
		concurrency int
		noCache     bool
		appendTo    bool
	)

	cmd := &cobra.Command{
		Use:   "probe [images...]",
		Short: "Read image sizes and emit a gallery manifest",
		Long: `Read the intrinsic size of each image from its header and emit a gallery
manifest with one item per image.

Sources are local files or http(s) URLs. Remote images are fetched with
ranged requests so only the header is downloaded; sizes are remembered in
the cache directory. JPEG, PNG, GIF, BMP, TIFF and WebP are supported.

Without --output the manifest is printed to stdout as TOML.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []probe.Option{
				probe.WithConcurrency(concurrency),
				probe.WithLogger(c.Logger),
			}
			if !noCache {
				store, err := httputil.NewStore(c.storeDir(), probe.DefaultStoreTTL)
				if err != nil {
					c.Logger.Warn("probe memo disabled", "error", err)
				} else {
					opts = append(opts, probe.WithStore(store))
				}
			}

			prog := newProgress(c.Logger)
			sizes, err := probe.New(opts...).ProbeAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Probed %d images", len(sizes)))

			g, err := c.probeGallery(output, width, appendTo)
			if err != nil {
				return err
			}
			failed := 0
			for _, s := range sizes {
				if s.Err != nil {
					failed++
					continue
				}
				if err := g.Append(s.Item()); err != nil {
					return err
				}
			}

			if output == "" {
				if failed > 0 {
					printProbeTable(os.Stderr, sizes)
				}
				return gallery.Write(c.Out, g, gallery.FormatTOML)
			}

			printProbeTable(c.Out, sizes)
			if err := gallery.WriteFile(g, output); err != nil {
				return err
			}
			printSuccess(c.Out, "Wrote %d items", len(g.Items))
			printFile(c.Out, output)
			if failed > 0 {
				printWarning(c.Out, "%d images could not be probed", failed)
			}
			printNewline(c.Out)
			printNextStep(c.Out, "Render", appName+" render "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "manifest file to write (.toml or .json)")
	cmd.Flags().Float64Var(&width, "width", 0, "container width to record in the manifest")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", probe.DefaultConcurrency, "parallel probes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not remember remote image sizes")
	cmd.Flags().BoolVar(&appendTo, "append", false, "add items to the existing --output manifest")

	return cmd
}

// probeGallery returns the manifest to fill: the existing output file with
// --append, otherwise a new one.
func (c *CLI) probeGallery(output string, width float64, appendTo bool) (*gallery.Gallery, error) {
	if appendTo {
		if output == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--append requires --output")
		}
		g, err := gallery.ReadFile(output)
		if err == nil {
			if width > 0 {
				g.Width = width
			}
			return g, nil
		}
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			return nil, err
		}
	}
	return gallery.New(width), nil
}

// storeDir places the probe memo inside the brickwall cache directory.
func (c *CLI) storeDir() string {
	dir, err := cacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "http")
}

func printProbeTable(w io.Writer, sizes []probe.Size) {
	rows := make([][]string, 0, len(sizes))
	for _, s := range sizes {
		if s.Err != nil {
			rows = append(rows, []string{s.Source, "", "", styleError.Render(errors.UserMessage(s.Err))})
			continue
		}
		rows = append(rows, []string{s.Source, fmt.Sprintf("%d×%d", s.Width, s.Height), s.Format, styleIconSuccess.Render(iconSuccess)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("IMAGE", "SIZE", "FORMAT", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleTitle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())
}
