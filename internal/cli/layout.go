package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brickwall/pkg/pipeline"
	"github.com/matzehuels/brickwall/pkg/wall"
	"github.com/matzehuels/brickwall/pkg/wall/sink"
)

// layoutCommand creates the layout command for computing a wall from a manifest.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [gallery.toml]",
		Short: "Compute the wall layout for a gallery manifest",
		Long: `Compute the wall layout for a gallery manifest.

The layout command reads a gallery manifest (TOML or JSON), packs its items
into rows, scales every row to the container width, and writes the result to
<gallery>.layout.json: rows, slot widths, scaled sizes and focus crop offsets.

Flags override values from the manifest's [layout] table.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeManifest,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGallery(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			opts := optionsFor(g)
			opts.Refresh = refresh
			if output == "" {
				output = outputBase(args[0], "") + ".layout.json"
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")
	flags.register(cmd)

	return cmd
}

// runLayout computes the layout and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	res, cacheHit, err := runner.LayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	data, err := sink.RenderJSON(res)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	if output == "-" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess(c.Out, "Layout complete")
	printFile(c.Out, output)
	printStats(c.Out, len(res.Placements), countRows(res.Rows), res.Height(), cacheHit)
	printNewline(c.Out)
	printNextStep(c.Out, "Render", appName+" render "+input)

	return nil
}

// countRows counts the rows that hold at least one item.
func countRows(rows []wall.Row) int {
	n := 0
	for _, r := range rows {
		if r.Len() > 0 {
			n++
		}
	}
	return n
}
