package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brickwall/pkg/gallery"
	"github.com/matzehuels/brickwall/pkg/pipeline"
)

// completionCommand prints a shell completion script. Argument and flag
// completions are registered by the commands themselves via the helpers
// below.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for brickwall.

  $ source <(brickwall completion bash)
  $ brickwall completion zsh > "${fpath[1]}/_brickwall"
  $ brickwall completion fish | source

Completions cover manifest paths, item ids for focus and render formats.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(c.Out, true)
			case "zsh":
				return root.GenZshCompletion(c.Out)
			case "fish":
				return root.GenFishCompletion(c.Out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(c.Out)
			}
		},
	}
}

// completeManifest completes the first argument with gallery manifests.
func completeManifest(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"toml", "json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFocusArgs completes the manifest, then the ids of its items.
func completeFocusArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return completeManifest(cmd, args, toComplete)
	}
	g, err := gallery.ReadFile(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var ids []string
	for _, it := range g.Items {
		if it.ID != "" && strings.HasPrefix(it.ID, toComplete) {
			ids = append(ids, it.ID)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last element of a comma-separated format
// list.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	head, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		head, last = toComplete[:i+1], toComplete[i+1:]
	}
	var out []string
	for _, f := range pipeline.FormatNames() {
		if strings.HasPrefix(f, last) && !strings.Contains(","+head, ","+f+",") {
			out = append(out, head+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
