package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/cinetrack/internal/media"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for cinetrack.

  $ source <(cinetrack completion bash)
  $ cinetrack completion zsh > "${fpath[1]}/_cinetrack"
  $ cinetrack completion fish > ~/.config/fish/completions/cinetrack.fish
  PS> cinetrack completion powershell | Out-String | Invoke-Expression

Title ids complete from your list, e.g. "cinetrack show <TAB>".`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeRecordArgs completes the title id (first argument) from the
// catalog, and for status the watch status.
func completeRecordArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch {
	case len(args) == 0:
		return recordIDCompletions(cmd, toComplete, cmd.Name() == "progress"), cobra.ShellCompDirectiveNoFileComp
	case len(args) == 1 && cmd.Name() == "status":
		out := make([]string, 0, len(media.Statuses))
		for _, s := range media.Statuses {
			out = append(out, strings.ToLower(strings.ReplaceAll(string(s), " ", "-")))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	case len(args) == 2 && cmd.Name() == "progress":
		return []string{"inc", "dec", "all", "none", "set"}, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func recordIDCompletions(cmd *cobra.Command, prefix string, seriesOnly bool) []string {
	var out []string
	_ = withApp(cmd.Context(), func(a *app) error {
		for _, r := range a.store.All() {
			if seriesOnly && !r.IsSeries() {
				continue
			}
			id := fmt.Sprintf("%d", r.ID)
			if strings.HasPrefix(id, prefix) {
				out = append(out, id+"\t"+r.Title)
			}
		}
		return nil
	})
	return out
}
