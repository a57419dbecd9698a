package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/cinetrack/internal/media"
	"github.com/vmunix/cinetrack/internal/resolve"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search TMDB for movies and shows",
	Long: `Search TMDB for movies and shows.

An IMDb id (tt0133093) is looked up directly. When TMDB has no match for a
title and an OMDb key is configured, OMDb is searched as a fallback.

Examples:
  cinetrack search "The Matrix"
  cinetrack search tt0903747`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

var addCmd = &cobra.Command{
	Use:   "add <query>...",
	Short: "Search and add a title to your list",
	Long: `Search and add a title to your list.

Without --pick the results are listed and you choose one.

Examples:
  cinetrack add "Breaking Bad"
  cinetrack add "The Matrix" --pick 1
  cinetrack add tt0133093`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAddCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().IntP("pick", "p", 0, "Add the n-th result without prompting")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	return withApp(cmd.Context(), func(a *app) error {
		if err := a.requireResolver(); err != nil {
			return err
		}
		results := a.resolver.Search(cmd.Context(), query)

		out := cmd.OutOrStdout()
		if jsonOutput {
			printJSON(out, results)
			return nil
		}
		if len(results) == 0 {
			fmt.Fprintf(out, "No results for %q\n", query)
			return nil
		}
		printCandidates(out, query, results, a.store.Contains)
		return nil
	})
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	pick, _ := cmd.Flags().GetInt("pick")

	return withApp(cmd.Context(), func(a *app) error {
		if err := a.requireResolver(); err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		results := a.resolver.Search(ctx, query)
		if len(results) == 0 {
			return fmt.Errorf("no results for %q", query)
		}

		switch {
		case pick != 0:
		case len(results) == 1 || resolve.IsIMDBID(query) || jsonOutput:
			pick = 1
		default:
			printCandidates(out, query, results, a.store.Contains)
			input := prompt(fmt.Sprintf("\nAdd? [1-%d, n]: ", len(results)))
			if input == "" || strings.EqualFold(input, "n") {
				return nil
			}
			pick, _ = strconv.Atoi(input)
		}
		if pick < 1 || pick > len(results) {
			return fmt.Errorf("pick must be between 1 and %d", len(results))
		}
		chosen := results[pick-1]

		if existing, ok := a.store.FindByID(chosen.ID); ok {
			if jsonOutput {
				printJSON(out, map[string]any{"added": false, "record": existing})
				return nil
			}
			fmt.Fprintf(out, "%s is already in your list (%s)\n", existing.Title, existing.Status)
			return nil
		}

		rec, err := a.resolver.Expand(ctx, chosen)
		if err != nil {
			if errors.Is(err, resolve.ErrNoData) {
				return fmt.Errorf("could not load details for %s: %w", chosen.Title, err)
			}
			return err
		}
		added, err := a.store.Add(ctx, rec)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(out, map[string]any{"added": added, "record": rec})
			return nil
		}
		printAdded(out, rec, added)
		return nil
	})
}

func printCandidates(w io.Writer, query string, cands []resolve.Candidate, tracked func(int64) bool) {
	fmt.Fprintf(w, "Found %d results for %q:\n\n", len(cands), query)
	fmt.Fprintf(w, "  # │ %-40s │ %4s │ %-6s │ %6s │ %s\n", "TITLE", "YEAR", "TYPE", "RATING", "TMDB")
	fmt.Fprintln(w, "────┼──────────────────────────────────────────┼──────┼────────┼────────┼─────────")

	for i, c := range cands {
		mark := ""
		if tracked != nil && tracked(c.ID) {
			mark = "  ✓"
		}
		fmt.Fprintf(w, " %2d │ %-40s │ %4s │ %-6s │ %6s │ %d%s\n",
			i+1, truncate(c.Title, 40), yearOrDash(c.Year()), kindLabel(c.Kind), formatRating(c.Rating), c.ID, mark)
	}
}

// printAdded reports the outcome of Add. added is false when the title
// landed in the catalog after the tracked check ran.
func printAdded(w io.Writer, rec *media.Record, added bool) {
	if !added {
		fmt.Fprintf(w, "%s is already in your list\n", rec.Title)
		return
	}
	fmt.Fprintf(w, "Added %s (%s) as %s\n", rec.Title, yearOrDash(rec.Year), rec.Status)
	if rec.IsSeries() {
		keys := rec.SeasonKeys()
		fmt.Fprintf(w, "  %d seasons tracked\n", len(keys))
	}
}
