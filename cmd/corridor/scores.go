package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-corridor/internal/platform/tui"
	"github.com/vovakirdan/tui-corridor/internal/storage"
)

var (
	flagScoresLimit       int
	flagScoresRecent      bool
	flagScoresInteractive bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the longest runs",
	Long: `Display the top runs recorded in the runs database.

Examples:
  corridor scores
  corridor scores --recent --limit 20
  corridor scores --interactive`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show the most recent runs instead of the longest")
	scoresCmd.Flags().BoolVarP(&flagScoresInteractive, "interactive", "i", false, "Open the scoreboard screen")
}

func runScores(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open runs database: %w", err)
	}
	defer store.Close()

	if flagScoresInteractive {
		cfg := terminalConfig()
		_, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
		return err
	}

	var runs []storage.Run
	title := "Longest Runs"
	if flagScoresRecent {
		title = "Recent Runs"
		runs, err = store.RecentRuns(flagScoresLimit)
	} else {
		runs, err = store.TopRuns(flagScoresLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieve runs: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s - Corridor\n\n", title)

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'corridor play' to set the first record!")
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-8s  %-7s  %-7s  %-6s  %s\n", "Rank", "Distance", "Cause", "Time", "Mode", "Date")
	fmt.Fprintf(out, "  %-4s  %-8s  %-7s  %-7s  %-6s  %s\n", "----", "--------", "-----", "----", "----", "----")
	for i, r := range runs {
		mode := r.Difficulty
		if mode == "" {
			mode = "-"
		}
		fmt.Fprintf(out, "  %-4d  %-8d  %-7s  %-7s  %-6s  %s\n",
			i+1, r.Distance, r.Cause, fmt.Sprintf("%.1fs", r.Duration.Seconds()), mode,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.Stats(); err == nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Best: %d  |  Runs: %d  |  Avg: %.1f\n", stats.BestDistance, stats.Runs, stats.AvgDistance)
	}
	return nil
}
