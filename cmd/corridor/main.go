// corridor is an endless runner for the terminal: keep moving down the
// corridor and jump the spinning bars.
//
// Usage:
//
//	corridor play            - Play a run
//	corridor menu            - Start menu to pick a difficulty interactively
//	corridor sim             - Headless deterministic run, prints a summary
//	corridor serve           - Start SSH server for remote play
//	corridor scores          - Show the longest runs
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible runs
//	--db <path>           - Set database path (default: ~/.corridor/runs.db)
//	--config <path>       - Custom corridor config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-corridor/internal/config"
	"github.com/vovakirdan/tui-corridor/internal/games/corridor"
	"github.com/vovakirdan/tui-corridor/internal/platform/tui"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "corridor",
	Short: "Corridor - an endless runner in your terminal",
	Long: `Corridor streams a never-ending track of platforms and spinning
obstacles toward you. Jump over them, don't fall off, go far.

Available commands:
  play     - Play a run directly
  menu     - Interactive difficulty picker
  sim      - Headless run for tuning and CI
  serve    - Start SSH server for remote play
  scores   - View the longest runs

Examples:
  corridor play --difficulty hard
  corridor menu
  corridor sim --seconds 30 --jump-every 0.5
  corridor serve --ssh :2222
  corridor scores`,
	SilenceUsage: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
			return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		if _, err := log.ParseLevel(flagLogLevel); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.corridor/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom corridor config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to a file instead of stderr")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds the process logger from the global flags. The returned
// closer releases the log file, if any.
func newLogger(prefix string) (*log.Logger, func(), error) {
	out, closer := os.Stderr, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, func() { f.Close() }
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("log level %q: %w", flagLogLevel, err)
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closer, nil
}

// newCorridor builds a game honouring --config. A preset chosen in a menu
// wins over --difficulty.
func newCorridor(logger *log.Logger, preset config.DifficultyPreset) (*corridor.Game, error) {
	if preset == "" {
		preset = config.ParsePreset(strings.ToLower(flagDifficulty))
	}
	return corridor.New(corridor.Options{
		ConfigPath: flagConfig,
		Difficulty: preset,
		Logger:     logger,
	})
}

// gameFactory adapts newCorridor for the platform layer.
func gameFactory(logger *log.Logger) tui.GameFactory {
	return func(preset config.DifficultyPreset) (tui.Game, error) {
		g, err := newCorridor(logger, preset)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}
