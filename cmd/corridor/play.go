package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-corridor/internal/core"
	"github.com/vovakirdan/tui-corridor/internal/platform/tui"
	"github.com/vovakirdan/tui-corridor/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a run directly.

Controls:
  Space/Up/W - Jump (also starts the run)
  P/Esc      - Pause
  R          - Restart (after a loss or while paused)
  F/Tab      - Capture or release input (jumps only count while captured)
  Ctrl+S     - Save a screenshot to ~/.corridor/screenshots
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Start at lowest difficulty, slow spinners
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, fast spinners and tight spacing
  fixed  - No progression, stays at config's initial level

Examples:
  corridor play
  corridor play --difficulty hard
  corridor play --config ./my-corridor.yaml --log-file corridor.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

// terminalConfig builds a runtime config from the terminal size and flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the runs database. Failure is a warning: play continues.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger("corridor")
	if err != nil {
		return err
	}
	defer closeLog()

	game, err := gameFactory(logger)("")
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, terminalConfig()); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
