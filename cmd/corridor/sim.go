package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-corridor/internal/core"
	"github.com/vovakirdan/tui-corridor/internal/games/corridor"
	"github.com/vovakirdan/tui-corridor/internal/games/corridor/sim"
)

var (
	flagSimSeconds   float64
	flagSimJumpEvery float64
	flagSimFrame     bool
	flagSimSave      bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless simulation and print a summary",
	Long: `Run the corridor without a terminal UI. The same seed, tick rate and
jump cadence always give the same run, which makes this useful for tuning
configs and for CI.

Examples:
  corridor sim --seed 42
  corridor sim --seconds 60 --jump-every 0.4 --difficulty hard
  corridor sim --seed 7 --frame --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().Float64Var(&flagSimSeconds, "seconds", 10, "Simulated time limit in seconds")
	simCmd.Flags().Float64Var(&flagSimJumpEvery, "jump-every", 0, "Press jump every N simulated seconds (0 = never)")
	simCmd.Flags().BoolVar(&flagSimFrame, "frame", false, "Print the final frame")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record the run in the runs database")
}

// simResult is what a headless run reports.
type simResult struct {
	snap  sim.Snapshot
	frame string
}

// simulate drives g for at most seconds of simulated time, jumping every
// jumpEvery seconds. It stops at the first loss.
func simulate(g *corridor.Game, cfg core.RuntimeConfig, seconds, jumpEvery float64) simResult {
	if !g.Start() {
		return simResult{snap: g.Snapshot()}
	}

	ticks := int(math.Ceil(seconds * float64(cfg.TickRate)))
	cadence := 0
	if jumpEvery > 0 {
		cadence = max(1, int(math.Round(jumpEvery*float64(cfg.TickRate))))
	}

	for i := range ticks {
		in := core.NewInputFrame()
		if cadence > 0 && i%cadence == 0 {
			in.Set(core.ActionJump)
		}
		if g.Step(in).State.GameOver {
			break
		}
	}

	screen := core.NewScreen(cfg.ScreenW, cfg.ScreenH)
	g.Render(screen)
	return simResult{snap: g.Snapshot(), frame: screen.String()}
}

func runSim(cmd *cobra.Command, _ []string) error {
	if !(flagSimSeconds > 0) {
		return fmt.Errorf("--seconds must be > 0")
	}

	logger, closeLog, err := newLogger("corridor-sim")
	if err != nil {
		return err
	}
	defer closeLog()

	g, err := newCorridor(logger, "")
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagFPS, Seed: flagSeed}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if err := g.Reset(cfg); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	res := simulate(g, cfg, flagSimSeconds, flagSimJumpEvery)
	s := res.snap

	out := cmd.OutOrStdout()
	if flagSimFrame {
		fmt.Fprintln(out, res.frame)
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "state:      %s\n", s.State)
	if s.State == sim.Lost {
		fmt.Fprintf(out, "cause:      %s\n", s.Cause)
	}
	fmt.Fprintf(out, "distance:   %d\n", int(s.Distance))
	fmt.Fprintf(out, "elapsed:    %.2fs (%d ticks)\n", s.Elapsed, s.Ticks)
	fmt.Fprintf(out, "position:   %.2f %.2f %.2f\n", s.Player.Position.X(), s.Player.Position.Y(), s.Player.Position.Z())
	fmt.Fprintf(out, "obstacles:  offset %d\n", s.ObstacleOffset)
	fmt.Fprintf(out, "platforms:  offset %d\n", s.PlatformOffset)
	fmt.Fprintf(out, "denied:     %d jumps\n", s.DeniedJumps)
	fmt.Fprintf(out, "seed:       %d\n", cfg.Seed)

	if flagSimSave && s.State == sim.Lost {
		store := openStore()
		if store == nil {
			return nil
		}
		defer store.Close()
		if _, err := store.SaveRun(g.Summary()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return nil
}
