package corridor

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-corridor/internal/config"
	"github.com/vovakirdan/tui-corridor/internal/core"
	"github.com/vovakirdan/tui-corridor/internal/games/corridor/sim"
)

func runtimeConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed}
}

func newGame(t *testing.T, seed int64, mutate func(*config.CorridorConfig)) *Game {
	t.Helper()
	cfg := config.DefaultCorridorConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	g, err := New(Options{Config: &cfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.Reset(runtimeConfig(seed)); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.CorridorConfig)
		want   error
	}{
		{"no substeps", func(c *config.CorridorConfig) { c.Physics.Substeps = 0 }, config.ErrInvalidConfig},
		{"unknown kind", func(c *config.CorridorConfig) { c.Obstacles.Kinds = []string{"lava"} }, sim.ErrBadLayout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultCorridorConfig()
			tc.mutate(&cfg)
			_, err := New(Options{Config: &cfg})
			if !errors.Is(err, tc.want) {
				t.Errorf("New() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestResetStartsIdle(t *testing.T) {
	g := newGame(t, 1, nil)

	for range 10 {
		g.Step(core.NewInputFrame())
	}
	s := g.Snapshot()
	if s.State != sim.Idle {
		t.Fatalf("state = %v, want Idle", s.State)
	}
	if s.Ticks != 0 || s.Distance != 0 {
		t.Errorf("idle session advanced: ticks=%d distance=%v", s.Ticks, s.Distance)
	}
	if !g.Locked() {
		t.Error("input should start captured")
	}
}

func TestJumpStartsRun(t *testing.T) {
	g := newGame(t, 1, nil)

	g.Step(frame(core.ActionJump))
	if got := g.Snapshot().State; got != sim.Running {
		t.Fatalf("state = %v, want Running", got)
	}
	if got := g.Snapshot().DeniedJumps; got != 0 {
		t.Errorf("the starting key must not count as a jump, denied = %d", got)
	}
}

func TestPauseToggles(t *testing.T) {
	g := newGame(t, 1, nil)
	g.Start()

	res := g.Step(frame(core.ActionPause))
	if !res.State.Paused {
		t.Fatal("expected paused")
	}
	ticks := g.Snapshot().Ticks
	g.Step(core.NewInputFrame())
	if g.Snapshot().Ticks != ticks {
		t.Error("paused session advanced")
	}

	res = g.Step(frame(core.ActionPause))
	if res.State.Paused {
		t.Error("expected running after second pause")
	}
}

func TestFocusTogglesLock(t *testing.T) {
	g := newGame(t, 1, nil)
	g.Step(frame(core.ActionFocus))
	if g.Locked() {
		t.Error("focus should release the lock")
	}
	g.Step(frame(core.ActionFocus))
	if !g.Locked() {
		t.Error("focus should capture again")
	}
}

func TestRunIsLostAndRestarts(t *testing.T) {
	g := newGame(t, 3, nil)
	g.Start()

	lost := false
	for range 600 {
		if res := g.Step(core.NewInputFrame()); res.Lost {
			lost = true
			break
		}
	}
	if !lost {
		t.Fatal("a runner that never jumps should hit the first obstacle")
	}
	if !g.State().GameOver {
		t.Error("State().GameOver = false after loss")
	}
	sum := g.Summary()
	if sum.Cause == sim.CauseNone.String() || sum.Seed != 3 {
		t.Errorf("unexpected summary %+v", sum)
	}

	g.Step(frame(core.ActionRestart))
	s := g.Snapshot()
	if s.State != sim.Running {
		t.Fatalf("state after restart = %v, want Running", s.State)
	}
	if s.Distance > 1 || s.Losses != 1 {
		t.Errorf("restart should clear the run: distance=%v losses=%d", s.Distance, s.Losses)
	}
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]core.InputFrame, 300)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		if i%20 == 0 {
			inputs[i].Set(core.ActionJump)
		}
	}

	run := func() sim.Snapshot {
		g := newGame(t, 12345, nil)
		for _, in := range inputs {
			if g.Step(in).State.GameOver {
				break
			}
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if a.Distance != b.Distance || a.Ticks != b.Ticks || a.ObstacleOffset != b.ObstacleOffset {
		t.Fatalf("runs differ: distance %v/%v ticks %d/%d offset %d/%d",
			a.Distance, b.Distance, a.Ticks, b.Ticks, a.ObstacleOffset, b.ObstacleOffset)
	}
	for i := range a.Obstacles {
		if a.Obstacles[i].Kind != b.Obstacles[i].Kind || a.Obstacles[i].Phase != b.Obstacles[i].Phase {
			t.Errorf("obstacle %d differs: %+v vs %+v", i, a.Obstacles[i], b.Obstacles[i])
		}
	}
}

func TestEnclosureBodies(t *testing.T) {
	tests := []struct {
		name      string
		enclosure bool
		want      int
	}{
		// plates + player + 5 obstacles + 10 platforms
		{"enclosed", true, 5 + 1 + 5 + 10},
		{"open", false, 1 + 1 + 5 + 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newGame(t, 1, func(c *config.CorridorConfig) { c.Session.Enclosure = tc.enclosure })
			if got := len(g.world.Bodies()); got != tc.want {
				t.Errorf("bodies = %d, want %d", got, tc.want)
			}
			if got := g.scene.Len(); got != 15 {
				t.Errorf("visuals = %d, want 15", got)
			}
		})
	}
}

func TestRender(t *testing.T) {
	g := newGame(t, 1, func(c *config.CorridorConfig) { c.Session.ReportDeniedJumps = true })
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"CORRIDOR", "Dist: 0", "LOCKED", "Denied: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("idle frame missing %q", want)
		}
	}
	if !strings.ContainsRune(out, PlayerChar) {
		t.Error("player not drawn")
	}

	g.Start()
	g.Step(core.NewInputFrame())
	g.Render(screen)
	if out := screen.String(); !strings.ContainsRune(out, PlatformChar) {
		t.Error("platforms not drawn")
	}
}
