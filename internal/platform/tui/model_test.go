package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-corridor/internal/core"
	"github.com/vovakirdan/tui-corridor/internal/storage"
)

// fakeGame scores one point per tick and ends at loseAt.
type fakeGame struct {
	resetErr error
	resets   int
	steps    int
	loseAt   int
	locked   bool
	inputs   []core.InputFrame
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Reset(core.RuntimeConfig) error {
	g.resets++
	return g.resetErr
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	frame := core.NewInputFrame()
	for a := range in.Actions {
		frame.Set(a)
	}
	g.inputs = append(g.inputs, frame)
	if in.Has(core.ActionFocus) {
		g.locked = !g.locked
	}
	if in.Has(core.ActionRestart) {
		g.steps = 0
	}
	if !g.over() {
		g.steps++
	}
	return core.StepResult{State: g.State(), Lost: g.steps == g.loseAt}
}

func (g *fakeGame) over() bool { return g.loseAt > 0 && g.steps >= g.loseAt }

func (g *fakeGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "fake", core.ColorRed)
}

func (g *fakeGame) State() core.GameState {
	return core.GameState{Score: g.steps, GameOver: g.over()}
}

func (g *fakeGame) Locked() bool { return g.locked }

func (g *fakeGame) Summary() storage.Run {
	return storage.Run{Distance: g.steps, Cause: "contact"}
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 20, ScreenH: 5, TickRate: 60, Seed: 1}
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	next, cmd := m.Update(TickMsg{})
	if cmd == nil && !m.backToMenu {
		t.Fatal("tick did not schedule the next tick")
	}
	return next.(Model)
}

func TestNewModelResetsGame(t *testing.T) {
	g := &fakeGame{}
	if _, err := NewModel(g, nil, testConfig()); err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	if g.resets != 1 {
		t.Errorf("resets = %d, want 1", g.resets)
	}

	bad := &fakeGame{resetErr: errors.New("boom")}
	if _, err := NewModel(bad, nil, testConfig()); err == nil {
		t.Error("expected reset error")
	}
}

func TestModelForwardsInputOnce(t *testing.T) {
	g := &fakeGame{}
	m, _ := NewModel(g, nil, testConfig())

	next, _ := m.Update(keyMsg(" "))
	m = tick(t, next.(Model))
	m = tick(t, m)

	if len(g.inputs) != 2 {
		t.Fatalf("steps = %d, want 2", len(g.inputs))
	}
	if !g.inputs[0].Has(core.ActionJump) {
		t.Error("first tick should carry the jump")
	}
	if g.inputs[1].Has(core.ActionJump) {
		t.Error("input must be cleared after a tick")
	}
}

func TestModelSavesRunOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	g := &fakeGame{loseAt: 3}
	m, _ := NewModel(g, store, testConfig())
	for range 6 {
		m = tick(t, m)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Distance != 3 {
		t.Fatalf("runs = %+v, want one run of 3", runs)
	}

	// A restart clears game over, the next loss is saved again.
	next, _ := m.Update(keyMsg("r"))
	m = next.(Model)
	for range 5 {
		m = tick(t, m)
	}
	if runs, _ = store.RecentRuns(10); len(runs) != 2 {
		t.Errorf("runs after restart = %d, want 2", len(runs))
	}
}

func TestModelFocus(t *testing.T) {
	g := &fakeGame{}
	m, _ := NewModel(g, nil, testConfig())

	next, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = tick(t, next.(Model))
	if !g.locked {
		t.Fatal("click should capture input")
	}

	next, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = tick(t, next.(Model))
	if !g.locked {
		t.Error("click while captured must not release")
	}

	next, _ = m.Update(tea.BlurMsg{})
	tick(t, next.(Model))
	if g.locked {
		t.Error("blur should release input")
	}
}

func TestModelQuitAndBack(t *testing.T) {
	g := &fakeGame{loseAt: 1}
	m, _ := NewModel(g, nil, testConfig())

	next, cmd := m.Update(keyMsg("q"))
	if !next.(Model).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}

	m = tick(t, m)
	next, _ = m.Update(keyMsg("b"))
	if next.(Model).BackToMenu() {
		t.Error("standalone model has no menu to go back to")
	}

	m.canGoBack = true
	next, _ = m.Update(keyMsg("b"))
	if !next.(Model).BackToMenu() {
		t.Error("b after game over should return to menu")
	}
}

func TestModelViewAndResize(t *testing.T) {
	g := &fakeGame{}
	m, _ := NewModel(g, nil, testConfig())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 8})
	m = next.(Model)
	if m.screen.Width() != 30 || m.screen.Height() != 8 {
		t.Errorf("screen = %dx%d, want 30x8", m.screen.Width(), m.screen.Height())
	}
	if g.resets != 1 {
		t.Error("resize must not reset the game")
	}
	if view := m.View(); !strings.Contains(view, "fake") {
		t.Errorf("view missing game output: %q", view)
	}
}
