// Package corridor implements the terminal endless runner: it builds a
// physics world and a sim.Loop from config and draws the corridor top-down.
package corridor

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-corridor/internal/config"
	"github.com/vovakirdan/tui-corridor/internal/core"
	"github.com/vovakirdan/tui-corridor/internal/games/corridor/sim"
	"github.com/vovakirdan/tui-corridor/internal/physics"
	"github.com/vovakirdan/tui-corridor/internal/storage"
)

// ID is the storage identifier of the game.
const ID = "corridor"

// Options configure a Game. Nothing is read from package state.
type Options struct {
	ConfigPath string                  // Optional YAML override
	Config     *config.CorridorConfig  // Preloaded config, wins over ConfigPath
	Difficulty config.DifficultyPreset // Empty keeps the config value
	Logger     *log.Logger
}

// Game adapts a sim.Loop to the platform: key actions in, screen out.
type Game struct {
	cfg     config.CorridorConfig
	runtime core.RuntimeConfig
	logger  *log.Logger

	world      *physics.DiscreteWorld
	loop       *sim.Loop
	scene      *scene
	difficulty *config.DifficultyManager

	preset         config.DifficultyPreset
	obstacleLayout sim.Layout
	platformLayout sim.Layout
	locked         bool
	snap           sim.Snapshot
}

// New loads and validates the configuration. Call Reset before stepping.
func New(opts Options) (*Game, error) {
	var cfg config.CorridorConfig
	if opts.Config != nil {
		cfg = *opts.Config
	} else {
		var err error
		if cfg, err = config.LoadCorridor(opts.ConfigPath); err != nil {
			return nil, err
		}
	}
	if opts.Difficulty != "" {
		config.ApplyCorridorPreset(&cfg, opts.Difficulty)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	obstacles, err := layoutFrom(cfg.Obstacles)
	if err != nil {
		return nil, fmt.Errorf("obstacles: %w", err)
	}
	platforms, err := layoutFrom(cfg.Platforms)
	if err != nil {
		return nil, fmt.Errorf("platforms: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{
		cfg:            cfg,
		logger:         logger,
		preset:         opts.Difficulty,
		obstacleLayout: obstacles,
		platformLayout: platforms,
		difficulty:     config.NewDifficultyManager(cfg.Difficulty),
	}, nil
}

func layoutFrom(t config.TrackLayout) (sim.Layout, error) {
	l := sim.Layout{
		Capacity:   t.Capacity,
		Spacing:    t.Spacing,
		Lead:       t.Lead,
		Candidates: t.Candidates,
		SpinMax:    t.SpinMax,
	}
	for _, name := range t.Kinds {
		k, err := sim.ParseKind(name)
		if err != nil {
			return l, err
		}
		l.Kinds = append(l.Kinds, k)
	}
	return l, nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return ID }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Corridor" }

// Config returns the effective configuration.
func (g *Game) Config() config.CorridorConfig { return g.cfg }

// Reset builds a fresh world and session. The run stays Idle until the
// first jump or Start.
func (g *Game) Reset(runtime core.RuntimeConfig) error {
	if runtime.TickRate <= 0 {
		runtime.TickRate = core.DefaultConfig().TickRate
	}
	g.runtime = runtime

	p := g.cfg.Physics
	g.world = physics.NewDiscreteWorld(
		physics.WithFixedStep(p.FixedStep),
		physics.WithContactThreshold(math.Max(physics.DefaultContactThreshold, 2*p.ContactTolerance)),
	)
	g.scene = newScene()
	g.buildEnclosure()

	spawn := vec(g.cfg.Player.Spawn)
	character := physics.NewCharacterController(physics.At(spawn), physics.CharacterParams{
		Radius:    g.cfg.Player.Radius,
		Height:    g.cfg.Player.Height,
		Gravity:   p.Gravity,
		JumpSpeed: p.JumpSpeed,
		CanJump:   true,
	})
	g.world.AddBody(character.Body(), physics.GroupCharacter, physics.GroupAll)
	g.world.AddAction(character)

	ctrl, err := sim.NewController(character, spawn, mgl64.QuatIdent(), g.cfg.Player.Speed)
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}

	seed := runtime.Seed
	obstacles, err := sim.NewWindow(g.world, g.scene, g.obstacleLayout, rand.New(rand.NewSource(seed)),
		sim.WithWindowLogger(g.logger, "obstacles"))
	if err != nil {
		return fmt.Errorf("obstacles: %w", err)
	}
	platforms, err := sim.NewWindow(g.world, g.scene, g.platformLayout, rand.New(rand.NewSource(seed+1)),
		sim.WithWindowLogger(g.logger, "platforms"))
	if err != nil {
		return fmt.Errorf("platforms: %w", err)
	}
	classifier, err := sim.NewClassifier(g.world, p.ContactTolerance)
	if err != nil {
		return err
	}
	sc := g.cfg.Scenery
	scenery := sim.NewScenery(sim.SceneryLayout{
		Rings:       sc.Rings,
		RingSpacing: sc.RingSpacing,
		RingMargin:  sc.RingMargin,
		Cubes:       sc.Cubes,
		CubeDepth:   sc.CubeDepth,
	}, rand.New(rand.NewSource(seed+2)))

	g.loop, err = sim.NewLoop(sim.Parts{
		World:      g.world,
		Controller: ctrl,
		Obstacles:  obstacles,
		Platforms:  platforms,
		Classifier: classifier,
		Scenery:    scenery,
	}, sim.Config{
		Substeps:            p.Substeps,
		FallThreshold:       p.FallThreshold,
		RequireLock:         g.cfg.Session.RequireLock,
		ResetTrackOnRestart: g.cfg.Session.ResetTrackOnRestart,
	}, sim.WithLogger(g.logger), sim.WithPace(g.pace))
	if err != nil {
		return err
	}

	g.locked = true
	g.snap = g.loop.Snapshot()
	g.logger.Debug("session built", "seed", seed, "bodies", len(g.world.Bodies()))
	return nil
}

type plate struct{ size, pos mgl64.Vec3 }

// buildEnclosure adds the spawn plate and, when enabled, the box around it.
func (g *Game) buildEnclosure() {
	plates := []plate{
		{mgl64.Vec3{10, 0.1, 10}, mgl64.Vec3{0, -0.05, 0}},
	}
	if g.cfg.Session.Enclosure {
		plates = append(plates,
			plate{mgl64.Vec3{0.1, 10, 10}, mgl64.Vec3{5, 4.9, 0}},  // right
			plate{mgl64.Vec3{0.1, 10, 10}, mgl64.Vec3{-5, 4.9, 0}}, // left
			plate{mgl64.Vec3{10, 10, 0.1}, mgl64.Vec3{0, 4.9, -5}}, // back
			plate{mgl64.Vec3{10, 0.1, 10}, mgl64.Vec3{0, 9.9, 0}},  // ceiling
		)
	}
	for _, p := range plates {
		g.world.AddBody(physics.NewStaticBox(p.size, physics.At(p.pos)), physics.GroupStatic, physics.GroupAll)
	}
}

func (g *Game) pace(distance, elapsed float64) (speed, spin float64) {
	return g.difficulty.Speed(g.cfg.Player.Speed, distance, elapsed),
		g.difficulty.Spin(g.cfg.Obstacles.SpinMax, distance, elapsed)
}

// Start begins the run without waiting for input.
func (g *Game) Start() bool {
	ok := g.loop.Start()
	g.snap = g.loop.Snapshot()
	return ok
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionFocus) {
		g.locked = !g.locked
	}

	switch state := g.loop.State(); {
	case state == sim.Idle && in.Has(core.ActionJump):
		g.loop.Start()
		in = core.InputFrame{} // the starting key is not a jump
	case in.Has(core.ActionRestart):
		g.loop.Restart()
	case state == sim.Idle && in.Has(core.ActionPause):
		g.loop.Start()
	case in.Has(core.ActionPause):
		g.loop.TogglePause()
	}

	dt := 1.0 / float64(g.runtime.TickRate)
	out := g.loop.Tick(sim.Input{Jump: in.Has(core.ActionJump), Locked: g.locked}, dt)
	g.snap = g.loop.Snapshot()
	return core.StepResult{State: g.State(), Lost: out.Lost}
}

// State returns the platform summary of the run.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    int(g.snap.Distance),
		GameOver: g.snap.State == sim.Lost,
		Paused:   g.snap.State == sim.Paused,
	}
}

// Snapshot returns the state published after the last step.
func (g *Game) Snapshot() sim.Snapshot { return g.snap }

// Locked reports whether jump input is currently captured.
func (g *Game) Locked() bool { return g.locked }

// Summary describes the current run for persistence.
func (g *Game) Summary() storage.Run {
	return storage.Run{
		Distance:       int(g.snap.Distance),
		Cause:          g.snap.Cause.String(),
		Duration:       time.Duration(g.snap.Elapsed * float64(time.Second)),
		ObstacleOffset: g.snap.ObstacleOffset,
		DeniedJumps:    g.snap.DeniedJumps,
		Seed:           g.runtime.Seed,
		Difficulty:     string(g.preset),
	}
}

func vec(v config.Vec3) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }
