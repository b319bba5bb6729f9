package sim

import (
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-corridor/internal/physics"
)

// DefaultSubsteps is the engine substep cap per tick.
const DefaultSubsteps = 10

// DefaultFallThreshold is the height at or below which a run is lost.
const DefaultFallThreshold = -40.0

// Config holds the loop tunables. It is passed in explicitly; the loop
// reads no package state.
type Config struct {
	Substeps            int
	FallThreshold       float64
	RequireLock         bool // jumps only count while Input.Locked
	ResetTrackOnRestart bool // rebuild obstacles and scenery on Restart
}

// DefaultConfig returns the stock loop configuration.
func DefaultConfig() Config {
	return Config{
		Substeps:      DefaultSubsteps,
		FallThreshold: DefaultFallThreshold,
		RequireLock:   true,
	}
}

// Parts are the collaborators a Loop orchestrates. Platforms and Scenery
// are optional.
type Parts struct {
	World      physics.World
	Controller *Controller
	Obstacles  *Window
	Platforms  *Window
	Classifier *Classifier
	Scenery    *Scenery
}

// Input is the player intent for one tick.
type Input struct {
	Jump   bool
	Locked bool // input is captured by the game
}

// Outcome summarises one Tick.
type Outcome struct {
	State State
	Lost  bool // the run was lost during this tick
	Cause LoseCause
}

// PaceFunc returns the forward speed and obstacle spin bound for a run
// that has covered distance units in elapsed seconds.
type PaceFunc func(distance, elapsed float64) (speed, spin float64)

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger logs state transitions at info level and recycling at debug.
func WithLogger(l *log.Logger) LoopOption {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// WithPace installs a difficulty curve.
func WithPace(fn PaceFunc) LoopOption {
	return func(lp *Loop) { lp.pace = fn }
}

// Loop is the per-tick orchestrator of one session. All methods are safe
// for concurrent use; a tick holds the loop lock from the physics step to
// the end of classification.
type Loop struct {
	mu sync.Mutex

	world      physics.World
	ctrl       *Controller
	obstacles  *Window
	platforms  *Window
	classifier *Classifier
	scenery    *Scenery

	cfg    Config
	pace   PaceFunc
	logger *log.Logger

	m       machine
	elapsed float64 // run clock, frozen outside Running
	ticks   int
	best    float64 // furthest distance this run
	hit     *Entity
}

// NewLoop wires the collaborators and fills the windows. The session
// starts Idle.
func NewLoop(p Parts, cfg Config, opts ...LoopOption) (*Loop, error) {
	switch {
	case p.World == nil:
		return nil, ErrNoPhysics
	case p.Controller == nil:
		return nil, ErrNoCharacter
	case p.Obstacles == nil:
		return nil, ErrBadLayout
	}
	if p.Classifier == nil {
		c, err := NewClassifier(p.World, DefaultTolerance)
		if err != nil {
			return nil, err
		}
		p.Classifier = c
	}
	if cfg.Substeps < 1 {
		cfg.Substeps = DefaultSubsteps
	}
	if math.IsNaN(cfg.FallThreshold) {
		cfg.FallThreshold = DefaultFallThreshold
	}

	l := &Loop{
		world:      p.World,
		ctrl:       p.Controller,
		obstacles:  p.Obstacles,
		platforms:  p.Platforms,
		classifier: p.Classifier,
		scenery:    p.Scenery,
		cfg:        cfg,
		logger:     discardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.obstacles.Fill()
	if l.platforms != nil {
		l.platforms.Fill()
	}
	return l, nil
}

// Tick advances the session by dt seconds. Outside Running it does nothing.
func (l *Loop) Tick(in Input, dt float64) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.m.state != Running || !(dt > 0) || math.IsInf(dt, 0) {
		return l.outcome(false)
	}
	l.elapsed += dt
	l.ticks++

	if l.pace != nil {
		speed, spin := l.pace(l.best, l.elapsed)
		l.ctrl.SetSpeed(speed)
		l.obstacles.SetSpinMax(spin)
	}

	l.world.Step(dt, l.cfg.Substeps)

	l.ctrl.begin(dt)
	if in.Jump && (in.Locked || !l.cfg.RequireLock) {
		l.ctrl.Jump()
	}
	pos := l.ctrl.Move(mgl64.Vec3{0, 0, dt * l.ctrl.Speed()}).Position
	if v, ok := l.ctrl.HasCollided(); ok {
		l.logger.Debug("overlap", "colliding", v, "z", pos.Z())
	}
	l.best = math.Max(l.best, pos.Z()-l.ctrl.Spawn().Z())

	if pos.Y() <= l.cfg.FallThreshold {
		l.lose(CauseFall, nil)
		return l.outcome(true)
	}

	candidates := l.obstacles.Advance(pos.Z(), l.elapsed)
	if l.platforms != nil {
		l.platforms.Advance(pos.Z(), l.elapsed)
	}

	lost := false
	if hit := l.classifier.CheckAll(l.ctrl.Body(), candidates); hit != nil {
		l.lose(CauseContact, hit)
		lost = true
	}

	if l.scenery != nil {
		l.scenery.Advance(pos.Z(), dt)
	}
	return l.outcome(lost)
}

func (l *Loop) outcome(lost bool) Outcome {
	return Outcome{State: l.m.state, Lost: lost, Cause: l.m.cause}
}

func (l *Loop) lose(c LoseCause, hit *Entity) {
	if !l.m.lose(c) {
		return
	}
	l.hit = hit
	fields := []any{"cause", c, "distance", math.Floor(l.best), "elapsed", l.elapsed}
	if hit != nil {
		fields = append(fields, "kind", hit.Kind, "offset", hit.Offset)
	}
	l.logger.Info("run lost", fields...)
}

// Start leaves Idle.
func (l *Loop) Start() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	ok := l.m.start()
	if ok {
		l.logger.Info("run started")
	}
	return ok
}

// Pause freezes a running session.
func (l *Loop) Pause() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	ok := l.m.pause()
	if ok {
		l.logger.Debug("paused", "elapsed", l.elapsed)
	}
	return ok
}

// Resume continues a paused session.
func (l *Loop) Resume() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	ok := l.m.resume()
	if ok {
		l.logger.Debug("resumed", "elapsed", l.elapsed)
	}
	return ok
}

// TogglePause pauses a running session or resumes a paused one.
func (l *Loop) TogglePause() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m.state == Paused {
		return l.m.resume()
	}
	return l.m.pause()
}

// Restart begins a new run after a loss: the player is teleported
// to spawn and the run clock restarts. Platforms are rebuilt around the
// spawn point; obstacle offsets carry on unless ResetTrackOnRestart is set.
func (l *Loop) Restart() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.m.restart() {
		return false
	}
	l.ctrl.Teleport(l.ctrl.Spawn())
	l.elapsed = 0
	l.best = 0
	l.hit = nil
	if l.platforms != nil {
		l.platforms.Reset()
		l.platforms.Fill()
	}
	if l.cfg.ResetTrackOnRestart {
		l.resetTrack()
	}
	l.logger.Info("run restarted", "obstacle_offset", l.obstacles.Offset())
	return true
}

// Reset returns to a fresh Idle session: windows rebuilt from offset zero,
// player at spawn, counters cleared.
func (l *Loop) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m.reset()
	l.ctrl.Teleport(l.ctrl.Spawn())
	l.elapsed = 0
	l.ticks = 0
	l.best = 0
	l.hit = nil
	if l.platforms != nil {
		l.platforms.Reset()
		l.platforms.Fill()
	}
	l.resetTrack()
}

func (l *Loop) resetTrack() {
	l.obstacles.Reset()
	l.obstacles.Fill()
	if l.scenery != nil {
		l.scenery.Reset()
	}
}

// State returns the current gameplay state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.state
}

// EntityState is a copy of an entity for readers outside the loop.
type EntityState struct {
	Kind     Kind
	Offset   int
	Position mgl64.Vec3
	Size     mgl64.Vec3
	Phase    float64
	Hit      bool // the entity that ended the run
}

// Snapshot is the state published after a tick for rendering and scoring.
type Snapshot struct {
	State       State
	Cause       LoseCause
	Player      physics.Transform
	Velocity    mgl64.Vec3
	OnGround    bool
	Distance    float64 // furthest progress this run
	Elapsed     float64
	Ticks       int
	Losses      int
	DeniedJumps int
	Speed       float64

	ObstacleOffset int
	PlatformOffset int
	Obstacles      []EntityState
	Platforms      []EntityState
	Rings          []Ring
	Cubes          []Cube
}

// Snapshot copies the session state.
func (l *Loop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Snapshot{
		State:          l.m.state,
		Cause:          l.m.cause,
		Player:         l.ctrl.Body().Transform(),
		Velocity:       l.ctrl.Velocity(),
		OnGround:       l.ctrl.OnGround(),
		Distance:       l.best,
		Elapsed:        l.elapsed,
		Ticks:          l.ticks,
		Losses:         l.m.losses,
		DeniedJumps:    l.ctrl.DeniedJumps(),
		Speed:          l.ctrl.Speed(),
		ObstacleOffset: l.obstacles.Offset(),
		Obstacles:      l.entityStates(l.obstacles),
	}
	if l.platforms != nil {
		s.PlatformOffset = l.platforms.Offset()
		s.Platforms = l.entityStates(l.platforms)
	}
	if l.scenery != nil {
		s.Rings = l.scenery.Rings()
		s.Cubes = l.scenery.Cubes()
	}
	return s
}

func (l *Loop) entityStates(w *Window) []EntityState {
	out := make([]EntityState, 0, w.Len())
	for _, e := range w.entities {
		out = append(out, EntityState{
			Kind:     e.Kind,
			Offset:   e.Offset,
			Position: e.Position,
			Size:     e.Size(),
			Phase:    e.Phase,
			Hit:      e == l.hit,
		})
	}
	return out
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
