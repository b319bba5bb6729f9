package sim

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/tui-corridor/internal/physics"
)

// DefaultCandidates bounds the per-tick contact queries of a window.
const DefaultCandidates = 3

// Layout configures one streaming window.
type Layout struct {
	Capacity   int
	Spacing    float64
	Lead       float64 // z of offset 0
	Candidates int     // collision candidates returned by Advance
	Kinds      []Kind  // picked uniformly at spawn
	SpinMax    float64 // spin speed bound for animated kinds
}

// SpawnZ returns the z of the entity spawned at offset n. Consecutive
// offsets are spacing+1 apart.
func (l Layout) SpawnZ(n int) float64 {
	return float64(n)*l.Spacing + l.Lead + float64(n)
}

func (l Layout) validate() error {
	switch {
	case l.Capacity < 1:
		return fmt.Errorf("capacity %d: %w", l.Capacity, ErrBadLayout)
	case !(l.Spacing > 0) || math.IsInf(l.Spacing, 0):
		return fmt.Errorf("spacing %v: %w", l.Spacing, ErrBadLayout)
	case l.Candidates < 0:
		return fmt.Errorf("candidates %d: %w", l.Candidates, ErrBadLayout)
	case len(l.Kinds) == 0:
		return fmt.Errorf("no kinds: %w", ErrBadLayout)
	}
	for _, k := range l.Kinds {
		if int(k) >= len(kindTable) {
			return fmt.Errorf("kind %v: %w", k, ErrBadLayout)
		}
	}
	return nil
}

// Window keeps a fixed number of entities ahead of the player, recycling
// the ones left behind into new ones at the far end.
type Window struct {
	world  physics.World
	scene  Scene
	layout Layout
	rng    *rand.Rand
	logger *log.Logger
	name   string

	entities   []*Entity // spawn order
	offset     int       // next spawn offset
	candidates []*Entity
	recycled   int
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithWindowLogger logs recycling at debug level.
func WithWindowLogger(l *log.Logger, name string) WindowOption {
	return func(w *Window) {
		if l != nil {
			w.logger = l
		}
		w.name = name
	}
}

// NewWindow creates an empty window. Call Fill to populate it.
func NewWindow(world physics.World, scene Scene, layout Layout, rng *rand.Rand, opts ...WindowOption) (*Window, error) {
	if world == nil {
		return nil, ErrNoPhysics
	}
	if scene == nil {
		return nil, ErrNoScene
	}
	if err := layout.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	layout.Kinds = slices.Clone(layout.Kinds)

	w := &Window{
		world:    world,
		scene:    scene,
		layout:   layout,
		rng:      rng,
		logger:   discardLogger(),
		entities: make([]*Entity, 0, layout.Capacity),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Fill spawns entities at consecutive offsets until the window is full.
func (w *Window) Fill() {
	for len(w.entities) < w.layout.Capacity {
		w.entities = append(w.entities, w.spawn(0))
	}
}

// spawn creates the entity at the next offset, animated to time t.
func (w *Window) spawn(t float64) *Entity {
	n := w.offset
	w.offset++

	kind := w.layout.Kinds[0]
	if len(w.layout.Kinds) > 1 {
		kind = w.layout.Kinds[w.rng.Intn(len(w.layout.Kinds))]
	}
	// Spin direction alternates with offset parity; only the magnitude is random.
	var spin float64
	if kindTable[kind].animated {
		sign := 1.0
		if n%2 != 0 {
			sign = -1
		}
		spin = sign * w.layout.SpinMax * w.rng.Float64()
	}

	e := newEntity(w.world, w.scene, kind, n, w.layout.SpawnZ(n), spin)
	e.update(t)
	return e
}

// Advance animates every entity to elapsed time t and recycles those the
// player at playerZ has passed by their margin. The live count is unchanged.
// It returns up to Layout.Candidates retained collidable entities, nearest
// spawn order first. The slice is reused by the next call.
func (w *Window) Advance(playerZ, t float64) []*Entity {
	w.candidates = w.candidates[:0]
	kept := w.entities[:0]
	spawned := 0

	for _, e := range w.entities {
		e.update(t)
		if !e.passed(playerZ) {
			kept = append(kept, e)
			if e.Kind.Collidable() && len(w.candidates) < w.layout.Candidates {
				w.candidates = append(w.candidates, e)
			}
			continue
		}
		w.logger.Debug("recycle", "window", w.name, "offset", e.Offset, "kind", e.Kind, "z", e.Position.Z())
		e.destroy()
		spawned++
	}
	for range spawned {
		kept = append(kept, w.spawn(t))
	}
	w.entities = kept
	w.recycled += spawned
	return w.candidates
}

// Reset destroys every entity and rewinds the offset counter.
func (w *Window) Reset() {
	for _, e := range w.entities {
		e.destroy()
	}
	clear(w.entities)
	w.entities = w.entities[:0]
	w.offset = 0
	w.candidates = w.candidates[:0]
}

// SetSpinMax changes the spin bound used by future spawns.
func (w *Window) SetSpinMax(v float64) {
	if v >= 0 && !math.IsInf(v, 0) {
		w.layout.SpinMax = v
	}
}

// Len returns the number of live entities.
func (w *Window) Len() int { return len(w.entities) }

// Capacity returns the fixed window size.
func (w *Window) Capacity() int { return w.layout.Capacity }

// Offset returns the next spawn offset.
func (w *Window) Offset() int { return w.offset }

// Recycled returns how many entities have been recycled since creation.
func (w *Window) Recycled() int { return w.recycled }

// Layout returns the window layout.
func (w *Window) Layout() Layout { return w.layout }

// Entities returns the live entities in spawn order.
func (w *Window) Entities() []*Entity { return slices.Clone(w.entities) }
