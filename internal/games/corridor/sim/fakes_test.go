package sim

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-corridor/internal/physics"
)

// fakeWorld records registrations and answers contact queries from a
// script of distances per body.
type fakeWorld struct {
	bodies    map[*physics.Body]physics.Group
	actions   []physics.Action
	distances map[*physics.Body][]float64
	steps     int
	queries   int
	onStep    func(n int)
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		bodies:    make(map[*physics.Body]physics.Group),
		distances: make(map[*physics.Body][]float64),
	}
}

func (w *fakeWorld) Step(dt float64, maxSubsteps int) {
	w.steps++
	for _, a := range w.actions {
		a.UpdateAction(w, physics.StepInfo{Dt: dt, Count: 1})
	}
	if w.onStep != nil {
		w.onStep(w.steps)
	}
}

func (w *fakeWorld) AddBody(b *physics.Body, group, mask physics.Group) { w.bodies[b] = group }
func (w *fakeWorld) RemoveBody(b *physics.Body)                        { delete(w.bodies, b) }
func (w *fakeWorld) AddAction(a physics.Action)                        { w.actions = append(w.actions, a) }

func (w *fakeWorld) Bodies() []*physics.Body {
	out := make([]*physics.Body, 0, len(w.bodies))
	for b := range w.bodies {
		out = append(out, b)
	}
	return out
}

func (w *fakeWorld) ContactPairTest(a, b *physics.Body) []physics.ContactPoint {
	w.queries++
	var out []physics.ContactPoint
	for _, d := range w.distances[b] {
		out = append(out, physics.ContactPoint{Distance: d})
	}
	return out
}

func (w *fakeWorld) registered(b *physics.Body) bool {
	_, ok := w.bodies[b]
	return ok
}

// fakeCharacter moves by its walk direction once per step and reports a
// scripted overlap count.
type fakeCharacter struct {
	body     *physics.Body
	walk     mgl64.Vec3
	canJump  bool
	jumps    int
	overlaps int
	ground   bool
	warps    int
}

func newFakeCharacter() *fakeCharacter {
	return &fakeCharacter{
		body:    physics.NewBody(physics.CapsuleShape(0.5, 3), physics.Identity(), physics.FlagKinematic|physics.FlagGhost),
		canJump: true,
	}
}

func (c *fakeCharacter) UpdateAction(w physics.World, step physics.StepInfo) {
	t := c.body.Transform()
	t.Position = t.Position.Add(c.walk)
	c.body.SetTransform(t)
}

func (c *fakeCharacter) Body() *physics.Body            { return c.body }
func (c *fakeCharacter) SetWalkDirection(d mgl64.Vec3) { c.walk = d }
func (c *fakeCharacter) OnGround() bool                { return c.ground }
func (c *fakeCharacter) VerticalVelocity() float64     { return 0 }
func (c *fakeCharacter) OverlapCount() int             { return c.overlaps }

func (c *fakeCharacter) Jump() bool {
	if !c.canJump {
		return false
	}
	c.jumps++
	return true
}

func (c *fakeCharacter) Warp(p mgl64.Vec3) {
	t := c.body.Transform()
	t.Position = p
	c.body.SetTransform(t)
	c.walk = mgl64.Vec3{}
	c.warps++
}

func (c *fakeCharacter) setPosition(p mgl64.Vec3) {
	t := c.body.Transform()
	t.Position = p
	c.body.SetTransform(t)
}

// fakeScene tracks live visuals.
type fakeScene struct {
	live    map[*Entity]bool
	added   int
	removed int
}

func newFakeScene() *fakeScene { return &fakeScene{live: make(map[*Entity]bool)} }

func (s *fakeScene) AddVisual(e *Entity) {
	s.live[e] = true
	s.added++
}

func (s *fakeScene) RemoveVisual(e *Entity) {
	delete(s.live, e)
	s.removed++
}

func obstacleLayout() Layout {
	return Layout{
		Capacity:   5,
		Spacing:    10,
		Lead:       16,
		Candidates: DefaultCandidates,
		Kinds:      []Kind{RotatingObstacle, StaticObstacle},
		SpinMax:    2,
	}
}

func seeded() *rand.Rand { return rand.New(rand.NewSource(42)) }
