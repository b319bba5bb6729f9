package physics

import (
	"math"
	"slices"
)

// Engine defaults, matching a 60 Hz fixed-step world.
const (
	DefaultFixedStep        = 1.0 / 60.0
	DefaultContactThreshold = 0.1
)

// DiscreteWorld is the reference World: a fixed-timestep collision world
// with static/kinematic boxes, ghost capsules and registered actions.
// It has no dynamic rigid bodies; everything that moves is kinematic.
type DiscreteWorld struct {
	bodies  []*Body
	actions []Action

	fixedStep        float64
	contactThreshold float64
	accumulator      float64
	steps            int
}

// WorldOption configures a DiscreteWorld.
type WorldOption func(*DiscreteWorld)

// WithFixedStep overrides the internal substep length.
func WithFixedStep(dt float64) WorldOption {
	return func(w *DiscreteWorld) {
		if dt > 0 {
			w.fixedStep = dt
		}
	}
}

// WithContactThreshold sets the largest separation still reported as a contact point.
func WithContactThreshold(d float64) WorldOption {
	return func(w *DiscreteWorld) {
		if d >= 0 {
			w.contactThreshold = d
		}
	}
}

// NewDiscreteWorld creates an empty world.
func NewDiscreteWorld(opts ...WorldOption) *DiscreteWorld {
	w := &DiscreteWorld{
		fixedStep:        DefaultFixedStep,
		contactThreshold: DefaultContactThreshold,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Step advances the world. Time is consumed in fixed substeps; leftover time
// carries to the next call and time beyond maxSubsteps is dropped.
func (w *DiscreteWorld) Step(dt float64, maxSubsteps int) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}
	if maxSubsteps < 1 {
		maxSubsteps = 1
	}

	w.accumulator += dt
	n := int(w.accumulator/w.fixedStep + 1e-9)
	if n > maxSubsteps {
		n = maxSubsteps
		w.accumulator = 0
	} else {
		w.accumulator = math.Max(0, w.accumulator-float64(n)*w.fixedStep)
	}

	for i := 0; i < n; i++ {
		info := StepInfo{Dt: w.fixedStep, Index: i, Count: n, Frame: dt}
		for _, a := range w.actions {
			a.UpdateAction(w, info)
		}
		w.steps++
	}
	w.refreshOverlaps()
}

// Steps returns the number of internal substeps simulated so far.
func (w *DiscreteWorld) Steps() int { return w.steps }

// AddBody registers b. A body already registered elsewhere is moved here.
func (w *DiscreteWorld) AddBody(b *Body, group, mask Group) {
	if b == nil {
		return
	}
	if b.world != nil {
		b.world.RemoveBody(b)
	}
	b.group, b.mask, b.world = group, mask, w
	w.bodies = append(w.bodies, b)
}

// RemoveBody deregisters b.
func (w *DiscreteWorld) RemoveBody(b *Body) {
	if b == nil || b.world != w {
		return
	}
	if i := slices.Index(w.bodies, b); i >= 0 {
		w.bodies = slices.Delete(w.bodies, i, i+1)
	}
	b.world = nil
	b.overlaps = 0
}

// AddAction registers a per-substep resolver.
func (w *DiscreteWorld) AddAction(a Action) {
	if a == nil {
		return
	}
	w.actions = append(w.actions, a)
}

// Bodies returns a copy of the registered body list.
func (w *DiscreteWorld) Bodies() []*Body {
	return slices.Clone(w.bodies)
}

// ContactPairTest returns at most one point: the closest features of a and b,
// when their separation is within the contact threshold.
func (w *DiscreteWorld) ContactPairTest(a, b *Body) []ContactPoint {
	if a == nil || b == nil || a == b {
		return nil
	}
	cp, ok := contactPair(a, b)
	if !ok || cp.Distance > w.contactThreshold {
		return nil
	}
	return []ContactPoint{cp}
}

// refreshOverlaps recomputes broadphase pairs for ghost bodies.
func (w *DiscreteWorld) refreshOverlaps() {
	for _, g := range w.bodies {
		if !g.Has(FlagGhost) {
			continue
		}
		lo, hi := g.AABB()
		count := 0
		for _, o := range w.bodies {
			if o == g || !g.collides(o) {
				continue
			}
			olo, ohi := o.AABB()
			if aabbOverlap(lo, hi, olo, ohi) {
				count++
			}
		}
		g.overlaps = count
	}
}
