// Package physics defines the narrow physics contract the corridor
// simulation drives, and ships a small reference engine that satisfies it.
//
// The simulation never reaches into engine internals: it creates bodies,
// registers them with a World, steps the World, and asks it for contact
// points between two specific bodies.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// aabbMargin inflates broadphase bounds so resting contact counts as overlap.
const aabbMargin = 0.05

// Group is a collision filter bit set.
type Group uint16

// Collision groups used by the corridor.
const (
	GroupStatic    Group = 1 << 0 // Platforms and spawn enclosure
	GroupCharacter Group = 1 << 1 // The player capsule
	GroupObstacle  Group = 1 << 2 // Rotating and static hazards
	GroupAll       Group = 0xFFFF
)

// Flags adjust how the engine treats a body.
type Flags uint8

const (
	// FlagStatic marks a body that never moves on its own.
	FlagStatic Flags = 1 << iota
	// FlagKinematic marks a body moved explicitly through SetTransform or an Action.
	FlagKinematic
	// FlagNoContactResponse bodies are reported by queries but never push anything.
	FlagNoContactResponse
	// FlagGhost bodies track their overlapping pairs every step.
	FlagGhost
)

// ShapeKind identifies the collision shape of a body.
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeCapsule
)

// Shape describes collision geometry in body-local space.
type Shape struct {
	Kind        ShapeKind
	HalfExtents mgl64.Vec3 // Box half sizes
	Radius      float64    // Capsule radius
	HalfHeight  float64    // Capsule half segment length along local Y
}

// BoxShape returns a box shape with the given full size.
func BoxShape(size mgl64.Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: size.Mul(0.5)}
}

// CapsuleShape returns a Y-aligned capsule. Height is the length of the
// cylindrical section, total height is height + 2*radius.
func CapsuleShape(radius, height float64) Shape {
	return Shape{Kind: ShapeCapsule, Radius: radius, HalfHeight: height / 2}
}

// Transform is a rigid placement in world space.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Identity returns a transform at the origin with no rotation.
func Identity() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// At returns an unrotated transform at p.
func At(p mgl64.Vec3) Transform {
	return Transform{Position: p, Rotation: mgl64.QuatIdent()}
}

// ToLocal maps a world point into this transform's local frame.
func (t Transform) ToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Conjugate().Rotate(p.Sub(t.Position))
}

// ToWorld maps a local point into world space.
func (t Transform) ToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(p).Add(t.Position)
}

// Body is a collision object owned by its creator and registered with at
// most one World at a time.
type Body struct {
	shape     Shape
	transform Transform
	flags     Flags

	group Group
	mask  Group
	world World // non-nil while registered

	overlaps int
}

// NewBody creates an unregistered body.
func NewBody(shape Shape, t Transform, flags Flags) *Body {
	if t.Rotation.Len() == 0 {
		t.Rotation = mgl64.QuatIdent()
	}
	return &Body{shape: shape, transform: t, flags: flags}
}

// NewStaticBox creates a static box of the given full size.
func NewStaticBox(size mgl64.Vec3, t Transform) *Body {
	return NewBody(BoxShape(size), t, FlagStatic)
}

// Shape returns the body's collision shape.
func (b *Body) Shape() Shape { return b.shape }

// Transform returns the body's world transform.
func (b *Body) Transform() Transform { return b.transform }

// SetTransform places the body. Used for kinematic animation and warps.
func (b *Body) SetTransform(t Transform) { b.transform = t }

// Flags returns the body flags.
func (b *Body) Flags() Flags { return b.flags }

// Has reports whether all bits of f are set.
func (b *Body) Has(f Flags) bool { return b.flags&f == f }

// Registered reports whether the body currently belongs to a world.
func (b *Body) Registered() bool { return b.world != nil }

// Group returns the collision group assigned at registration.
func (b *Body) Group() Group { return b.group }

// Mask returns the collision mask assigned at registration.
func (b *Body) Mask() Group { return b.mask }

// OverlapCount returns how many bodies overlapped this ghost after the last step.
func (b *Body) OverlapCount() int { return b.overlaps }

// collides applies group/mask filtering in both directions.
func (b *Body) collides(o *Body) bool {
	return b.group&o.mask != 0 && o.group&b.mask != 0
}

// AABB returns the world-space axis aligned bounds.
func (b *Body) AABB() (lo, hi mgl64.Vec3) {
	var ext mgl64.Vec3
	switch b.shape.Kind {
	case ShapeBox:
		h := b.shape.HalfExtents
		// Sum of absolute rotated axes gives the tight bound of an OBB.
		for i := 0; i < 3; i++ {
			var axis mgl64.Vec3
			axis[i] = h[i]
			r := b.transform.Rotation.Rotate(axis)
			ext = ext.Add(mgl64.Vec3{math.Abs(r[0]), math.Abs(r[1]), math.Abs(r[2])})
		}
	case ShapeCapsule:
		up := b.transform.Rotation.Rotate(mgl64.Vec3{0, b.shape.HalfHeight, 0})
		r := b.shape.Radius
		ext = mgl64.Vec3{math.Abs(up[0]) + r, math.Abs(up[1]) + r, math.Abs(up[2]) + r}
	}
	ext = ext.Add(mgl64.Vec3{aabbMargin, aabbMargin, aabbMargin})
	p := b.transform.Position
	return p.Sub(ext), p.Add(ext)
}

// ContactPoint is one closest-feature pair between two bodies.
// Distance is negative when the shapes penetrate.
type ContactPoint struct {
	Distance  float64
	PositionA mgl64.Vec3 // On the surface of the first body
	PositionB mgl64.Vec3 // On the surface of the second body
	Normal    mgl64.Vec3 // Unit normal pointing from B towards A
}

// StepInfo describes one internal substep handed to actions.
type StepInfo struct {
	Dt    float64 // Substep length in seconds
	Index int     // Zero-based substep index within the Step call
	Count int     // Number of substeps in the Step call
	Frame float64 // dt passed to the Step call
}

// Action is a custom per-substep resolver registered with a World,
// e.g. a kinematic character controller.
type Action interface {
	UpdateAction(w World, step StepInfo)
}

// World is the contract between the simulation and a physics engine.
// It is not safe for concurrent use.
type World interface {
	// Step advances the simulation by dt using at most maxSubsteps internal steps.
	Step(dt float64, maxSubsteps int)
	// AddBody registers b with collision filtering.
	AddBody(b *Body, group, mask Group)
	// RemoveBody deregisters b. Removing an unregistered body is a no-op.
	RemoveBody(b *Body)
	// ContactPairTest returns contact points between a and b without
	// changing any simulation state.
	ContactPairTest(a, b *Body) []ContactPoint
	// AddAction registers a per-substep resolver.
	AddAction(a Action)
	// Bodies returns the currently registered bodies.
	Bodies() []*Body
}
