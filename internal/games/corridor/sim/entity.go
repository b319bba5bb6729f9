package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-corridor/internal/physics"
)

// Kind tags a track entity.
type Kind uint8

const (
	RotatingObstacle Kind = iota
	StaticObstacle
	PlatformTile
)

// kindSpec is the capability record of one Kind.
type kindSpec struct {
	name       string
	size       mgl64.Vec3 // full extents
	lift       float64    // center height above the track surface
	margin     float64    // distance the player must be past z before recycling
	animated   bool       // spins around world Y
	collidable bool       // offered to the classifier
	group      physics.Group
	flags      physics.Flags
}

var kindTable = [...]kindSpec{
	RotatingObstacle: {
		name:       "spinner",
		size:       mgl64.Vec3{15, 0.15, 0.15},
		lift:       0.075,
		margin:     10,
		animated:   true,
		collidable: true,
		group:      physics.GroupObstacle,
		flags:      physics.FlagKinematic | physics.FlagNoContactResponse,
	},
	StaticObstacle: {
		name:       "barrier",
		size:       mgl64.Vec3{10, 1, 0.1},
		lift:       0.5,
		margin:     5,
		collidable: true,
		group:      physics.GroupObstacle,
		flags:      physics.FlagStatic | physics.FlagNoContactResponse,
	},
	PlatformTile: {
		name:   "platform",
		size:   mgl64.Vec3{5, 2, 20},
		lift:   -1,
		margin: 20,
		group:  physics.GroupStatic,
		flags:  physics.FlagStatic,
	},
}

func (k Kind) String() string {
	if int(k) < len(kindTable) {
		return kindTable[k].name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Collidable reports whether entities of this kind are contact candidates.
func (k Kind) Collidable() bool { return int(k) < len(kindTable) && kindTable[k].collidable }

// Size returns the full extents of this kind.
func (k Kind) Size() mgl64.Vec3 { return kindTable[k].size }

// ParseKind maps a config name to a Kind.
func ParseKind(name string) (Kind, error) {
	for k, ks := range kindTable {
		if ks.name == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown track kind %q: %w", name, ErrBadLayout)
}

// Entity is one spawned obstacle or platform tile. It owns its physics
// body registration and its scene visual, and releases both in destroy.
type Entity struct {
	Kind     Kind
	Offset   int        // spawn order index
	Position mgl64.Vec3 // center
	Margin   float64
	Spin     float64 // signed radians per second, zero for static kinds
	Phase    float64 // current rotation around Y

	body     *physics.Body
	world    physics.World
	scene    Scene
	released bool
}

// newEntity builds an entity and registers it with world and scene.
func newEntity(world physics.World, scene Scene, kind Kind, offset int, z, spin float64) *Entity {
	ks := kindTable[kind]
	e := &Entity{
		Kind:     kind,
		Offset:   offset,
		Position: mgl64.Vec3{0, ks.lift, z},
		Margin:   ks.margin,
		world:    world,
		scene:    scene,
	}
	if ks.animated {
		e.Spin = spin
	}
	e.body = physics.NewBody(physics.BoxShape(ks.size), physics.At(e.Position), ks.flags)
	world.AddBody(e.body, ks.group, physics.GroupAll)
	scene.AddVisual(e)
	return e
}

// Body returns the physics handle. It stays valid after destroy but is
// no longer registered.
func (e *Entity) Body() *physics.Body { return e.body }

// Size returns the full extents.
func (e *Entity) Size() mgl64.Vec3 { return kindTable[e.Kind].size }

// Rotation returns the current orientation.
func (e *Entity) Rotation() mgl64.Quat { return e.body.Transform().Rotation }

// Live reports whether the entity has not been destroyed.
func (e *Entity) Live() bool { return !e.released }

// passed reports whether the player is far enough beyond the entity.
func (e *Entity) passed(playerZ float64) bool {
	return !(playerZ < e.Position.Z()+e.Margin)
}

// update applies the per-kind animation at total elapsed time t.
func (e *Entity) update(t float64) {
	switch {
	case e.released:
		return
	case kindTable[e.Kind].animated:
		e.Phase = t * e.Spin
		e.body.SetTransform(physics.Transform{
			Position: e.Position,
			Rotation: mgl64.QuatRotate(e.Phase, mgl64.Vec3{0, 1, 0}),
		})
	}
}

// destroy deregisters the body and removes the visual. Safe to call twice.
func (e *Entity) destroy() {
	if e.released {
		return
	}
	e.released = true
	e.world.RemoveBody(e.body)
	e.scene.RemoveVisual(e)
}
