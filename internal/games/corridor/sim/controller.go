package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-corridor/internal/physics"
)

// Character is the engine-side kinematic actor a Controller drives.
// physics.CharacterController satisfies it.
type Character interface {
	physics.Action
	Body() *physics.Body
	SetWalkDirection(d mgl64.Vec3)
	Jump() bool
	Warp(p mgl64.Vec3)
	OnGround() bool
	VerticalVelocity() float64
	OverlapCount() int
}

// Controller owns the player capsule and turns per-tick motion requests
// into walk commands on the engine character.
type Controller struct {
	character   Character
	spawn       mgl64.Vec3
	orientation mgl64.Quat
	speed       float64

	dt    float64
	moved bool
	last  physics.Transform
	walk  mgl64.Vec3

	colliding   bool // overlap state seen by the last HasCollided call
	collided    bool // last reported edge
	deniedJumps int
}

// NewController places character at spawn with the given orientation.
func NewController(character Character, spawn mgl64.Vec3, orientation mgl64.Quat, speed float64) (*Controller, error) {
	if character == nil || character.Body() == nil {
		return nil, ErrNoCharacter
	}
	if !finiteVec(spawn) {
		return nil, fmt.Errorf("spawn %v: %w", spawn, ErrBadSpawn)
	}
	if l := orientation.Len(); math.IsNaN(l) || math.Abs(l-1) > 1e-6 {
		return nil, fmt.Errorf("orientation %v: %w", orientation, ErrBadSpawn)
	}

	c := &Controller{
		character:   character,
		spawn:       spawn,
		orientation: orientation,
		speed:       speed,
	}
	character.Body().SetTransform(physics.Transform{Position: spawn, Rotation: orientation})
	c.Teleport(spawn)
	return c, nil
}

// begin opens a new tick of length dt and re-arms Move.
func (c *Controller) begin(dt float64) {
	c.dt = dt
	c.moved = false
}

// Move sets the walk displacement for this tick and returns the current
// world transform. Only the first call per tick takes effect.
func (c *Controller) Move(dir mgl64.Vec3) physics.Transform {
	if c.moved {
		return c.last
	}
	c.moved = true
	if !finiteVec(dir) {
		dir = mgl64.Vec3{}
	}
	c.walk = dir
	c.character.SetWalkDirection(dir)
	c.last = c.character.Body().Transform()
	return c.last
}

// Jump forwards a jump request and reports whether the engine accepted it.
func (c *Controller) Jump() bool {
	if c.character.Jump() {
		return true
	}
	c.deniedJumps++
	return false
}

// DeniedJumps returns how many jump requests the engine refused.
func (c *Controller) DeniedJumps() int { return c.deniedJumps }

// Teleport relocates the capsule and clears its motion. Never call it
// from inside a World.Step.
func (c *Controller) Teleport(p mgl64.Vec3) {
	c.character.Warp(p)
	c.walk = mgl64.Vec3{}
	c.last = c.character.Body().Transform()
}

// HasCollided reports overlap edges: true when the overlap count goes from
// zero to nonzero, false on the way back. changed is false when nothing
// happened since the previous call and value then repeats the last edge.
func (c *Controller) HasCollided() (value, changed bool) {
	now := c.character.OverlapCount() > 0
	if now == c.colliding {
		return c.collided, false
	}
	c.colliding = now
	c.collided = now
	return now, true
}

// Body returns the player capsule.
func (c *Controller) Body() *physics.Body { return c.character.Body() }

// Position returns the capsule center.
func (c *Controller) Position() mgl64.Vec3 { return c.character.Body().Transform().Position }

// Orientation returns the capsule rotation.
func (c *Controller) Orientation() mgl64.Quat { return c.character.Body().Transform().Rotation }

// Spawn returns the spawn point used by restarts.
func (c *Controller) Spawn() mgl64.Vec3 { return c.spawn }

// Velocity returns the commanded horizontal velocity and the engine's
// vertical velocity.
func (c *Controller) Velocity() mgl64.Vec3 {
	v := mgl64.Vec3{0, c.character.VerticalVelocity(), 0}
	if c.dt > 0 {
		v[0] = c.walk.X() / c.dt
		v[2] = c.walk.Z() / c.dt
	}
	return v
}

// OnGround reports whether the capsule stood on ground after the last step.
func (c *Controller) OnGround() bool { return c.character.OnGround() }

// Speed returns the forward speed in units per second.
func (c *Controller) Speed() float64 { return c.speed }

// SetSpeed changes the forward speed.
func (c *Controller) SetSpeed(s float64) {
	if s >= 0 && !math.IsInf(s, 0) {
		c.speed = s
	}
}

func finiteVec(v mgl64.Vec3) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
