package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Contacts whose normal is steeper than this count as ground.
	groundNormalY       = 0.7
	// recoverPasses bounds the penetration recovery iterations per substep.
	recoverPasses       = 4
	defaultMaxFallSpeed = 55.0
)

// CharacterParams configures a CharacterController.
type CharacterParams struct {
	Radius       float64
	Height       float64 // Cylindrical section length
	Gravity      float64 // Downward acceleration magnitude
	JumpSpeed    float64
	MaxFallSpeed float64
	CanJump      bool
}

// CharacterController is a kinematic capsule driven by walk and jump
// commands. The walk direction is a displacement per Step call of length dt;
// each substep applies the share Dt/dt of it, so calls too short to run a
// substep carry their time into the next call instead of losing it.
type CharacterController struct {
	body   *Body
	params CharacterParams

	walk     mgl64.Vec3
	vertical float64
	onGround bool
	jumps    int
}

// NewCharacterController creates a ghost capsule at t. The body is not
// registered; callers add it with AddBody and the controller with AddAction.
func NewCharacterController(t Transform, p CharacterParams) *CharacterController {
	if p.MaxFallSpeed <= 0 {
		p.MaxFallSpeed = defaultMaxFallSpeed
	}
	shape := CapsuleShape(p.Radius, p.Height)
	return &CharacterController{
		body:   NewBody(shape, t, FlagKinematic|FlagGhost),
		params: p,
	}
}

// Body returns the ghost capsule.
func (c *CharacterController) Body() *Body { return c.body }

// SetWalkDirection sets the per-step displacement.
func (c *CharacterController) SetWalkDirection(d mgl64.Vec3) { c.walk = d }

// WalkDirection returns the current per-step displacement.
func (c *CharacterController) WalkDirection() mgl64.Vec3 { return c.walk }

// Jump starts a jump if the controller is allowed to and stands on ground.
func (c *CharacterController) Jump() bool {
	if !c.params.CanJump || !c.onGround {
		return false
	}
	c.vertical = c.params.JumpSpeed
	c.onGround = false
	c.jumps++
	return true
}

// Warp moves the capsule without sweeping and clears its motion.
func (c *CharacterController) Warp(p mgl64.Vec3) {
	t := c.body.Transform()
	t.Position = p
	c.body.SetTransform(t)
	c.walk = mgl64.Vec3{}
	c.vertical = 0
	c.onGround = false
}

// Jumps returns how many jumps were accepted.
func (c *CharacterController) Jumps() int { return c.jumps }

// OnGround reports whether the last substep ended on a walkable surface.
func (c *CharacterController) OnGround() bool { return c.onGround }

// VerticalVelocity returns the current vertical speed (positive is up).
func (c *CharacterController) VerticalVelocity() float64 { return c.vertical }

// OverlapCount returns the ghost's broadphase overlap count.
func (c *CharacterController) OverlapCount() int { return c.body.OverlapCount() }

// UpdateAction integrates gravity, applies this substep's share of the walk
// direction and recovers from penetration against responsive bodies.
func (c *CharacterController) UpdateAction(w World, step StepInfo) {
	if step.Count < 1 {
		return
	}

	c.vertical -= c.params.Gravity * step.Dt
	if c.vertical < -c.params.MaxFallSpeed {
		c.vertical = -c.params.MaxFallSpeed
	}

	t := c.body.Transform()
	move := c.walk.Mul(walkShare(step))
	move[1] += c.vertical * step.Dt
	t.Position = t.Position.Add(move)
	c.body.SetTransform(t)

	c.onGround = false
	for pass := 0; pass < recoverPasses; pass++ {
		if !c.recover(w) {
			break
		}
	}
}

// walkShare is the fraction of the per-Step walk applied in one substep.
func walkShare(step StepInfo) float64 {
	if step.Frame > 0 {
		return step.Dt / step.Frame
	}
	return 1 / float64(step.Count)
}

// recover pushes the capsule out of every penetrating responsive body once.
// It reports whether anything was moved.
func (c *CharacterController) recover(w World) bool {
	moved := false
	for _, o := range w.Bodies() {
		if o == c.body || o.Has(FlagNoContactResponse) || o.Has(FlagGhost) || !c.body.collides(o) {
			continue
		}
		cp, ok := contactPair(c.body, o)
		if !ok || cp.Distance >= 0 {
			continue
		}

		t := c.body.Transform()
		t.Position = t.Position.Add(cp.Normal.Mul(-cp.Distance))
		c.body.SetTransform(t)
		moved = true

		switch {
		case cp.Normal.Y() > groundNormalY:
			c.onGround = true
			if c.vertical < 0 {
				c.vertical = 0
			}
		case cp.Normal.Y() < -groundNormalY:
			if c.vertical > 0 {
				c.vertical = 0
			}
		}
	}
	return moved
}
