package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func floor() *Body {
	return NewStaticBox(mgl64.Vec3{10, 0.1, 10}, At(mgl64.Vec3{0, -0.05, 0}))
}

func capsuleAt(y float64) *Body {
	return NewBody(CapsuleShape(0.5, 3), At(mgl64.Vec3{0, y, 0}), FlagGhost)
}

func TestCapsuleBoxDistance(t *testing.T) {
	tests := []struct {
		name string
		y    float64
		want float64
	}{
		{"separated", 2.5, 0.5},
		{"touching", 2.0, 0.0},
		{"penetrating", 1.9, -0.1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cp, ok := contactPair(capsuleAt(tc.y), floor())
			require.True(t, ok)
			require.InDelta(t, tc.want, cp.Distance, 1e-6)
			require.InDelta(t, 1.0, cp.Normal.Y(), 1e-6, "normal should point up out of the floor")
		})
	}
}

func TestContactPairSymmetry(t *testing.T) {
	c, f := capsuleAt(2.3), floor()

	ab, ok := contactPair(c, f)
	require.True(t, ok)
	ba, ok := contactPair(f, c)
	require.True(t, ok)

	require.InDelta(t, ab.Distance, ba.Distance, 1e-9)
	require.InDelta(t, -ab.Normal.Y(), ba.Normal.Y(), 1e-9)
}

func TestContactPairTestThreshold(t *testing.T) {
	w := NewDiscreteWorld()
	f := floor()
	w.AddBody(f, GroupStatic, GroupAll)

	near := capsuleAt(2.05)
	require.Len(t, w.ContactPairTest(near, f), 1)

	far := capsuleAt(3.0)
	require.Empty(t, w.ContactPairTest(far, f))

	require.Empty(t, w.ContactPairTest(f, f), "a body has no contact with itself")
}

func TestContactPairTestRotatedBox(t *testing.T) {
	w := NewDiscreteWorld()
	bar := NewStaticBox(mgl64.Vec3{15, 0.5, 0.5}, At(mgl64.Vec3{0, 0.25, 0}))
	player := NewBody(CapsuleShape(0.5, 3), At(mgl64.Vec3{5, 2.0, 0}), FlagGhost)

	require.NotEmpty(t, w.ContactPairTest(player, bar), "bar along X reaches x=5")

	bar.SetTransform(Transform{
		Position: mgl64.Vec3{0, 0.25, 0},
		Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}),
	})
	require.Empty(t, w.ContactPairTest(player, bar), "bar along Z misses x=5")
}

func TestContactPairTestHasNoSideEffects(t *testing.T) {
	w := NewDiscreteWorld()
	f := floor()
	c := capsuleAt(1.5)
	w.AddBody(f, GroupStatic, GroupAll)
	w.AddBody(c, GroupCharacter, GroupAll)

	before := c.Transform()
	_ = w.ContactPairTest(c, f)
	require.Equal(t, before, c.Transform())
	require.Equal(t, 0, w.Steps())
}

func TestUnsupportedPair(t *testing.T) {
	w := NewDiscreteWorld()
	a := NewStaticBox(mgl64.Vec3{1, 1, 1}, Identity())
	b := NewStaticBox(mgl64.Vec3{1, 1, 1}, Identity())
	require.Nil(t, w.ContactPairTest(a, b))
}

func TestStepSubstepClamp(t *testing.T) {
	w := NewDiscreteWorld()
	w.Step(1.0, 10)
	require.Equal(t, 10, w.Steps(), "long frames are clamped to maxSubsteps")

	w.Step(0.5/60, 10)
	require.Equal(t, 10, w.Steps(), "half a fixed step is carried over")
	w.Step(0.5/60, 10)
	require.Equal(t, 11, w.Steps())

	w.Step(-1, 10)
	w.Step(math.NaN(), 10)
	require.Equal(t, 11, w.Steps())
}

func TestRemoveBody(t *testing.T) {
	w := NewDiscreteWorld()
	f := floor()
	w.RemoveBody(f) // not registered
	require.False(t, f.Registered())

	w.AddBody(f, GroupStatic, GroupAll)
	require.True(t, f.Registered())
	require.Len(t, w.Bodies(), 1)

	w.RemoveBody(f)
	require.False(t, f.Registered())
	require.Empty(t, w.Bodies())
}

func newCharacterWorld(t *testing.T, y float64) (*DiscreteWorld, *CharacterController) {
	t.Helper()
	w := NewDiscreteWorld()
	w.AddBody(floor(), GroupStatic, GroupAll)
	cc := NewCharacterController(At(mgl64.Vec3{0, y, 0}), CharacterParams{
		Radius:    0.5,
		Height:    3,
		Gravity:   25,
		JumpSpeed: 25.0 / 3,
		CanJump:   true,
	})
	w.AddBody(cc.Body(), GroupCharacter, GroupAll)
	w.AddAction(cc)
	return w, cc
}

func TestCharacterLandsOnFloor(t *testing.T) {
	w, cc := newCharacterWorld(t, 5)

	for i := 0; i < 120; i++ {
		w.Step(1.0/60, 10)
	}

	require.True(t, cc.OnGround())
	require.InDelta(t, 2.0, cc.Body().Transform().Position.Y(), 0.05)
	require.Equal(t, 1, cc.OverlapCount())
}

func TestCharacterWalkIsPerStep(t *testing.T) {
	w, cc := newCharacterWorld(t, 2.0)
	cc.SetWalkDirection(mgl64.Vec3{0, 0, 0.5})

	for i := 0; i < 4; i++ {
		w.Step(1.0/60, 10)
	}
	require.InDelta(t, 2.0, cc.Body().Transform().Position.Z(), 1e-9)

	// The same displacement spread over several substeps still totals once per Step.
	cc.SetWalkDirection(mgl64.Vec3{0, 0, 1})
	w.Step(3.0/60, 10)
	require.InDelta(t, 3.0, cc.Body().Transform().Position.Z(), 1e-9)
}

func TestCharacterWalkShortSteps(t *testing.T) {
	for _, hz := range []float64{30, 120, 144} {
		w, cc := newCharacterWorld(t, 2.0)
		dt := 1 / hz
		for i := 0; i < int(2*hz); i++ {
			w.Step(dt, 10)
			cc.SetWalkDirection(mgl64.Vec3{0, 0, 10 * dt})
		}
		// Walk set after the last Step is still pending.
		require.InDelta(t, 20.0, cc.Body().Transform().Position.Z(), 0.5, "hz=%v", hz)
	}
}

func TestCharacterJump(t *testing.T) {
	w, cc := newCharacterWorld(t, 5)
	require.False(t, cc.Jump(), "airborne jump must be denied")

	for i := 0; i < 90; i++ {
		w.Step(1.0/60, 10)
	}
	require.True(t, cc.Jump())
	require.Equal(t, 1, cc.Jumps())

	peak := 0.0
	for i := 0; i < 20; i++ {
		w.Step(1.0/60, 10)
		peak = math.Max(peak, cc.Body().Transform().Position.Y())
	}
	require.Greater(t, peak, 3.0, "jump speed 25/3 under gravity 25 rises about 1.4 units")
	require.False(t, cc.Jump(), "no double jump")
}

func TestCharacterWarp(t *testing.T) {
	w, cc := newCharacterWorld(t, 2)
	cc.SetWalkDirection(mgl64.Vec3{1, 0, 0})
	w.Step(1.0/60, 10)

	cc.Warp(mgl64.Vec3{0, 5, 0})
	require.Equal(t, mgl64.Vec3{0, 5, 0}, cc.Body().Transform().Position)
	require.Equal(t, mgl64.Vec3{}, cc.WalkDirection())
	require.Zero(t, cc.VerticalVelocity())
}

func TestCharacterIgnoresNoResponseBodies(t *testing.T) {
	w, cc := newCharacterWorld(t, 2.0)
	hazard := NewBody(BoxShape(mgl64.Vec3{15, 0.5, 0.5}), At(mgl64.Vec3{0, 0.25, 0}), FlagStatic|FlagNoContactResponse)
	w.AddBody(hazard, GroupObstacle, GroupAll)

	for i := 0; i < 10; i++ {
		w.Step(1.0/60, 10)
	}

	// Standing on the floor only; the hazard never pushes the capsule up.
	require.InDelta(t, 2.0, cc.Body().Transform().Position.Y(), 0.05)
	require.Equal(t, 2, cc.OverlapCount())
	require.NotEmpty(t, w.ContactPairTest(cc.Body(), hazard))
}
