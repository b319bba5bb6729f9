package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// searchIterations bounds the ternary searches along a capsule segment.
// The interval shrinks by 1/3 each round, so 60 rounds are far below float noise.
const searchIterations = 60

// contactPair computes the closest features of two bodies. ok is false for
// shape pairs the engine does not support.
func contactPair(a, b *Body) (ContactPoint, bool) {
	switch {
	case a.shape.Kind == ShapeCapsule && b.shape.Kind == ShapeBox:
		return capsuleBox(a, b), true
	case a.shape.Kind == ShapeBox && b.shape.Kind == ShapeCapsule:
		cp := capsuleBox(b, a)
		return ContactPoint{
			Distance:  cp.Distance,
			PositionA: cp.PositionB,
			PositionB: cp.PositionA,
			Normal:    cp.Normal.Mul(-1),
		}, true
	}
	return ContactPoint{}, false
}

// capsuleBox returns the contact between capsule c and box bx.
// The normal points from the box towards the capsule.
func capsuleBox(c, bx *Body) ContactPoint {
	bt := bx.transform
	h := bx.shape.HalfExtents

	up := c.transform.Rotation.Rotate(mgl64.Vec3{0, c.shape.HalfHeight, 0})
	p0 := bt.ToLocal(c.transform.Position.Sub(up))
	p1 := bt.ToLocal(c.transform.Position.Add(up))
	seg := func(t float64) mgl64.Vec3 { return p0.Add(p1.Sub(p0).Mul(t)) }

	outside := func(t float64) float64 {
		q := seg(t)
		return q.Sub(clampBox(q, h)).Len()
	}
	t := ternaryMin(outside)
	q := seg(t)
	closest := clampBox(q, h)
	d := q.Sub(closest).Len()

	var normal mgl64.Vec3
	var dist float64
	if d > 1e-9 {
		normal = q.Sub(closest).Mul(1 / d)
		dist = d - c.shape.Radius
	} else {
		// Segment enters the box: take the deepest point and its exit face.
		depth := func(t float64) float64 { return -penetration(seg(t), h) }
		t = ternaryMin(depth)
		q = seg(t)
		pen := penetration(q, h)
		normal = exitFace(q, h)
		closest = q.Add(normal.Mul(pen))
		dist = -pen - c.shape.Radius
	}

	worldNormal := bt.Rotation.Rotate(normal)
	onBox := bt.ToWorld(closest)
	onCapsule := bt.ToWorld(q).Sub(worldNormal.Mul(c.shape.Radius))
	return ContactPoint{
		Distance:  dist,
		PositionA: onCapsule,
		PositionB: onBox,
		Normal:    worldNormal,
	}
}

// ternaryMin minimises a convex function on [0, 1].
func ternaryMin(f func(float64) float64) float64 {
	lo, hi := 0.0, 1.0
	for i := 0; i < searchIterations; i++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if f(m1) <= f(m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	return (lo + hi) / 2
}

func clampBox(p, h mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(p[0], -h[0], h[0]),
		mgl64.Clamp(p[1], -h[1], h[1]),
		mgl64.Clamp(p[2], -h[2], h[2]),
	}
}

// penetration is the distance from an interior point to the nearest face.
func penetration(p, h mgl64.Vec3) float64 {
	return math.Min(h[0]-math.Abs(p[0]), math.Min(h[1]-math.Abs(p[1]), h[2]-math.Abs(p[2])))
}

// exitFace returns the outward normal of the face nearest to interior point p.
func exitFace(p, h mgl64.Vec3) mgl64.Vec3 {
	best, axis := math.Inf(1), 0
	for i := 0; i < 3; i++ {
		if g := h[i] - math.Abs(p[i]); g < best {
			best, axis = g, i
		}
	}
	var n mgl64.Vec3
	n[axis] = 1
	if p[axis] < 0 {
		n[axis] = -1
	}
	return n
}

// aabbOverlap tests two world-space bounds, touching counts as overlap.
func aabbOverlap(aLo, aHi, bLo, bHi mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if aHi[i] < bLo[i] || bHi[i] < aLo[i] {
			return false
		}
	}
	return true
}
