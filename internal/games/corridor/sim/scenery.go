package sim

import (
	"math"
	"math/rand"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// SceneryLayout configures the cosmetic elements around the corridor.
type SceneryLayout struct {
	Rings       int
	RingSpacing float64
	RingMargin  float64
	Cubes       int
	CubeDepth   float64
}

// Ring is a triangle outline spanning the corridor.
type Ring struct {
	Offset   int
	Z        float64
	Rotation float64 // around the corridor axis
}

// Cube is a floating decoration beside the corridor.
type Cube struct {
	Position     mgl64.Vec3
	Size         float64
	SpinX, SpinY float64 // radians per second
	RotX, RotY   float64
}

// Scenery recycles rings the player has passed and wraps cubes forward.
// It never touches the physics world.
type Scenery struct {
	layout     SceneryLayout
	rng        *rand.Rand
	rings      []Ring
	ringOffset int
	rotation   float64
	cubes      []Cube
}

// NewScenery builds the initial rings and cubes.
func NewScenery(layout SceneryLayout, rng *rand.Rand) *Scenery {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	s := &Scenery{layout: layout, rng: rng}
	s.Reset()
	return s
}

// Reset rebuilds all elements from offset zero.
func (s *Scenery) Reset() {
	s.rings = s.rings[:0]
	s.ringOffset = 0
	s.rotation = 0
	for range s.layout.Rings {
		s.rings = append(s.rings, s.nextRing())
	}
	s.cubes = s.cubes[:0]
	for range s.layout.Cubes {
		s.cubes = append(s.cubes, s.newCube(0))
	}
}

func (s *Scenery) nextRing() Ring {
	r := Ring{
		Offset:   s.ringOffset,
		Z:        float64(s.ringOffset) * s.layout.RingSpacing,
		Rotation: s.rotation,
	}
	s.ringOffset++
	s.rotation++
	return r
}

func (s *Scenery) newCube(baseZ float64) Cube {
	x := (s.rng.Float64()*2 - 1) * 30
	if x < 0 {
		x -= 10
	} else {
		x += 10
	}
	size := (math.Pow(s.rng.Float64(), 2)*0.5 + 0.05) * 3
	return Cube{
		Position: mgl64.Vec3{x, s.rng.Float64()*50 - 12.75, baseZ + s.rng.Float64()*s.layout.CubeDepth},
		Size:     size,
		SpinX:    s.rng.Float64() * 0.25,
		SpinY:    s.rng.Float64() * 0.25,
	}
}

// Advance spins cubes by dt and recycles every ring and cube the player
// at playerZ has passed by the ring margin.
func (s *Scenery) Advance(playerZ, dt float64) {
	kept := s.rings[:0]
	passed := 0
	for _, r := range s.rings {
		if playerZ > r.Z+s.layout.RingMargin {
			passed++
			continue
		}
		kept = append(kept, r)
	}
	for range passed {
		kept = append(kept, s.nextRing())
	}
	s.rings = kept

	for i := range s.cubes {
		c := &s.cubes[i]
		c.RotX += dt * c.SpinX
		c.RotY += dt * c.SpinY
		if s.layout.CubeDepth > 0 && playerZ > c.Position.Z()+s.layout.RingMargin {
			c.Position[2] += s.layout.CubeDepth
		}
	}
}

// Rings returns the live rings, nearest first.
func (s *Scenery) Rings() []Ring { return slices.Clone(s.rings) }

// Cubes returns the decorations.
func (s *Scenery) Cubes() []Cube { return slices.Clone(s.cubes) }
