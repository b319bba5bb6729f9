package sim

import (
	"math"

	"github.com/vovakirdan/tui-corridor/internal/physics"
)

// DefaultTolerance is the largest contact distance that counts as a hit.
const DefaultTolerance = 0.05

// Classifier decides player/entity contact with narrow-phase queries.
// It never steps or otherwise mutates the world.
type Classifier struct {
	world     physics.World
	tolerance float64
}

// NewClassifier creates a classifier. A negative or NaN tolerance selects
// DefaultTolerance.
func NewClassifier(world physics.World, tolerance float64) (*Classifier, error) {
	if world == nil {
		return nil, ErrNoPhysics
	}
	if math.IsNaN(tolerance) || tolerance < 0 {
		tolerance = DefaultTolerance
	}
	return &Classifier{world: world, tolerance: tolerance}, nil
}

// Tolerance returns the hit distance bound.
func (c *Classifier) Tolerance() float64 { return c.tolerance }

// Check reports whether any contact point between a and b lies within the
// tolerance. The bound is inclusive.
func (c *Classifier) Check(a, b *physics.Body) bool {
	if a == nil || b == nil {
		return false
	}
	for _, cp := range c.world.ContactPairTest(a, b) {
		if cp.Distance <= c.tolerance {
			return true
		}
	}
	return false
}

// CheckAll returns the first candidate in contact with player, or nil.
func (c *Classifier) CheckAll(player *physics.Body, candidates []*Entity) *Entity {
	for _, e := range candidates {
		if c.Check(player, e.Body()) {
			return e
		}
	}
	return nil
}
