package corridor

import (
	"github.com/vovakirdan/tui-corridor/internal/core"
	"github.com/vovakirdan/tui-corridor/internal/games/corridor/sim"
)

type visualKey struct {
	kind   sim.Kind
	offset int
}

// scene is the terminal stand-in for a render graph: it keeps one color
// per live track entity, assigned when the window spawns it.
type scene struct {
	visuals map[visualKey]core.Color
	added   int
	removed int
}

func newScene() *scene {
	return &scene{visuals: make(map[visualKey]core.Color)}
}

func (s *scene) AddVisual(e *sim.Entity) {
	s.visuals[visualKey{e.Kind, e.Offset}] = paletteFor(e.Kind, e.Offset)
	s.added++
}

func (s *scene) RemoveVisual(e *sim.Entity) {
	delete(s.visuals, visualKey{e.Kind, e.Offset})
	s.removed++
}

// color returns the color of a live entity, or the kind default.
func (s *scene) color(kind sim.Kind, offset int) core.Color {
	if c, ok := s.visuals[visualKey{kind, offset}]; ok {
		return c
	}
	return paletteFor(kind, offset)
}

// Len returns the number of live visuals.
func (s *scene) Len() int { return len(s.visuals) }

func paletteFor(kind sim.Kind, offset int) core.Color {
	switch kind {
	case sim.PlatformTile:
		if offset%2 == 0 {
			return core.ColorBlue
		}
		return core.ColorPink
	case sim.RotatingObstacle:
		return core.ColorBrightRed
	case sim.StaticObstacle:
		return core.ColorOrange
	default:
		return core.ColorDefault
	}
}
