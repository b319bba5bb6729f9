// Package core provides the terminal-facing primitives shared by the corridor
// game and the platform layer. It has no Bubble Tea dependency so game logic
// stays pure and testable.
package core

// Rect is an integer screen rectangle.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Intersects returns true if this rectangle overlaps with another.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Viewport projects the corridor floor plane (world X, world Z) onto a
// screen region as a top-down view. World Z grows upwards on screen and the
// camera follows a focus Z.
type Viewport struct {
	Area   Rect
	Scale  float64 // Screen columns per world unit along X
	Depth  float64 // World units per screen row along Z
	Behind float64 // World units of track shown behind the focus
}

// Project returns the cell for world point (wx, wz) when the camera is at
// focusZ. ok is false when the point falls outside the area.
func (v Viewport) Project(wx, wz, focusZ float64) (x, y int, ok bool) {
	if v.Scale <= 0 || v.Depth <= 0 {
		return 0, 0, false
	}
	cx := v.Area.X + v.Area.W/2
	x = cx + roundInt(wx*v.Scale)
	rowsBehind := roundInt(v.Behind / v.Depth)
	bottom := v.Area.Bottom() - 1
	y = bottom - rowsBehind - roundInt((wz-focusZ)/v.Depth)
	return x, y, v.Area.Contains(x, y)
}

// Span returns the world Z range visible at focusZ.
func (v Viewport) Span(focusZ float64) (near, far float64) {
	return focusZ - v.Behind, focusZ - v.Behind + float64(v.Area.H)*v.Depth
}

func roundInt(f float64) int {
	if f < 0 {
		return -int(-f + 0.5)
	}
	return int(f + 0.5)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
