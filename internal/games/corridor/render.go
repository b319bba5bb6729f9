package corridor

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-corridor/internal/core"
	"github.com/vovakirdan/tui-corridor/internal/games/corridor/sim"
)

// Visual constants
const (
	PlayerChar   = '@'
	PlatformChar = '░'
	SpinnerChar  = '#'
	BarrierChar  = '='
	RingChar     = '·'
	CubeChar     = '■'

	// Half width of the world shown across the screen.
	viewHalfWidth = 12.0
	// World units per screen row along the corridor.
	viewDepth = 1.0
	// Track shown behind the player.
	viewBehind = 4.0
)

// viewport maps the corridor onto everything between the HUD and help rows.
func viewport(dst *core.Screen) core.Viewport {
	area := core.NewRect(0, 1, dst.Width(), core.Max(dst.Height()-2, 1))
	return core.Viewport{
		Area:   area,
		Scale:  float64(area.W) / (2 * viewHalfWidth),
		Depth:  viewDepth,
		Behind: viewBehind,
	}
}

// Render draws the corridor top-down with the player near the bottom.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.loop == nil {
		return
	}
	s := g.snap
	vp := viewport(dst)
	focus := s.Player.Position.Z()

	for _, r := range s.Rings {
		g.drawSpan(dst, vp, focus, -viewHalfWidth/2, viewHalfWidth/2, r.Z, RingChar, core.ColorGray)
	}
	for _, c := range s.Cubes {
		if x, y, ok := vp.Project(c.Position.X(), c.Position.Z(), focus); ok {
			dst.SetColored(x, y, CubeChar, core.ColorMagenta)
		}
	}
	for _, p := range s.Platforms {
		g.drawPlatform(dst, vp, focus, p)
	}
	for _, o := range s.Obstacles {
		color := g.scene.color(o.Kind, o.Offset)
		if o.Hit {
			color = core.ColorBrightYellow
		}
		switch o.Kind {
		case sim.RotatingObstacle:
			g.drawSpinner(dst, vp, focus, o, color)
		case sim.StaticObstacle:
			half := o.Size.X() / 2
			g.drawSpan(dst, vp, focus, o.Position.X()-half, o.Position.X()+half, o.Position.Z(), BarrierChar, color)
		}
	}

	playerColor := core.ColorBrightYellow
	if s.State == sim.Lost {
		playerColor = core.ColorRed
	}
	if x, y, ok := vp.Project(s.Player.Position.X(), focus, focus); ok {
		dst.SetColored(x, y, PlayerChar, playerColor)
	}

	g.drawHUD(dst)

	switch s.State {
	case sim.Idle:
		drawCenteredMessage(dst, "CORRIDOR", "Press Space to start")
	case sim.Paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume  |  R to restart")
	case sim.Lost:
		drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Distance: %d (%s)  |  Press R to restart", int(s.Distance), s.Cause))
	}
}

// drawSpan draws a line across the corridor at world z.
func (g *Game) drawSpan(dst *core.Screen, vp core.Viewport, focus, x0, x1, z float64, r rune, c core.Color) {
	step := 1 / vp.Scale
	for x := x0; x <= x1; x += step {
		if sx, sy, ok := vp.Project(x, z, focus); ok {
			dst.SetColored(sx, sy, r, c)
		}
	}
}

func (g *Game) drawPlatform(dst *core.Screen, vp core.Viewport, focus float64, p sim.EntityState) {
	near, far := vp.Span(focus)
	hx, hz := p.Size.X()/2, p.Size.Z()/2
	z0 := math.Max(p.Position.Z()-hz, near)
	z1 := math.Min(p.Position.Z()+hz, far)
	color := g.scene.color(p.Kind, p.Offset)
	for z := z0; z <= z1; z += vp.Depth {
		g.drawSpan(dst, vp, focus, p.Position.X()-hx, p.Position.X()+hx, z, PlatformChar, color)
	}
}

// drawSpinner samples the bar along its rotated long axis.
func (g *Game) drawSpinner(dst *core.Screen, vp core.Viewport, focus float64, o sim.EntityState, c core.Color) {
	dx, dz := math.Cos(o.Phase), -math.Sin(o.Phase)
	half := o.Size.X() / 2
	step := math.Min(1/vp.Scale, vp.Depth) / 2
	for t := -half; t <= half; t += step {
		if x, y, ok := vp.Project(o.Position.X()+t*dx, o.Position.Z()+t*dz, focus); ok {
			dst.SetColored(x, y, SpinnerChar, c)
		}
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	s := g.snap
	lock := "FREE"
	if g.locked {
		lock = "LOCKED"
	}
	hud := fmt.Sprintf(" Dist: %d  Time: %.1fs  [%s] ", int(s.Distance), s.Elapsed, lock)
	if g.cfg.Session.ReportDeniedJumps {
		hud += fmt.Sprintf(" Denied: %d ", s.DeniedJumps)
	}
	dst.DrawText(2, 0, hud, core.ColorWhite)

	if g.difficulty.IsEnabled() {
		speed := fmt.Sprintf(" Spd: %.1f ", s.Speed)
		dst.DrawText(dst.Width()-len(speed)-2, 0, speed, core.ColorCyan)
	}

	dst.DrawTextCentered(dst.Height()-1, "Space jump  P pause  R restart  F lock  Q quit", core.ColorGray)
}

// drawCenteredMessage draws a box with a title and subtitle in the center.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w, h := dst.Width(), dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)

	dst.DrawText(box.X+(boxW-len(title))/2, box.Y+1, title, core.ColorBrightYellow)
	dst.DrawText(box.X+(boxW-len(subtitle))/2, box.Y+3, subtitle, core.ColorWhite)
}
