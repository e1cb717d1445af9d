package render

import (
	"fmt"
	"math"

	"github.com/pixelled/orbitshield/internal/gameclient"
)

// World body radii and map extent, mirrored from internal/sim's public
// constants (not imported directly to keep the client free of a physics
// engine dependency; the client only ever needs these few numbers).
const (
	initRadius      = 20
	shieldRadius    = 25
	celestialRadius = 100
	mapWidth        = 10000
	mapHeight       = 10000

	// gridStep is the spacing of the background grid, in world units.
	gridStep = 100

	// minimapSize is the minimap's square side length, in world units
	// within the camera-relative canvas (so it occupies a fixed spot on
	// screen regardless of zoom).
	minimapSize = 150
)

// Scene draws one FinalView onto a Canvas, back to front: grid,
// celestials, statics, players (with shields and name tags), then the
// minimap overlay.
func Scene(c *Canvas, view gameclient.FinalView) {
	c.Clear()

	drawGrid(c, view)

	for _, pos := range view.CelestialPos {
		c.FillDisk(Point{X: float64(pos.X), Y: float64(pos.Y)}, celestialRadius)
	}

	for _, pos := range view.StaticPos {
		c.FillDisk(Point{X: float64(pos.X), Y: float64(pos.Y)}, initRadius)
	}

	for _, p := range view.Players {
		drawPlayer(c, p)
	}

	drawMinimap(c, view)

	_ = c.Flush()
}

// drawGrid draws the world-space background grid, clipped to world bounds.
// Grid lines live at fixed absolute coordinates (multiples of gridStep), so
// they scroll under the camera as the player moves; the camera offset is
// recovered from the absolute self position the interpolator carries.
func drawGrid(c *Canvas, view gameclient.FinalView) {
	offX := float64(view.SelfAbs.X) - gameclient.CanvasWidth/2
	offY := float64(view.SelfAbs.Y) - gameclient.CanvasHeight/2

	left := math.Max(offX, 0)
	right := math.Min(offX+gameclient.CanvasWidth, mapWidth)
	top := math.Max(offY, 0)
	bottom := math.Min(offY+gameclient.CanvasHeight, mapHeight)
	if left > right || top > bottom {
		return
	}

	for x := math.Ceil(left/gridStep) * gridStep; x <= right; x += gridStep {
		c.DrawLine(Point{X: x - offX, Y: top - offY}, Point{X: x - offX, Y: bottom - offY})
	}
	for y := math.Ceil(top/gridStep) * gridStep; y <= bottom; y += gridStep {
		c.DrawLine(Point{X: left - offX, Y: y - offY}, Point{X: right - offX, Y: y - offY})
	}
}

// drawPlayer draws a player's body, its lighter outline ring, its shield,
// and its name tag (with current HP) 80 world units above the body.
func drawPlayer(c *Canvas, p gameclient.PlayerFinal) {
	center := Point{X: float64(p.Pos.X), Y: float64(p.Pos.Y)}
	c.FillDisk(center, initRadius)
	c.DiskOutline(center, initRadius+2)

	shieldCenter := Point{X: float64(p.ShieldPos.X), Y: float64(p.ShieldPos.Y)}
	c.FillDisk(shieldCenter, shieldRadius)

	tag := p.Name + " " + FormatHP(p.HP)
	namePos := Point{X: center.X, Y: center.Y - 80}
	col, row := c.TerminalPos(namePos)
	col -= len(tag) / 2
	c.Text(col, row, tag)
}

// drawMinimap draws a 150x150 grey-bordered square anchored at
// view.MinimapCenter, with a dot for self and a dot per celestial body,
// each scaled from absolute world coordinates by (MapWidth, MapHeight).
func drawMinimap(c *Canvas, view gameclient.FinalView) {
	half := minimapSize / 2.0
	center := Point{X: float64(view.MinimapCenter.X), Y: float64(view.MinimapCenter.Y)}
	topLeft := Point{X: center.X - half, Y: center.Y - half}
	bottomRight := Point{X: center.X + half, Y: center.Y + half}
	c.Rect(topLeft, bottomRight)

	toMinimap := func(abs Point) Point {
		return Point{
			X: topLeft.X + abs.X/mapWidth*minimapSize,
			Y: topLeft.Y + abs.Y/mapHeight*minimapSize,
		}
	}

	c.Dot(toMinimap(Point{X: float64(view.SelfAbs.X), Y: float64(view.SelfAbs.Y)}))
	for _, abs := range view.CelestialAbs {
		c.Dot(toMinimap(Point{X: float64(abs.X), Y: float64(abs.Y)}))
	}
}

// FormatHP renders an HP value the way the player tag shows it.
func FormatHP(hp float32) string {
	return fmt.Sprintf("%.0f", hp)
}
