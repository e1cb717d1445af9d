package gameclient

import "github.com/pixelled/orbitshield/internal/wire"

// CanvasWidth and CanvasHeight are the camera's field of view in world
// units, not a terminal's character grid: they equal internal/sim.ViewX/
// ViewY. The server's view box reaches ViewX/ViewY on each side of the
// player, so it also sends entities outside this field of view, and
// celestials are sent regardless of distance. internal/render maps this
// world-unit frame onto the terminal's actual rows/cols.
const (
	CanvasWidth  = 2080
	CanvasHeight = 1170
)

// MinimapSize is the pixel (world-unit) size of the square minimap.
const MinimapSize = 150

// PlayerFinal is one player's fully interpolated, camera-relative pose.
type PlayerFinal struct {
	Name      string
	Pos       wire.Position
	Ori       float32
	ShieldPos wire.Position
	HP        float32
}

// FinalView is the interpolated, camera-relative scene handed to the
// renderer for one animation frame.
type FinalView struct {
	SelfPos      wire.Position
	Players      map[wire.EntityID]PlayerFinal
	StaticPos    map[wire.EntityID]wire.Position
	CelestialPos map[wire.EntityID]wire.Position
	// MinimapCenter is where the renderer should place the minimap's
	// center, already in the same camera-relative space as everything
	// else in this FinalView.
	MinimapCenter wire.Position

	// SelfAbs and CelestialAbs carry absolute (non-camera-relative) world
	// positions, which the minimap needs to scale by (MapWidth, MapHeight)
	// rather than draw relative to the player.
	SelfAbs      wire.Position
	CelestialAbs map[wire.EntityID]wire.Position
}

// Interpolator owns the two most recent keyframes and produces a FinalView
// for any wall-clock instant by two-snapshot linear interpolation.
type Interpolator struct {
	baseTime float64 // ms, prev.TimeMs() - nowMs at last keyframe swap
	prev     RenderState
	next     RenderState
}

// NewInterpolator seeds an Interpolator from the first two snapshots the
// server sends; rendering must not begin before both have arrived.
func NewInterpolator(first, second RenderState, nowMs float64) *Interpolator {
	return &Interpolator{
		baseTime: first.TimeMs() - nowMs,
		prev:     first,
		next:     second,
	}
}

// Push advances the keyframe pair when a new snapshot n arrives at nowMs:
// prev <- next; next <- n; baseTime <- prev.TimeMs() - nowMs.
func (ip *Interpolator) Push(n RenderState, nowMs float64) {
	ip.prev = ip.next
	ip.next = n
	ip.baseTime = ip.prev.TimeMs() - nowMs
}

// t computes the interpolation fraction for nowMs. If next.Time equals
// prev.Time, t snaps to 1 instead of dividing by zero.
func (ip *Interpolator) t(nowMs float64) float32 {
	denom := ip.next.TimeMs() - ip.prev.TimeMs()
	if denom == 0 {
		return 1
	}
	return float32((ip.baseTime + nowMs - ip.prev.TimeMs()) / denom)
}

// Frame produces the camera-relative FinalView for wall-clock nowMs.
func (ip *Interpolator) Frame(nowMs float64) FinalView {
	t := ip.t(nowMs)

	selfAbs := ip.prev.SelfPos.Lerp(ip.next.SelfPos, t)
	off := wire.Position{X: selfAbs.X - CanvasWidth/2, Y: selfAbs.Y - CanvasHeight/2}

	out := FinalView{
		SelfPos:      selfAbs.Sub(off),
		SelfAbs:      selfAbs,
		Players:      make(map[wire.EntityID]PlayerFinal, len(ip.prev.Players)),
		StaticPos:    make(map[wire.EntityID]wire.Position, len(ip.prev.StaticPos)),
		CelestialPos: make(map[wire.EntityID]wire.Position, len(ip.prev.CelestialPos)),
		CelestialAbs: make(map[wire.EntityID]wire.Position, len(ip.prev.CelestialPos)),
		MinimapCenter: wire.Position{
			X: CanvasWidth - 100,
			Y: CanvasHeight - 100,
		},
	}

	for id, a := range ip.prev.Players {
		var pos, shieldPos wire.Position
		ori, hp := a.Ori, a.HP
		if b, ok := ip.next.Players[id]; ok {
			pos = a.Pos.Lerp(b.Pos, t)
			shieldPos = a.ShieldPos.Lerp(b.ShieldPos, t)
			ori = b.Ori // Ori is taken from next, never blended
			hp = b.HP
		} else {
			pos, shieldPos = a.Pos, a.ShieldPos
		}
		out.Players[id] = PlayerFinal{
			Name:      a.Name,
			Pos:       pos.Sub(off),
			Ori:       ori,
			ShieldPos: shieldPos.Sub(off),
			HP:        hp,
		}
	}

	for id, a := range ip.prev.StaticPos {
		pos := a.Pos
		if b, ok := ip.next.StaticPos[id]; ok {
			pos = a.Pos.Lerp(b.Pos, t)
		}
		out.StaticPos[id] = pos.Sub(off)
	}

	for id, a := range ip.prev.CelestialPos {
		pos := a.Pos
		if b, ok := ip.next.CelestialPos[id]; ok {
			pos = a.Pos.Lerp(b.Pos, t)
		}
		out.CelestialPos[id] = pos.Sub(off)
		out.CelestialAbs[id] = pos
	}

	return out
}
