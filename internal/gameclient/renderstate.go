package gameclient

import (
	"time"

	"github.com/pixelled/orbitshield/internal/wire"
)

// PlayerRender is what RenderState keeps about one visible player
// (distinct from the wire protocol's PlayerState, which carries client
// input intent, not a render record).
type PlayerRender struct {
	Name      string
	Pos       wire.Position
	Ori       float32
	ShieldPos wire.Position
	HP        float32
}

// RenderState is one decoded keyframe: a ViewSnapshot reshaped into
// hash-indexed maps so the interpolator and renderer can look entities up
// by ID in constant time, keyed the same way across consecutive
// snapshots.
type RenderState struct {
	Time         time.Duration
	SelfPos      wire.Position
	Players      map[wire.EntityID]PlayerRender
	StaticPos    map[wire.EntityID]wire.StaticView
	CelestialPos map[wire.EntityID]wire.CelestialView
}

// TimeMs returns Time as milliseconds, the unit the interpolator's t
// computation uses.
func (r RenderState) TimeMs() float64 {
	return float64(r.Time) / float64(time.Millisecond)
}

// FromSnapshot builds a RenderState from a decoded ViewSnapshot, joining
// ShieldInfo onto each PlayerView by ShieldID. A player whose shield is
// absent from the snapshot is a protocol violation, fatal only for that
// player in that one frame: it is skipped, and every other player is
// still included.
func FromSnapshot(snap wire.ViewSnapshot) RenderState {
	shields := make(map[wire.EntityID]wire.ShieldView, len(snap.ShieldInfo))
	for _, s := range snap.ShieldInfo {
		shields[s.ID] = s.View
	}

	players := make(map[wire.EntityID]PlayerRender, len(snap.Players))
	for _, p := range snap.Players {
		shield, ok := shields[p.View.ShieldID]
		if !ok {
			continue // missing shield: skip this player, keep the rest
		}
		players[p.ID] = PlayerRender{
			Name:      p.View.Name,
			Pos:       p.View.Pos,
			Ori:       p.View.Ori,
			ShieldPos: shield.Pos,
			HP:        p.View.HP,
		}
	}

	statics := make(map[wire.EntityID]wire.StaticView, len(snap.StaticPos))
	for _, s := range snap.StaticPos {
		statics[s.ID] = s.View
	}

	celestials := make(map[wire.EntityID]wire.CelestialView, len(snap.CelestialPos))
	for _, c := range snap.CelestialPos {
		celestials[c.ID] = c.View
	}

	return RenderState{
		Time:         snap.Time,
		SelfPos:      snap.SelfPos,
		Players:      players,
		StaticPos:    statics,
		CelestialPos: celestials,
	}
}
