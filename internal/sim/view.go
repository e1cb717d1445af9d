package sim

import "github.com/pixelled/orbitshield/internal/wire"

// extractViews builds and dispatches one ViewSnapshot per live, registered
// session, each scoped to an axis-aligned box of ViewX x ViewY centered on
// that player's own position.
func (w *World) extractViews() {
	for id, session := range w.sessions {
		player, ok := w.entities[id]
		if !ok || player.Kind != KindPlayer || player.Dead() {
			continue
		}
		session.Send(w.viewFor(player))
	}
}

// viewFor builds the snapshot visible to one player. Each entity appears
// at most once per category, and ShieldInfo is a superset of every
// shield id Players references: a player's
// own shield always appears in ShieldInfo even when its current position
// has drifted outside the view box, so PlayerView.ShieldID never dangles.
func (w *World) viewFor(player *Entity) wire.ViewSnapshot {
	center := player.Position()
	bound := wire.Position{X: ViewX, Y: ViewY}

	snap := wire.ViewSnapshot{
		Time:    w.Elapsed(),
		Tick:    w.tick,
		SelfPos: center,
	}

	includedShields := make(map[EntityID]bool)

	for _, e := range w.entities {
		switch e.Kind {
		case KindPlayer:
			if !w.inView(center, bound, e.Position()) {
				continue
			}
			snap.Players = append(snap.Players, wire.PlayerEntry{
				ID: e.ID,
				View: wire.PlayerView{
					Name:     e.Name,
					Pos:      e.Position(),
					Ori:      e.Angle(),
					ShieldID: e.ShieldID,
					HP:       e.HP,
				},
			})
		case KindStatic:
			if !w.inView(center, bound, e.Position()) {
				continue
			}
			snap.StaticPos = append(snap.StaticPos, wire.StaticEntry{
				ID:   e.ID,
				View: wire.StaticView{Pos: e.Position(), HP: e.HP},
			})
		case KindCelestial:
			// Celestials are included unconditionally, regardless of view bounds.
			snap.CelestialPos = append(snap.CelestialPos, wire.CelestialEntry{
				ID:   e.ID,
				View: wire.CelestialView{Pos: e.Position(), HP: e.HP},
			})
		case KindShield:
			if w.inView(center, bound, e.Position()) {
				includedShields[e.ID] = true
			}
		}
	}

	for _, p := range snap.Players {
		includedShields[p.View.ShieldID] = true
	}
	includedShields[player.ShieldID] = true

	for sid := range includedShields {
		shield, ok := w.entities[sid]
		if !ok || shield.Kind != KindShield {
			continue
		}
		snap.ShieldInfo = append(snap.ShieldInfo, wire.ShieldEntry{
			ID:   shield.ID,
			View: wire.ShieldView{Pos: shield.Position(), HP: shield.HP},
		})
	}

	return snap
}

// inView reports whether |p - center| is strictly less than bound per axis.
func (w *World) inView(center, bound, p wire.Position) bool {
	return absf(p.X-center.X) < bound.X && absf(p.Y-center.Y) < bound.Y
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
