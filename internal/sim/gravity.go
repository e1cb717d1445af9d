package sim

import "github.com/chewxy/math32"

// gravity applies each player's commanded Thrust plus Newtonian attraction
// toward every celestial body, using the Gravity constant as G and treating
// celestial mass as proportional to its fixture's computed mass. Players do
// not attract each other or the celestials back, keeping per-tick gravity
// work at O(players * celestials) instead of O(n^2).
func (w *World) gravity() {
	var celestials []*Entity
	for _, e := range w.entities {
		if e.Kind == KindCelestial {
			celestials = append(celestials, e)
		}
	}

	for _, p := range w.entities {
		if p.Kind != KindPlayer || p.Dead() {
			continue
		}
		pPos := p.Body.GetPosition()
		pMass := float32(p.Body.GetMass())

		fx, fy := p.Thrust.X, p.Thrust.Y
		for _, c := range celestials {
			cPos := c.Body.GetPosition()
			dx := float32(cPos.X - pPos.X)
			dy := float32(cPos.Y - pPos.Y)
			distSq := dx*dx + dy*dy
			if distSq < 1 {
				continue // coincident bodies: skip rather than divide by ~0
			}
			dist := math32.Sqrt(distSq)
			// F = G * m1 * m2 / r^2, directed from player to celestial.
			mag := Gravity * pMass * c.Mass / distSq
			fx += mag * dx / dist
			fy += mag * dy / dist
		}
		p.Body.ApplyForceToCenter(makeVec2(fx, fy), true)
	}
}
