package sim

import "github.com/chewxy/math32"

// shieldRotation turns each live player's body to face its commanded
// shield bearing, at a rate that depends on how far it still has to turn:
// within shieldRotateDeadband radians it stops outright, within
// shieldRotateSlowThreshold it turns at shieldRotateSlow, otherwise at
// shieldRotateFast. The shield rides along via the prismatic joint's
// rotational lock, so rotating the player's body is enough to carry it.
func (w *World) shieldRotation() {
	for _, p := range w.entities {
		if p.Kind != KindPlayer || p.Dead() {
			continue
		}

		current := float32(p.Body.GetAngle())
		delta := angleDelta(current, p.Ori.Deg)

		var rate float32
		switch {
		case math32.Abs(delta) < shieldRotateDeadband:
			rate = 0
		case math32.Abs(delta) < shieldRotateSlowThreshold:
			rate = shieldRotateSlow
		default:
			rate = shieldRotateFast
		}
		if delta < 0 {
			rate = -rate
		}
		p.Body.SetAngularVelocity(float64(rate))
	}
}

// shieldPushPull drives each shield's prismatic joint motor outward when
// the player commands a push, and inward otherwise, clamped by the joint's
// translation limits set up at spawn time.
func (w *World) shieldPushPull() {
	for _, p := range w.entities {
		if p.Kind != KindPlayer || p.Dead() {
			continue
		}
		shield, ok := w.entities[p.ShieldID]
		if !ok || shield.Dead() || shield.Joint == nil {
			continue
		}

		if p.Ori.Push {
			shield.Joint.SetMotorSpeed(shieldMotorPush)
		} else {
			shield.Joint.SetMotorSpeed(shieldMotorPull)
		}
	}
}

// angleDelta returns the signed shortest angular distance from `from` to
// `to`, in (-pi, pi].
func angleDelta(from, to float32) float32 {
	d := math32.Mod(to-from+math32.Pi, 2*math32.Pi) - math32.Pi
	if d <= -math32.Pi {
		d += 2 * math32.Pi
	}
	return d
}
