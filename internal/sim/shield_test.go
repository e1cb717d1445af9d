package sim

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/pixelled/orbitshield/internal/wire"
)

// TestShieldRotationTurnsPlayerBody checks that shieldRotation spins the
// player's own body toward the commanded bearing, not the shield's, and
// that PlayerView.Ori tracks that body's actual angle rather than echoing
// the raw commanded Ori.Deg.
func TestShieldRotationTurnsPlayerBody(t *testing.T) {
	w := NewWorld()
	sess := &fakeSession{}
	w.Enqueue(JoinCommand{Name: "nova", Session: sess})
	w.Tick()

	var player *Entity
	for _, e := range w.entities {
		if e.Kind == KindPlayer {
			player = e
		}
	}

	const target = float32(1.5) // > shieldRotateSlowThreshold away from 0
	w.Enqueue(UpdateCommand{PlayerID: player.ID, State: wire.PlayerState{Ori: target}})

	for i := 0; i < 60; i++ {
		w.Tick()
	}

	got := player.Angle()
	if math32.Abs(angleDelta(got, target)) > 0.2 {
		t.Fatalf("want player body angle to converge near %v, got %v", target, got)
	}

	snap := sess.snapshots[len(sess.snapshots)-1]
	if len(snap.Players) != 1 {
		t.Fatalf("want exactly one player in snapshot, got %d", len(snap.Players))
	}
	if math32.Abs(angleDelta(snap.Players[0].View.Ori, got)) > 1e-4 {
		t.Fatalf("want PlayerView.Ori to echo the player body's actual angle %v, got %v", got, snap.Players[0].View.Ori)
	}
}

// TestShieldMotorSpeedFollowsPushIntent checks that the prismatic joint's
// commanded motor velocity is the full -300/+300 (negative drives the
// shield outward), with no scaling applied to the speed itself.
func TestShieldMotorSpeedFollowsPushIntent(t *testing.T) {
	w := NewWorld()
	sess := &fakeSession{}
	w.Enqueue(JoinCommand{Name: "nova", Session: sess})
	w.Tick()

	var player *Entity
	for _, e := range w.entities {
		if e.Kind == KindPlayer {
			player = e
		}
	}
	shield := w.entities[player.ShieldID]

	w.Enqueue(UpdateCommand{PlayerID: player.ID, State: wire.PlayerState{PushShield: true}})
	w.Tick()
	if got := shield.Joint.GetMotorSpeed(); got != shieldMotorPush {
		t.Fatalf("want motor speed %v while pushing, got %v", float64(shieldMotorPush), got)
	}

	w.Enqueue(UpdateCommand{PlayerID: player.ID, State: wire.PlayerState{PushShield: false}})
	w.Tick()
	if got := shield.Joint.GetMotorSpeed(); got != shieldMotorPull {
		t.Fatalf("want motor speed %v while pulling, got %v", float64(shieldMotorPull), got)
	}
}
