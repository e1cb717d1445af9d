package sim

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/pixelled/orbitshield/internal/wire"
)

// TestJoinSpawnsWithinCentralBand checks that within two ticks of a Join,
// self_pos lies in [4000,6000] x [4000,6000].
func TestJoinSpawnsWithinCentralBand(t *testing.T) {
	w := NewWorld()
	sess := &fakeSession{}
	w.Enqueue(JoinCommand{Name: "alice", Session: sess})
	w.Tick()
	w.Tick()

	if len(sess.snapshots) == 0 {
		t.Fatalf("expected at least one snapshot after two ticks")
	}
	snap := sess.snapshots[len(sess.snapshots)-1]
	if len(snap.Players) != 1 || snap.Players[0].View.Name != "alice" {
		t.Fatalf("want exactly one player named alice, got %+v", snap.Players)
	}
	if snap.SelfPos.X < 4000 || snap.SelfPos.X > 6000 || snap.SelfPos.Y < 4000 || snap.SelfPos.Y > 6000 {
		t.Fatalf("want self_pos within [4000,6000]^2, got %+v", snap.SelfPos)
	}
}

// TestShieldGeometryAtSpawn checks that immediately after join
// (orientation 0), the shield sits at body+(40,0) and the joint
// translation magnitude lies within [20,80].
func TestShieldGeometryAtSpawn(t *testing.T) {
	w := NewWorld()
	sess := &fakeSession{}
	w.Enqueue(JoinCommand{Name: "nova", Session: sess})
	w.Tick()

	var player, shield *Entity
	for _, e := range w.entities {
		if e.Kind == KindPlayer {
			player = e
		}
	}
	shield = w.entities[player.ShieldID]
	if shield == nil {
		t.Fatalf("expected a shield entity for the new player")
	}

	dx := shield.Position().X - player.Position().X
	dy := shield.Position().Y - player.Position().Y
	if math32.Abs(dy) > 1e-2 {
		t.Fatalf("want shield offset along body x-axis at spawn (body orientation 0), got dy=%v", dy)
	}
	dist := math32.Abs(dx)
	if dist < 20 || dist > 80 {
		t.Fatalf("want shield-body distance within [20,80], got %v", dist)
	}
}

// TestMovementIncreasesPositionAfterTicks checks that sustained thrust
// along +x strictly increases self_pos.X over 60 ticks.
func TestMovementIncreasesPositionAfterTicks(t *testing.T) {
	w := NewWorld()
	sess := &fakeSession{}
	w.Enqueue(JoinCommand{Name: "nova", Session: sess})
	w.Tick()

	var playerID EntityID
	for id, e := range w.entities {
		if e.Kind == KindPlayer {
			playerID = id
		}
	}

	firstX := sess.snapshots[len(sess.snapshots)-1].SelfPos.X

	zero := float32(0)
	w.Enqueue(UpdateCommand{PlayerID: playerID, State: wire.PlayerState{Dir: &zero, Ori: 0, PushShield: false}})
	for i := 0; i < 60; i++ {
		w.Tick()
	}

	lastX := sess.snapshots[len(sess.snapshots)-1].SelfPos.X
	if !(lastX > firstX) {
		t.Fatalf("want self_pos.X to strictly increase, went from %v to %v", firstX, lastX)
	}
}

// TestUpdateWithNilDirZeroesThrustPreservesOri checks that
// PlayerState{Dir: None, Ori: theta, PushShield: false} zeroes Thrust but
// keeps Ori.Deg == theta.
func TestUpdateWithNilDirZeroesThrustPreservesOri(t *testing.T) {
	w := NewWorld()
	sess := &fakeSession{}
	w.Enqueue(JoinCommand{Name: "nova", Session: sess})
	w.Tick()

	var playerID EntityID
	for _, e := range w.entities {
		if e.Kind == KindPlayer {
			playerID = e.ID
			e.Thrust = Thrust{X: 1, Y: 1}
		}
	}

	w.Enqueue(UpdateCommand{PlayerID: playerID, State: wire.PlayerState{Dir: nil, Ori: 1.5, PushShield: false}})
	w.Tick()

	p := w.entities[playerID]
	if p.Thrust != (Thrust{}) {
		t.Fatalf("want Thrust zeroed when Dir is nil, got %+v", p.Thrust)
	}
	if p.Ori.Deg != 1.5 {
		t.Fatalf("want Ori.Deg preserved at 1.5, got %v", p.Ori.Deg)
	}
}
