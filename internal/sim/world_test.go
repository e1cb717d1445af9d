package sim

import (
	"testing"

	"github.com/pixelled/orbitshield/internal/wire"
)

type fakeSession struct {
	snapshots []wire.ViewSnapshot
}

func (f *fakeSession) Send(s wire.ViewSnapshot) {
	f.snapshots = append(f.snapshots, s)
}

func TestJoinRegistersSessionAndEntity(t *testing.T) {
	w := NewWorld()
	sess := &fakeSession{}
	w.Enqueue(JoinCommand{Name: "nova", Session: sess})
	w.Tick()

	if len(w.sessions) != 1 {
		t.Fatalf("want 1 registered session, got %d", len(w.sessions))
	}
	if len(sess.snapshots) != 1 {
		t.Fatalf("want 1 snapshot dispatched, got %d", len(sess.snapshots))
	}

	var playerCount int
	for _, e := range w.entities {
		if e.Kind == KindPlayer {
			playerCount++
		}
	}
	if playerCount != 1 {
		t.Fatalf("want 1 live player entity, got %d", playerCount)
	}
}

func TestLeaveRemovesPlayerAndShield(t *testing.T) {
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

	w.Enqueue(LeaveCommand{PlayerID: playerID})
	w.Tick()

	if _, ok := w.sessions[playerID]; ok {
		t.Fatalf("session still registered after leave")
	}
	if _, ok := w.entities[playerID]; ok {
		t.Fatalf("player entity still present after leave")
	}
}

// TestShieldSuperset checks the invariant that every shield_id referenced
// by a PlayerView in a snapshot appears in that snapshot's ShieldInfo,
// even across many ticks and multiple players.
func TestShieldSuperset(t *testing.T) {
	w := NewWorld()
	sessions := make([]*fakeSession, 3)
	for i := range sessions {
		sessions[i] = &fakeSession{}
		w.Enqueue(JoinCommand{Name: "p", Session: sessions[i]})
	}

	for tick := 0; tick < 5; tick++ {
		w.Tick()
	}

	for _, sess := range sessions {
		for _, snap := range sess.snapshots {
			shieldIDs := make(map[EntityID]bool, len(snap.ShieldInfo))
			for _, s := range snap.ShieldInfo {
				shieldIDs[s.ID] = true
			}
			for _, p := range snap.Players {
				if !shieldIDs[p.View.ShieldID] {
					t.Fatalf("player %d references shield %d missing from ShieldInfo", p.ID, p.View.ShieldID)
				}
			}
		}
	}
}

// TestLivePlayersMatchSessionTable checks that the set of KindPlayer
// entities with HP > 0 is always exactly the set of registered sessions.
func TestLivePlayersMatchSessionTable(t *testing.T) {
	w := NewWorld()
	sess := &fakeSession{}
	w.Enqueue(JoinCommand{Name: "nova", Session: sess})
	w.Tick()

	live := make(map[EntityID]bool)
	for id, e := range w.entities {
		if e.Kind == KindPlayer && !e.Dead() {
			live[id] = true
		}
	}
	if len(live) != len(w.sessions) {
		t.Fatalf("live players (%d) != registered sessions (%d)", len(live), len(w.sessions))
	}
	for id := range w.sessions {
		if !live[id] {
			t.Fatalf("session %d has no corresponding live player", id)
		}
	}
}

// TestCommandOrdering checks that commands enqueued before a Tick are all
// applied, in order, by the time that Tick returns — a later UpdateCommand
// for the same player wins.
func TestCommandOrdering(t *testing.T) {
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

	w.Enqueue(UpdateCommand{PlayerID: playerID, State: wire.PlayerState{Ori: 1}})
	w.Enqueue(UpdateCommand{PlayerID: playerID, State: wire.PlayerState{Ori: 2}})
	w.Tick()

	if got := w.entities[playerID].Ori.Deg; got != 2 {
		t.Fatalf("want last-write-wins Ori 2, got %v", got)
	}
}

// TestUpdateAfterLeaveIsIgnored checks that an Update arriving after a
// Leave does not mutate anything and does not crash the tick.
func TestUpdateAfterLeaveIsIgnored(t *testing.T) {
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

	w.Enqueue(LeaveCommand{PlayerID: playerID})
	w.Tick()

	dir := float32(0)
	w.Enqueue(UpdateCommand{PlayerID: playerID, State: wire.PlayerState{Dir: &dir}})
	w.Tick() // must not panic

	if _, ok := w.entities[playerID]; ok {
		t.Fatalf("removed player resurrected by a stale update")
	}
}

// TestGravitySkipsSingularPair ensures a player exactly coincident with a
// celestial body does not produce a force (which would divide by ~0).
func TestGravitySkipsSingularPair(t *testing.T) {
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
	var celestial *Entity
	for _, e := range w.entities {
		if e.Kind == KindCelestial {
			celestial = e
		}
	}

	player.Body.SetTransform(celestial.Body.GetPosition(), 0)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("gravity panicked on coincident bodies: %v", r)
		}
	}()
	w.gravity()
}
