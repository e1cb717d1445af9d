package sim

import (
	"github.com/chewxy/math32"

	"github.com/pixelled/orbitshield/internal/wire"
)

// Command is one mutation a session wants applied to the world. Commands
// are only ever executed from inside Tick, in the order they were
// enqueued; sessions never touch World state directly.
type Command interface {
	apply(w *World)
}

// JoinCommand spawns a new player body and its shield, and registers the
// session that should receive that player's future snapshots.
type JoinCommand struct {
	Name    string
	Session Session
}

// IdentifiableSession is an optional capability a Session may implement to
// learn the EntityID the world assigned it. Sessions that only want to
// receive snapshots don't need to implement it.
type IdentifiableSession interface {
	Assign(id EntityID)
}

func (c JoinCommand) apply(w *World) {
	id := w.spawnPlayer(c.Name, c.Session)
	if assignable, ok := c.Session.(IdentifiableSession); ok {
		assignable.Assign(id)
	}
}

// UpdateCommand applies a player's latest input intent.
type UpdateCommand struct {
	PlayerID EntityID
	State    wire.PlayerState
}

func (c UpdateCommand) apply(w *World) {
	e, ok := w.entities[c.PlayerID]
	if !ok || e.Kind != KindPlayer || e.Dead() {
		return
	}
	if c.State.Dir != nil {
		e.Thrust.X = ThrustForce * math32.Cos(*c.State.Dir)
		e.Thrust.Y = ThrustForce * math32.Sin(*c.State.Dir)
	} else {
		e.Thrust = Thrust{}
	}
	e.Ori.Deg = c.State.Ori
	e.Ori.Push = c.State.PushShield
}

// LeaveCommand removes a player and its shield from the world and drops
// its session registration.
type LeaveCommand struct {
	PlayerID EntityID
}

func (c LeaveCommand) apply(w *World) {
	w.removePlayer(c.PlayerID)
}

// Enqueue posts a command for the next Tick to process. It may block if
// the command channel is full; callers on the session plane run this from
// their own goroutine, never from inside Tick.
func (w *World) Enqueue(cmd Command) {
	w.commands <- cmd
}

func (w *World) drainCommands() {
	for {
		select {
		case cmd := <-w.commands:
			cmd.apply(w)
		default:
			return
		}
	}
}

func (w *World) removePlayer(id EntityID) {
	e, ok := w.entities[id]
	if !ok || e.Kind != KindPlayer {
		return
	}
	if shield, ok := w.entities[e.ShieldID]; ok {
		w.physics.DestroyBody(shield.Body)
		delete(w.entities, shield.ID)
	}
	w.physics.DestroyBody(e.Body)
	delete(w.entities, id)
	delete(w.sessions, id)
	w.playerCount.Add(-1)
}
