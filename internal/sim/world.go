package sim

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/ByteArena/box2d"

	"github.com/pixelled/orbitshield/internal/wire"
)

// Session is the simulation's view of a connected player's mailbox. Send
// must be non-blocking: if the mailbox is full, the snapshot for that tick
// is dropped for that session, and the tick never suspends.
type Session interface {
	Send(snapshot wire.ViewSnapshot)
}

// contactPair is one contact-begin event recorded during a physics step,
// resolved into HP changes after the step completes.
type contactPair struct {
	a, b *Entity
}

// World owns the physics engine and every entity in it. It is only ever
// mutated from the tick goroutine; the command channel is the sole point at
// which external callers reach in.
type World struct {
	physics box2d.B2World

	entities map[EntityID]*Entity
	sessions map[EntityID]Session
	nextID   uint64

	boundary *box2d.B2Body

	// celestialIDs is fixed at construction time and never mutated after,
	// so Status may read it from any goroutine.
	celestialIDs []EntityID

	tick      uint64
	startedAt time.Time

	commands chan Command
	pending  []contactPair

	rng *rand.Rand

	// playerCount mirrors len(entities of KindPlayer) in an atomic so it
	// can be read from outside the tick goroutine (see Status).
	playerCount atomic.Int64
}

// Status is a point-in-time summary of the world, safe to read from any
// goroutine (unlike the rest of World's state, which belongs solely to
// the tick goroutine).
type Status struct {
	Players    int           `json:"players"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Celestials []EntityID    `json:"celestials"`
}

// Status reports the current player count, simulated elapsed time, and
// the world's fixed celestial entity ids. It is the only supported way to
// observe World state from outside the tick goroutine.
func (w *World) Status() Status {
	return Status{
		Players:    int(w.playerCount.Load()),
		Elapsed:    w.Elapsed(),
		Celestials: w.celestialIDs,
	}
}

// NewWorld creates an empty world with gravity disabled on the engine
// itself; the gravity system (see gravity.go) is the sole source of
// gravitational force, so attraction is never double-accumulated.
func NewWorld() *World {
	w := &World{
		physics:   box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
		entities:  make(map[EntityID]*Entity),
		sessions:  make(map[EntityID]Session),
		startedAt: time.Now(),
		commands:  make(chan Command, 4096),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	w.physics.SetContactListener(w)
	w.buildBoundary()
	w.seedStaticShapes()
	w.seedCelestials()
	return w
}

// Commands returns the channel sessions enqueue commands on. It is treated
// as effectively unbounded by callers: Enqueue may suspend the caller, but
// Tick never suspends on it.
func (w *World) Commands() chan<- Command {
	return w.commands
}

func (w *World) allocEntityID() EntityID {
	w.nextID++
	return EntityID(w.nextID)
}

// Tick advances the simulation by one fixed timestep, running the systems
// in a fixed order: drain commands, shield rotation, shield push/pull,
// gravity, physics step, collision damage, view extraction.
func (w *World) Tick() {
	w.drainCommands()
	w.shieldRotation()
	w.shieldPushPull()
	w.gravity()

	w.pending = w.pending[:0]
	w.physics.Step(TickTime.Seconds(), velocityIterations, positionIterations)

	w.collisionDamage()
	w.extractViews()

	w.tick++
}

// Elapsed returns the simulated time since the world was created, measured
// in whole ticks (not wall-clock), matching the way ViewSnapshot.Time is
// derived.
func (w *World) Elapsed() time.Duration {
	return time.Duration(w.tick) * TickTime
}

// BeginContact implements box2d.B2ContactListenerInterface. It only
// records the pair; damage is applied once per tick after the physics step
// so that both applications of HP(a) -= Dmg(b) and HP(b) -= Dmg(a) observe
// the same step's pre-damage values.
func (w *World) BeginContact(contact box2d.B2ContactInterface) {
	a, okA := contact.GetFixtureA().GetBody().GetUserData().(*Entity)
	b, okB := contact.GetFixtureB().GetBody().GetUserData().(*Entity)
	if !okA || !okB {
		return // boundary fixtures carry no Entity user data
	}
	w.pending = append(w.pending, contactPair{a: a, b: b})
}

// EndContact, PreSolve and PostSolve are required by
// box2d.B2ContactListenerInterface but unused: collision damage only needs
// the begin-contact event.
func (w *World) EndContact(contact box2d.B2ContactInterface) {}

func (w *World) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {}

func (w *World) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {}

func (w *World) collisionDamage() {
	for _, pair := range w.pending {
		if pair.a.Dead() || pair.b.Dead() {
			continue
		}
		pair.a.HP -= pair.b.Dmg
		pair.b.HP -= pair.a.Dmg
	}
}

// buildBoundary creates the four static segment colliders forming the map
// rectangle [0, MapWidth] x [0, MapHeight], with elastic (restitution 1)
// edges.
func (w *World) buildBoundary() {
	def := box2d.NewB2BodyDef()
	def.Type = box2d.B2BodyType.B2_staticBody
	def.Position = box2d.MakeB2Vec2(0, 0)
	body := w.physics.CreateBody(def)

	corners := [4]box2d.B2Vec2{
		box2d.MakeB2Vec2(0, 0),
		box2d.MakeB2Vec2(MapWidth, 0),
		box2d.MakeB2Vec2(MapWidth, MapHeight),
		box2d.MakeB2Vec2(0, MapHeight),
	}
	for i := 0; i < 4; i++ {
		shape := box2d.MakeB2EdgeShape()
		shape.Set(corners[i], corners[(i+1)%4])

		fd := box2d.MakeB2FixtureDef()
		fd.Shape = &shape
		fd.Restitution = 1.0
		body.CreateFixtureFromDef(&fd)
	}
	w.boundary = body
}
