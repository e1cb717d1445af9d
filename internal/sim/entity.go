package sim

import (
	"github.com/ByteArena/box2d"

	"github.com/pixelled/orbitshield/internal/wire"
)

// EntityID is the opaque, stable 64-bit identifier of a simulation body.
type EntityID = wire.EntityID

// Kind is the capability set an Entity exposes to the systems that iterate
// the world each tick.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindShield
	KindStatic
	KindCelestial
)

// Ori is the desired shield bearing and extension intent for a player.
type Ori struct {
	Deg  float32 // desired world-frame shield bearing, radians
	Push bool    // shield extension intent
}

// Thrust is the per-tick external force applied to a body.
type Thrust struct {
	X, Y float32
}

// Entity is one simulation body: a player, a shield, a static shape, or a
// celestial body. Component fields that don't apply to a Kind are left at
// their zero value; Kind tells a system which fields it may read.
type Entity struct {
	ID   EntityID
	Kind Kind
	Body *box2d.B2Body

	HP float32
	// Dmg is the damage this entity deals to whatever it contacts.
	Dmg float32
	// Mass caches a celestial body's mass for the gravity system, computed
	// once at spawn from its fixed radius and density rather than calling
	// Body.GetMass() every tick for every player/celestial pair.
	Mass float32

	// Player-only.
	Name     string
	Thrust   Thrust
	Ori      Ori
	ShieldID EntityID

	// Shield-only.
	PlayerID EntityID
	Joint    *box2d.B2PrismaticJoint
}

// Position reads the body's current world position.
func (e *Entity) Position() wire.Position {
	p := e.Body.GetPosition()
	return wire.Position{X: float32(p.X), Y: float32(p.Y)}
}

// Angle reads the body's current world orientation, reported to clients
// as PlayerView.Ori.
func (e *Entity) Angle() float32 {
	return float32(e.Body.GetAngle())
}

// Dead reports whether the entity has run out of hit points.
func (e *Entity) Dead() bool {
	return e.HP <= 0
}
