// Package sim is the authoritative simulation core: a fixed-timestep world
// of players, shields, celestial bodies, static shapes, and a boundary,
// stepped on a box2d.B2World. The simulation goroutine is the single
// writer of all world state; sessions reach it only through commands.
package sim

import "time"

// Map and view bounds, in world units (pixels).
const (
	MapWidth  = 10000
	MapHeight = 10000
	ViewX     = 2080
	ViewY     = 1170
)

// Body radii, in world units.
const (
	InitRadius      = 20
	ShieldRadius    = 25
	CelestialRadius = 100
)

// Tick and network timing.
const (
	TickTime          = 16 * time.Millisecond
	HeartbeatInterval = 1 * time.Second
	ClientTimeout     = 5 * time.Second
)

// Densities, chosen to give players and shields comparable inertia, and
// celestials enough mass to dominate local gravity. See DESIGN.md for the
// rationale.
const (
	PlayerDensity    = 1.0
	ShieldDensity    = 0.5
	CelestialDensity = 5.0
	InitDensity      = 1.0
)

// Forces.
const (
	ThrustForce = 20000 // F: per-tick thrust magnitude applied along PlayerState.dir
	Gravity     = 20    // G: gravitational constant used by the gravity system
)

// Shield geometry: the prismatic joint's translation limits, in world units
// along the player body's local x-axis.
const (
	ShieldTranslationMin = -80
	ShieldTranslationMax = -20
	// ShieldRestOffsetX is where a freshly joined shield sits relative to its
	// player, before any push/pull motor has acted on it.
	ShieldRestOffsetX = 40
)

// Shield rotation angular velocities (rad/s), keyed by how far the body
// needs to turn to face its commanded orientation.
const (
	shieldRotateSlow = 5
	shieldRotateFast = 20
	// shieldRotateDeadband is the angle below which rotation stops.
	shieldRotateDeadband = 0.1
	// shieldRotateSlowThreshold is the angle below which the slow rate applies.
	shieldRotateSlowThreshold = 0.5
)

// Shield push/pull motor. The push/pull values are commanded motor
// velocities (negative drives the shield outward); the factor scales the
// joint's maximum motor force, not its speed.
const (
	shieldMotorPush     = -300
	shieldMotorPull     = 300
	shieldMotorFactor   = 0.1
	shieldMotorMaxForce = 100000
)

// Physics solver iteration counts, matching the values box2d examples in
// the pack use for a real-time game loop.
const (
	velocityIterations = 8
	positionIterations = 3
)

// startupStaticShapeCount is how many free-floating static shapes seed the
// world at boot.
const startupStaticShapeCount = 100
