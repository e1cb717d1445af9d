package sim

import (
	"math"

	"github.com/ByteArena/box2d"
)

// spawnPlayer creates a player body and its attached shield body, joined by
// a prismatic joint that lets the shield slide along the player's local
// x-axis between ShieldTranslationMin and ShieldTranslationMax. The
// session is registered to receive that player's future snapshots.
func (w *World) spawnPlayer(name string, session Session) EntityID {
	id := w.allocEntityID()
	pos := w.randomSpawnPoint()

	pdef := box2d.NewB2BodyDef()
	pdef.Type = box2d.B2BodyType.B2_dynamicBody
	pdef.Position = pos
	pdef.Bullet = true // thin-player/fast-collision tunneling guard (CCD)
	pbody := w.physics.CreateBody(pdef)

	pshape := box2d.MakeB2CircleShape()
	pshape.SetRadius(InitRadius)
	pfd := box2d.MakeB2FixtureDef()
	pfd.Shape = &pshape
	pfd.Density = PlayerDensity
	pfd.Restitution = 1.0 // fully elastic, same as the boundary walls
	pbody.CreateFixtureFromDef(&pfd)

	player := &Entity{ID: id, Kind: KindPlayer, Body: pbody, HP: 100, Dmg: 10, Name: name}
	pbody.SetUserData(player)
	w.entities[id] = player
	w.sessions[id] = session

	shieldID := w.allocEntityID()
	sdef := box2d.NewB2BodyDef()
	sdef.Type = box2d.B2BodyType.B2_dynamicBody
	sdef.Position = box2d.MakeB2Vec2(pos.X+ShieldRestOffsetX, pos.Y)
	sdef.Bullet = true
	sbody := w.physics.CreateBody(sdef)

	sshape := box2d.MakeB2CircleShape()
	sshape.SetRadius(ShieldRadius)
	sfd := box2d.MakeB2FixtureDef()
	sfd.Shape = &sshape
	sfd.Density = ShieldDensity
	sfd.Restitution = 1.0 // matches the player's fully-elastic restitution
	sbody.CreateFixtureFromDef(&sfd)

	shield := &Entity{ID: shieldID, Kind: KindShield, Body: sbody, HP: 50, Dmg: 5, PlayerID: id}
	sbody.SetUserData(shield)
	w.entities[shieldID] = shield
	player.ShieldID = shieldID

	// The joint axis points along the player's local -x so that a positive
	// shield offset (the rest position, body+ShieldRestOffsetX) starts at a
	// negative translation, and extending the shield further outward (more
	// positive x, away from the body) drives translation more negative.
	// Negative translation pushes the shield outward.
	jd := box2d.MakeB2PrismaticJointDef()
	jd.Initialize(pbody, sbody, pbody.GetPosition(), box2d.MakeB2Vec2(-1, 0))
	jd.EnableLimit = true
	jd.LowerTranslation = ShieldTranslationMin
	jd.UpperTranslation = ShieldTranslationMax
	jd.EnableMotor = true
	jd.MaxMotorForce = shieldMotorMaxForce * shieldMotorFactor
	jd.MotorSpeed = 0
	joint := w.physics.CreateJoint(&jd).(*box2d.B2PrismaticJoint)
	shield.Joint = joint

	w.playerCount.Add(1)
	return id
}

// randomSpawnPoint picks a point uniformly within the central band
// [0.4*MapWidth, 0.6*MapWidth] x [0.4*MapHeight, 0.6*MapHeight], the
// spawn region for new players.
func (w *World) randomSpawnPoint() box2d.B2Vec2 {
	x := 0.4*MapWidth + w.rng.Float64()*(0.2*MapWidth)
	y := 0.4*MapHeight + w.rng.Float64()*(0.2*MapHeight)
	return box2d.MakeB2Vec2(x, y)
}

// seedStaticShapes scatters startupStaticShapeCount free-floating shapes
// across the central spawn band at boot. These are dynamic bodies with
// CCD enabled, not kinematically frozen; nothing pushes them
// at rest since the engine's own gravity is disabled and the gravity
// system only acts on players.
func (w *World) seedStaticShapes() {
	for i := 0; i < startupStaticShapeCount; i++ {
		id := w.allocEntityID()
		pos := w.randomSpawnPoint()

		def := box2d.NewB2BodyDef()
		def.Type = box2d.B2BodyType.B2_dynamicBody
		def.Position = pos
		def.Bullet = true
		body := w.physics.CreateBody(def)

		shape := box2d.MakeB2CircleShape()
		shape.SetRadius(InitRadius)
		fd := box2d.MakeB2FixtureDef()
		fd.Shape = &shape
		fd.Density = InitDensity
		body.CreateFixtureFromDef(&fd)

		e := &Entity{ID: id, Kind: KindStatic, Body: body, HP: 20, Dmg: 20}
		body.SetUserData(e)
		w.entities[id] = e
	}
}

// celestialSeed is one of the three fixed startup positions and
// velocities for celestial bodies.
type celestialSeed struct {
	x, y   float64
	vx, vy float64
}

var celestialSeeds = [3]celestialSeed{
	{4029.99564, 5243.08753, 46.6203685, 43.236573},
	{5000, 5000, -93.240737, -86.473146},
	{5970.00436, 4756.91247, 46.6203685, 43.236573},
}

// seedCelestials places the three celestial bodies at their literal
// startup positions and velocities. They are dynamic bodies (so they drift
// under their initial velocity and the elastic boundary) with the engine's
// own gravity disabled; the gravity system never pulls on them, only on
// players.
func (w *World) seedCelestials() {
	area := math.Pi * CelestialRadius * CelestialRadius
	mass := float32(area * CelestialDensity)

	for _, seed := range celestialSeeds {
		id := w.allocEntityID()

		def := box2d.NewB2BodyDef()
		def.Type = box2d.B2BodyType.B2_dynamicBody
		def.Position = box2d.MakeB2Vec2(seed.x, seed.y)
		def.LinearVelocity = box2d.MakeB2Vec2(seed.vx, seed.vy)
		body := w.physics.CreateBody(def)

		shape := box2d.MakeB2CircleShape()
		shape.SetRadius(CelestialRadius)
		fd := box2d.MakeB2FixtureDef()
		fd.Shape = &shape
		fd.Density = CelestialDensity
		fd.Restitution = 1.0
		body.CreateFixtureFromDef(&fd)

		e := &Entity{ID: id, Kind: KindCelestial, Body: body, HP: 1000, Dmg: 100, Mass: mass}
		body.SetUserData(e)
		w.entities[id] = e
		w.celestialIDs = append(w.celestialIDs, id)
	}
}
