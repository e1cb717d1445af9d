package sim

import "github.com/ByteArena/box2d"

// makeVec2 builds a box2d vector from float32 components, the precision
// the rest of the simulation and the wire protocol use.
func makeVec2(x, y float32) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(float64(x), float64(y))
}
