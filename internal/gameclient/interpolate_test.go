package gameclient

import (
	"testing"
	"time"

	"github.com/pixelled/orbitshield/internal/wire"
)

// TestInterpolationMidpoint checks the pointwise lerp the interpolator
// applies to positions: between (0,0) and (100,0), the position at
// t=0.5 must be (50, 0).
func TestInterpolationMidpoint(t *testing.T) {
	a := wire.Position{X: 0, Y: 0}
	b := wire.Position{X: 100, Y: 0}
	got := a.Lerp(b, 0.5)
	if got != (wire.Position{X: 50, Y: 0}) {
		t.Fatalf("want (50,0), got %+v", got)
	}
}

// TestInterpolatorCameraOffset checks that Frame subtracts the camera
// offset correctly: a self position at the canvas center yields SelfPos
// at (CanvasWidth/2, CanvasHeight/2).
func TestInterpolatorCameraOffset(t *testing.T) {
	prev := RenderState{Time: 0, SelfPos: wire.Position{X: 5000, Y: 5000}}
	next := RenderState{Time: 0, SelfPos: wire.Position{X: 5000, Y: 5000}}
	ip := NewInterpolator(prev, next, 0)

	view := ip.Frame(0)
	want := wire.Position{X: CanvasWidth / 2, Y: CanvasHeight / 2}
	if view.SelfPos != want {
		t.Fatalf("want %+v, got %+v", want, view.SelfPos)
	}
	if view.SelfAbs != (wire.Position{X: 5000, Y: 5000}) {
		t.Fatalf("SelfAbs should stay absolute, got %+v", view.SelfAbs)
	}
}

// TestInterpolatorSnapsWhenTimesEqual checks that if next.Time equals
// prev.Time, t snaps to 1 instead of dividing by zero.
func TestInterpolatorSnapsWhenTimesEqual(t *testing.T) {
	prev := RenderState{Time: time.Second, SelfPos: wire.Position{X: 0, Y: 0}}
	next := RenderState{Time: time.Second, SelfPos: wire.Position{X: 200, Y: 0}}
	ip := NewInterpolator(prev, next, 0)

	if got := ip.t(0); got != 1 {
		t.Fatalf("want t=1 when next.Time == prev.Time, got %v", got)
	}
}

// TestInterpolatorMissingInNextCopiesPrev checks that an entity present in
// prev but absent from next is carried through unchanged rather than
// interpolated away.
func TestInterpolatorMissingInNextCopiesPrev(t *testing.T) {
	prev := RenderState{
		Time: 0,
		StaticPos: map[wire.EntityID]wire.StaticView{
			1: {Pos: wire.Position{X: 10, Y: 20}, HP: 5},
		},
	}
	next := RenderState{Time: 100 * time.Millisecond, StaticPos: map[wire.EntityID]wire.StaticView{}}

	ip := NewInterpolator(prev, next, 0)
	view := ip.Frame(50)

	// Both RenderStates leave SelfPos at its zero value, so the camera
	// offset is (0,0) - (CanvasWidth/2, CanvasHeight/2); the relative
	// position is the absolute position shifted by (CanvasWidth/2,
	// CanvasHeight/2).
	want := wire.Position{X: 10 + CanvasWidth/2, Y: 20 + CanvasHeight/2}
	if got := view.StaticPos[1]; got != want {
		t.Fatalf("want entity carried from prev unchanged at %+v, got %+v", want, got)
	}
}
