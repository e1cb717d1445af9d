package gameclient

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
)

// TestPlayerStateNoMovementYieldsNilDir checks that no held movement
// flags yields a nil Dir.
func TestPlayerStateNoMovementYieldsNilDir(t *testing.T) {
	s := PlayerState(ControlState{})
	if s.Dir != nil {
		t.Fatalf("want nil Dir with no movement flags set, got %v", *s.Dir)
	}
}

// TestPlayerStateDerivesDirectionFromFlags checks the dx/dy -> atan2(dy,dx)
// formula for one representative combination (right+down).
func TestPlayerStateDerivesDirectionFromFlags(t *testing.T) {
	s := PlayerState(ControlState{Right: true, Down: true})
	if s.Dir == nil {
		t.Fatalf("want non-nil Dir when a movement flag is set")
	}
	want := math32.Atan2(1, 1)
	if math.Abs(float64(*s.Dir-want)) > 1e-6 {
		t.Fatalf("want dir %v, got %v", want, *s.Dir)
	}
}

// TestPlayerStatePreservesOriAndPush checks that Ori and PushShield pass
// through from ControlState.Aim / PushShield unchanged.
func TestPlayerStatePreservesOriAndPush(t *testing.T) {
	s := PlayerState(ControlState{Aim: 1.25, PushShield: true})
	if s.Ori != 1.25 || !s.PushShield {
		t.Fatalf("want Ori=1.25 PushShield=true, got %+v", s)
	}
}
