// Package gameclient holds the client-side state a terminal session needs
// between receiving bytes from the keyboard and bytes from the websocket:
// input aggregation, the two-keyframe render state, and the interpolator
// that turns them into a per-frame scene. Drawing itself lives in
// internal/render.
package gameclient

import (
	"bufio"
	"time"

	"github.com/chewxy/math32"

	"github.com/pixelled/orbitshield/internal/wire"
)

// keyHoldDuration is how long a key is considered "held" after its last
// byte, the same debounce strategy a terminal client needs in place of a
// browser's keydown/keyup pair.
const keyHoldDuration = 120 * time.Millisecond

// ControlState is the terminal analogue of a browser client's
// keyboard/mouse surface: four movement flags plus an aim angle and a
// push toggle, aggregated from raw terminal bytes. There is no literal
// mouse in a terminal, so aim is driven by dedicated rotate keys instead
// of cursor position; see DESIGN.md for that substitution.
type ControlState struct {
	Up, Left, Down, Right bool
	Aim                   float32 // radians; rotated by AimStep per held tick
	PushShield            bool
	// Quit latches once Ctrl-C is seen; the game loop sends a Leave and
	// tears down when it observes it.
	Quit bool
}

// AimStep is how far one tick of a held rotate key turns Aim.
const AimStep = 0.06

// keyState tracks the last time each binding was observed, so a single
// poll of the byte stream can tell "held" from "released" without keyup
// events.
type keyState struct {
	up, left, down, right time.Time
	rotateCW, rotateCCW   time.Time
	push                  time.Time
}

// InputStream reads raw bytes from the terminal and exposes the latest
// ControlState on demand, non-blockingly.
type InputStream struct {
	ch      chan byte
	state   keyState
	control ControlState
}

// StartInputStream spawns a goroutine that copies bytes from r into an
// internal channel, so Poll can drain whatever has arrived without
// blocking on the terminal.
func StartInputStream(r *bufio.Reader) *InputStream {
	s := &InputStream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Poll drains all available bytes, updates key state, and returns the
// resulting ControlState. Safe to call once per animation frame.
func (s *InputStream) Poll() ControlState {
	now := time.Now()

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			s.apply(b, now)
		default:
			break drain
		}
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }

	s.control.Up = held(s.state.up)
	s.control.Left = held(s.state.left)
	s.control.Down = held(s.state.down)
	s.control.Right = held(s.state.right)
	if held(s.state.rotateCW) {
		s.control.Aim += AimStep
	}
	if held(s.state.rotateCCW) {
		s.control.Aim -= AimStep
	}
	s.control.Aim = wrapAngle(s.control.Aim)
	s.control.PushShield = held(s.state.push)

	return s.control
}

func (s *InputStream) apply(b byte, now time.Time) {
	switch b {
	case 'w', 'W':
		s.state.up = now
	case 'a', 'A':
		s.state.left = now
	case 's', 'S':
		s.state.down = now
	case 'd', 'D':
		s.state.right = now
	case 'e', 'E':
		s.state.rotateCW = now
	case 'q', 'Q':
		s.state.rotateCCW = now
	case ' ':
		s.state.push = now
	case 0x03: // Ctrl-C arrives as a raw byte in raw mode
		s.control.Quit = true
	}
}

func wrapAngle(a float32) float32 {
	for a > math32.Pi {
		a -= 2 * math32.Pi
	}
	for a <= -math32.Pi {
		a += 2 * math32.Pi
	}
	return a
}

// PlayerState derives the wire PlayerState from a ControlState: dx/dy
// from the four movement flags, no thrust when both are zero, aim angle
// passed through as Ori.
func PlayerState(c ControlState) wire.PlayerState {
	var dx, dy float32
	if c.Right {
		dx++
	}
	if c.Left {
		dx--
	}
	if c.Down {
		dy++
	}
	if c.Up {
		dy--
	}

	var dir *float32
	if dx != 0 || dy != 0 {
		d := math32.Atan2(dy, dx)
		dir = &d
	}

	return wire.PlayerState{
		Dir:        dir,
		Ori:        c.Aim,
		PushShield: c.PushShield,
	}
}
