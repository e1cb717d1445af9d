// Command client is a terminal renderer for orbitshield: it dials the
// server's websocket endpoint, joins with a player name, and runs a
// single-threaded cooperative loop that merges the animation-frame clock
// with the incoming snapshot stream, rendering the interpolated scene to
// the raw terminal. See DESIGN.md for why this client targets a terminal
// rather than a browser canvas.
package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/term"

	"github.com/pixelled/orbitshield/internal/gameclient"
	"github.com/pixelled/orbitshield/internal/render"
	"github.com/pixelled/orbitshield/internal/wire"
)

// frameInterval is the client's animation-frame period; the server's own
// tick is 16ms, so 33ms keeps the client comfortably slower than the
// authoritative simulation.
const frameInterval = 33 * time.Millisecond

func main() {
	var (
		addr string
		name string
	)
	flag.StringVar(&addr, "addr", "ws://127.0.0.1:8080/ws", "server websocket URL")
	flag.StringVar(&name, "name", "player", "player name to join as")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", addr, err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.BinaryMessage, wire.EncodeOperation(wire.JoinOperation(name))); err != nil {
		log.Fatalf("join: %v", err)
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		log.Fatalf("raw mode: %v", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	render.HideCursor(os.Stdout)
	defer render.ShowCursor(os.Stdout)
	render.ClearScreen(os.Stdout)

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		cols, rows = 80, 24
	}
	canvas := render.NewCanvas(os.Stdout, cols, rows, gameclient.CanvasWidth, gameclient.CanvasHeight)

	input := gameclient.StartInputStream(bufio.NewReader(os.Stdin))

	snapshots := make(chan wire.ViewSnapshot, 8)
	go readSnapshots(conn, snapshots)

	runLoop(conn, canvas, input, snapshots)
}

// readSnapshots decodes one ViewSnapshot per binary frame and forwards it.
// A malformed frame is a protocol error: it is dropped, and the loop keeps
// reading.
func readSnapshots(conn *websocket.Conn, out chan<- wire.ViewSnapshot) {
	defer close(out)
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		snap, err := wire.DecodeSnapshot(data)
		if err != nil {
			continue
		}
		out <- snap
	}
}

// runLoop seeds the interpolator from the first two snapshots, then merges
// the animation-frame clock with the snapshot stream: each poll yields at
// most one event, and priority alternates between the two inputs whenever
// both are simultaneously ready, so neither can starve the other.
func runLoop(conn *websocket.Conn, canvas *render.Canvas, input *gameclient.InputStream, snapshots <-chan wire.ViewSnapshot) {
	first, ok := <-snapshots
	if !ok {
		return
	}
	second, ok := <-snapshots
	if !ok {
		return
	}

	nowMs := func() float64 { return float64(time.Now().UnixNano()) / float64(time.Millisecond) }

	ip := gameclient.NewInterpolator(
		gameclient.FromSnapshot(first),
		gameclient.FromSnapshot(second),
		nowMs(),
	)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	// pending holds a received-but-not-yet-consumed snapshot across polls:
	// an animation tick that wins a round of the fairness flip must not lose
	// the keyframe that was simultaneously ready.
	var pending *wire.ViewSnapshot
	preferAnim := true
	for {
		var animDue bool

		select {
		case <-ticker.C:
			animDue = true
		default:
		}
		if pending == nil {
			select {
			case s, open := <-snapshots:
				if !open {
					return
				}
				pending = &s
			default:
			}
		}

		switch {
		case animDue && pending != nil:
			if preferAnim {
				drawFrame(canvas, ip)
			} else {
				ip.Push(gameclient.FromSnapshot(*pending), nowMs())
				pending = nil
				if quit := dispatchControl(conn, input); quit {
					return
				}
			}
			preferAnim = !preferAnim
		case animDue:
			drawFrame(canvas, ip)
		case pending != nil:
			ip.Push(gameclient.FromSnapshot(*pending), nowMs())
			pending = nil
			if quit := dispatchControl(conn, input); quit {
				return
			}
		default:
			// Nothing ready: block on whichever fires first.
			select {
			case <-ticker.C:
				drawFrame(canvas, ip)
			case s, open := <-snapshots:
				if !open {
					return
				}
				ip.Push(gameclient.FromSnapshot(s), nowMs())
				if quit := dispatchControl(conn, input); quit {
					return
				}
			}
		}
	}
}

func drawFrame(canvas *render.Canvas, ip *gameclient.Interpolator) {
	if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		canvas.Resize(cols, rows)
	}
	nowMs := float64(time.Now().UnixNano()) / float64(time.Millisecond)
	render.Scene(canvas, ip.Frame(nowMs))
}

// dispatchControl samples the latest input state and sends it to the
// server, once per snapshot tick. It reports whether the player asked to
// quit, in which case a Leave has been sent and the caller should tear
// the loop down.
func dispatchControl(conn *websocket.Conn, input *gameclient.InputStream) bool {
	state := input.Poll()
	if state.Quit {
		_ = conn.WriteMessage(websocket.BinaryMessage, wire.EncodeOperation(wire.LeaveOperation()))
		return true
	}
	ps := gameclient.PlayerState(state)
	_ = conn.WriteMessage(websocket.BinaryMessage, wire.EncodeOperation(wire.UpdateOperation(ps)))
	return false
}
