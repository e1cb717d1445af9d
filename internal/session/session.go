// Package session is the websocket session plane: one Session per
// connected player, bridging the network executor (read/write pumps on
// gorilla/websocket) and the simulation executor (internal/sim.World)
// through World's command channel and each Session's own outbound
// mailbox. No simulation state is read or written from a Session's
// goroutines except through that channel and mailbox.
package session

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/finnbear/moderation"
	"github.com/gorilla/websocket"

	"github.com/pixelled/orbitshield/internal/sim"
	"github.com/pixelled/orbitshield/internal/wire"
)

const (
	// writeWait bounds how long a single websocket write may take.
	writeWait = 5 * time.Second

	// sendBuffer is the mailbox depth for outbound snapshots. A snapshot
	// is dropped, not queued, when the mailbox is full: the tick never
	// suspends on a slow session.
	sendBuffer = 4

	// maxMessageSize bounds a single inbound Operation frame.
	maxMessageSize = 1024

	// noPlayer marks a Session that hasn't had a player entity assigned
	// (or has since lost one) yet.
	noPlayer sim.EntityID = 0

	// minNameLen/maxNameLen bound a sanitized Join name.
	minNameLen = 1
	maxNameLen = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Session is the simulation's mailbox for one connected player plus the
// websocket plumbing that feeds it. It implements sim.Session (outbound
// snapshot delivery) and sim.IdentifiableSession (learning the EntityID a
// Join produced).
type Session struct {
	conn  *websocket.Conn
	world *sim.World

	limiter *ConnLimiter
	ip      string

	sendMu     sync.Mutex // guards send against a send-after-close race with close()
	send       chan []byte
	sendClosed bool

	closed chan struct{}
	once   sync.Once

	playerID  atomic.Uint64 // 0 == noPlayer
	hbLastSet atomic.Int64  // unix nanos of the last observed liveness signal
}

// Serve upgrades r to a websocket and runs a Session to completion. It
// returns once the session has fully torn down (both pumps exited and the
// player, if any, has been reaped). New upgrades past limiter's per-IP
// ceiling are rejected with 429 before the websocket handshake begins; a
// nil limiter imposes no per-IP limit.
func Serve(world *sim.World, limiter *ConnLimiter, w http.ResponseWriter, r *http.Request) {
	ip := sourceIP(r)
	if !limiter.TryAcquire(ip) {
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		limiter.Release(ip)
		return
	}
	s := &Session{
		conn:    conn,
		world:   world,
		limiter: limiter,
		ip:      ip,
		send:    make(chan []byte, sendBuffer),
		closed:  make(chan struct{}),
	}
	s.touch()
	s.run()
}

// Send implements sim.Session. It never blocks: a full mailbox means this
// tick's snapshot is dropped for this session, so the simulation tick
// never waits on a slow peer. A Session that has already closed its mailbox silently
// drops the snapshot instead of sending on a closed channel.
func (s *Session) Send(snapshot wire.ViewSnapshot) {
	frame := wire.EncodeSnapshot(snapshot)
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.sendClosed {
		return
	}
	select {
	case s.send <- frame:
	default:
	}
}

// Assign implements sim.IdentifiableSession. It is called from the
// simulation tick goroutine immediately after a JoinCommand is applied.
func (s *Session) Assign(id sim.EntityID) {
	s.playerID.Store(uint64(id))
}

func (s *Session) currentPlayer() sim.EntityID {
	return sim.EntityID(s.playerID.Load())
}

func (s *Session) touch() {
	s.hbLastSet.Store(time.Now().UnixNano())
}

func (s *Session) lastHeartbeat() time.Time {
	return time.Unix(0, s.hbLastSet.Load())
}

// close tears down the connection, closes the outbound mailbox so
// writePump stops blocking, and, if a player was ever assigned, enqueues
// its removal. Idempotent: a heartbeat timeout and a closed read pump may
// both try to close the same Session.
func (s *Session) close() {
	s.once.Do(func() {
		close(s.closed)
		_ = s.conn.Close()

		s.sendMu.Lock()
		s.sendClosed = true
		close(s.send)
		s.sendMu.Unlock()

		s.limiter.Release(s.ip)

		if id := s.currentPlayer(); id != noPlayer {
			s.world.Enqueue(sim.LeaveCommand{PlayerID: id})
		}
	})
}

// run drives the read pump, write pump and heartbeat watchdog concurrently
// and blocks until all three have exited.
func (s *Session) run() {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); s.readPump() }()
	go func() { defer wg.Done(); s.writePump() }()
	go func() { defer wg.Done(); s.heartbeatWatch() }()
	wg.Wait()
}

// heartbeatWatch pings the peer every HeartbeatInterval and closes the
// session if no pong has been observed for ClientTimeout.
func (s *Session) heartbeatWatch() {
	ticker := time.NewTicker(sim.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.closed:
			return
		case <-ticker.C:
			if time.Since(s.lastHeartbeat()) > sim.ClientTimeout {
				s.close()
				return
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		}
	}
}

// readPump decodes one Operation per binary frame and turns it into a
// command for the simulation. Text frames and malformed binary frames are
// protocol errors: drop and keep the session alive.
func (s *Session) readPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetPongHandler(func(string) error {
		s.touch()
		return nil
	})

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.BinaryMessage {
			continue // text frames are ignored per the wire contract
		}
		s.touch()

		op, err := wire.DecodeOperation(data)
		if err != nil {
			continue // protocol error: drop, keep the session alive
		}
		s.handleOperation(op)
	}
}

func (s *Session) handleOperation(op wire.Operation) {
	switch op.Kind {
	case wire.OpJoin:
		name, ok := sanitizeName(op.Name)
		if !ok {
			s.close()
			return
		}
		s.world.Enqueue(sim.JoinCommand{Name: name, Session: s})
	case wire.OpUpdate:
		if id := s.currentPlayer(); id != noPlayer {
			s.world.Enqueue(sim.UpdateCommand{PlayerID: id, State: op.State})
		}
		// An Update received before a Join's Assign callback lands is
		// silently dropped.
	case wire.OpLeave:
		if id := s.currentPlayer(); id != noPlayer {
			s.world.Enqueue(sim.LeaveCommand{PlayerID: id})
		}
		s.close()
	}
}

// sanitizeName strips formatting-hostile characters and non-printable
// runes, bounds the length, and censors moderation hits, returning false
// if the result is empty or the name can't be salvaged.
func sanitizeName(name string) (string, bool) {
	const removals = "()[]{}*"
	for i := 0; i < len(removals); i++ {
		name = strings.ReplaceAll(name, removals[i:i+1], "")
	}

	name = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			return r
		}
		return -1
	}, name)

	name = strings.TrimSpace(name)
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	if len(name) < minNameLen {
		return "", false
	}

	result := moderation.Scan(name)
	if result.Is(moderation.Inappropriate) {
		if result.Is(moderation.Inappropriate & moderation.Moderate) {
			return "", false
		}
		name, _ = moderation.Censor(name, moderation.Inappropriate)
	}

	return name, true
}

// writePump drains the outbound mailbox to the websocket connection. It
// exits, and closes the session, on any write error; once close() closes
// the mailbox, ranging over it drains any buffered frames and returns
// instead of blocking forever.
func (s *Session) writePump() {
	defer s.close()
	for frame := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return
		}
	}
}
