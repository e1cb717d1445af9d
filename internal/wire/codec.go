package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"time"
)

// ErrUnknownTag is returned when a tagged union carries a byte this codec
// does not recognize. Callers treat it as a protocol error: drop the
// message, keep the session alive.
var ErrUnknownTag = errors.New("wire: unknown tag byte")

// EncodeOperation serializes an Operation as: tag byte, then variant payload.
// Join:   [tag=0][len:u32][name bytes]
// Update: [tag=1][hasDir:u8][dir:f32 if hasDir][ori:f32][push:u8]
// Leave:  [tag=2]
func EncodeOperation(op Operation) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(op.Kind))
	switch op.Kind {
	case OpJoin:
		writeString(&buf, op.Name)
	case OpUpdate:
		writePlayerState(&buf, op.State)
	case OpLeave:
	}
	return buf.Bytes()
}

// DecodeOperation parses bytes produced by EncodeOperation.
func DecodeOperation(data []byte) (Operation, error) {
	r := bytes.NewReader(data)
	tagByte, err := r.ReadByte()
	if err != nil {
		return Operation{}, err
	}
	switch OperationKind(tagByte) {
	case OpJoin:
		name, err := readString(r)
		if err != nil {
			return Operation{}, err
		}
		return JoinOperation(name), nil
	case OpUpdate:
		state, err := readPlayerState(r)
		if err != nil {
			return Operation{}, err
		}
		return UpdateOperation(state), nil
	case OpLeave:
		return LeaveOperation(), nil
	default:
		return Operation{}, ErrUnknownTag
	}
}

func writePlayerState(buf *bytes.Buffer, s PlayerState) {
	if s.Dir == nil {
		buf.WriteByte(0)
	} else {
		buf.WriteByte(1)
		writeFloat32(buf, *s.Dir)
	}
	writeFloat32(buf, s.Ori)
	writeBool(buf, s.PushShield)
}

func readPlayerState(r *bytes.Reader) (PlayerState, error) {
	hasDir, err := r.ReadByte()
	if err != nil {
		return PlayerState{}, err
	}
	var s PlayerState
	if hasDir != 0 {
		dir, err := readFloat32(r)
		if err != nil {
			return PlayerState{}, err
		}
		s.Dir = &dir
	}
	ori, err := readFloat32(r)
	if err != nil {
		return PlayerState{}, err
	}
	s.Ori = ori
	push, err := readBool(r)
	if err != nil {
		return PlayerState{}, err
	}
	s.PushShield = push
	return s, nil
}

// EncodeSnapshot serializes a ViewSnapshot for one session.
func EncodeSnapshot(v ViewSnapshot) []byte {
	var buf bytes.Buffer
	writeDuration(&buf, v.Time)
	writeUint64(&buf, v.Tick)
	writePosition(&buf, v.SelfPos)

	writeUint32(&buf, uint32(len(v.Players)))
	for _, p := range v.Players {
		writeUint64(&buf, uint64(p.ID))
		writeString(&buf, p.View.Name)
		writePosition(&buf, p.View.Pos)
		writeFloat32(&buf, p.View.Ori)
		writeUint64(&buf, uint64(p.View.ShieldID))
		writeFloat32(&buf, p.View.HP)
	}

	writeUint32(&buf, uint32(len(v.ShieldInfo)))
	for _, s := range v.ShieldInfo {
		writeUint64(&buf, uint64(s.ID))
		writePosition(&buf, s.View.Pos)
		writeFloat32(&buf, s.View.HP)
	}

	writeUint32(&buf, uint32(len(v.StaticPos)))
	for _, s := range v.StaticPos {
		writeUint64(&buf, uint64(s.ID))
		writePosition(&buf, s.View.Pos)
		writeFloat32(&buf, s.View.HP)
	}

	writeUint32(&buf, uint32(len(v.CelestialPos)))
	for _, c := range v.CelestialPos {
		writeUint64(&buf, uint64(c.ID))
		writePosition(&buf, c.View.Pos)
		writeFloat32(&buf, c.View.HP)
	}

	return buf.Bytes()
}

// DecodeSnapshot parses bytes produced by EncodeSnapshot.
func DecodeSnapshot(data []byte) (ViewSnapshot, error) {
	r := bytes.NewReader(data)
	var v ViewSnapshot

	d, err := readDuration(r)
	if err != nil {
		return v, err
	}
	v.Time = d

	tick, err := readUint64(r)
	if err != nil {
		return v, err
	}
	v.Tick = tick

	pos, err := readPosition(r)
	if err != nil {
		return v, err
	}
	v.SelfPos = pos

	n, err := readUint32(r)
	if err != nil {
		return v, err
	}
	v.Players = make([]PlayerEntry, n)
	for i := range v.Players {
		id, err := readUint64(r)
		if err != nil {
			return v, err
		}
		name, err := readString(r)
		if err != nil {
			return v, err
		}
		pos, err := readPosition(r)
		if err != nil {
			return v, err
		}
		ori, err := readFloat32(r)
		if err != nil {
			return v, err
		}
		shieldID, err := readUint64(r)
		if err != nil {
			return v, err
		}
		hp, err := readFloat32(r)
		if err != nil {
			return v, err
		}
		v.Players[i] = PlayerEntry{ID: EntityID(id), View: PlayerView{Name: name, Pos: pos, Ori: ori, ShieldID: EntityID(shieldID), HP: hp}}
	}

	n, err = readUint32(r)
	if err != nil {
		return v, err
	}
	v.ShieldInfo = make([]ShieldEntry, n)
	for i := range v.ShieldInfo {
		id, err := readUint64(r)
		if err != nil {
			return v, err
		}
		pos, err := readPosition(r)
		if err != nil {
			return v, err
		}
		hp, err := readFloat32(r)
		if err != nil {
			return v, err
		}
		v.ShieldInfo[i] = ShieldEntry{ID: EntityID(id), View: ShieldView{Pos: pos, HP: hp}}
	}

	n, err = readUint32(r)
	if err != nil {
		return v, err
	}
	v.StaticPos = make([]StaticEntry, n)
	for i := range v.StaticPos {
		id, err := readUint64(r)
		if err != nil {
			return v, err
		}
		pos, err := readPosition(r)
		if err != nil {
			return v, err
		}
		hp, err := readFloat32(r)
		if err != nil {
			return v, err
		}
		v.StaticPos[i] = StaticEntry{ID: EntityID(id), View: StaticView{Pos: pos, HP: hp}}
	}

	n, err = readUint32(r)
	if err != nil {
		return v, err
	}
	v.CelestialPos = make([]CelestialEntry, n)
	for i := range v.CelestialPos {
		id, err := readUint64(r)
		if err != nil {
			return v, err
		}
		pos, err := readPosition(r)
		if err != nil {
			return v, err
		}
		hp, err := readFloat32(r)
		if err != nil {
			return v, err
		}
		v.CelestialPos[i] = CelestialEntry{ID: EntityID(id), View: CelestialView{Pos: pos, HP: hp}}
	}

	return v, nil
}

// --- primitive helpers ---

func writeFloat32(buf *bytes.Buffer, f float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
	buf.Write(b[:])
}

func readFloat32(r io.Reader) (float32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b[:])), nil
}

func writePosition(buf *bytes.Buffer, p Position) {
	writeFloat32(buf, p.X)
	writeFloat32(buf, p.Y)
}

func readPosition(r io.Reader) (Position, error) {
	x, err := readFloat32(r)
	if err != nil {
		return Position{}, err
	}
	y, err := readFloat32(r)
	if err != nil {
		return Position{}, err
	}
	return Position{X: x, Y: y}, nil
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// writeDuration encodes time.Duration as (seconds: u64, nanos: u32).
func writeDuration(buf *bytes.Buffer, d time.Duration) {
	seconds := uint64(d / time.Second)
	nanos := uint32(d % time.Second)
	writeUint64(buf, seconds)
	writeUint32(buf, nanos)
}

func readDuration(r io.Reader) (time.Duration, error) {
	seconds, err := readUint64(r)
	if err != nil {
		return 0, err
	}
	nanos, err := readUint32(r)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds)*time.Second + time.Duration(nanos), nil
}
