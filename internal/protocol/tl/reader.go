package tl

import (
	"encoding/binary"
	"math"
)

// Reserved boxed identifiers the primitive codec relies on.
const (
	BoolTrueID  uint32 = 0x997275b5
	BoolFalseID uint32 = 0xbc799737
	VectorID    uint32 = 0x1cb5c415
)

const (
	// shortBytesMax is the largest length carried in the single length byte.
	shortBytesMax = 253
	// longBytesMarker escapes to a 3-byte little-endian length.
	longBytesMarker = 254
	// MaxBytesLen is the largest byte string the 3-byte length can describe.
	MaxBytesLen = 1<<24 - 1
)

// Int128 is the bare int128 TL type (16 raw bytes, used for nonces).
type Int128 [16]byte

// Int256 is the bare int256 TL type (32 raw bytes).
type Int256 [32]byte

// Limits constrains decode resource use.
type Limits struct {
	// MaxDepth bounds nested boxed reads (objects inside objects, envelopes inside envelopes).
	MaxDepth int
	// MaxUnpackedBytes bounds the inflated size of a gzip_packed payload.
	MaxUnpackedBytes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxDepth:         64,
		MaxUnpackedBytes: 16 * 1024 * 1024,
	}
}

func (l Limits) normalized() Limits {
	def := DefaultLimits()
	if l.MaxDepth <= 0 {
		l.MaxDepth = def.MaxDepth
	}
	if l.MaxUnpackedBytes <= 0 {
		l.MaxUnpackedBytes = def.MaxUnpackedBytes
	}
	return l
}

// Reader is an explicit cursor over one in-memory buffer. Every read either
// consumes exactly the bytes of the value it returns or fails without
// producing a value.
type Reader struct {
	buf    []byte
	off    int
	base   int
	reg    *Registry
	limits Limits
	depth  int
}

// NewReader returns a Reader over buf that resolves boxed values through reg.
// Zero fields in limits fall back to DefaultLimits.
func NewReader(buf []byte, reg *Registry, limits Limits) *Reader {
	return &Reader{buf: buf, reg: reg, limits: limits.normalized()}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) Registry() *Registry { return r.reg }

func (r *Reader) Limits() Limits { return r.limits }

// pos is the absolute position used in error reports.
func (r *Reader) pos() int { return r.base + r.off }

func (r *Reader) need(n int, what string) error {
	if r.Remaining() < n {
		return malformed(r.pos(), "short %s: need %d bytes, have %d", what, n, r.Remaining())
	}
	return nil
}

// Sub returns a child reader over the next n bytes and advances r past them.
// The child can never read beyond that boundary.
func (r *Reader) Sub(n int) (*Reader, error) {
	if n < 0 {
		return nil, malformed(r.pos(), "negative boundary %d", n)
	}
	if err := r.need(n, "bounded region"); err != nil {
		return nil, err
	}
	child := &Reader{
		buf:    r.buf[r.off : r.off+n],
		base:   r.pos(),
		reg:    r.reg,
		limits: r.limits,
		depth:  r.depth,
	}
	r.off += n
	return child, nil
}

// nested returns a reader over an unrelated buffer (an inflated envelope)
// that shares r's registry, limits and nesting depth.
func (r *Reader) nested(buf []byte) *Reader {
	return &Reader{buf: buf, reg: r.reg, limits: r.limits, depth: r.depth}
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4, "int"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// ReadID reads a 4-byte constructor identifier.
func (r *Reader) ReadID() (uint32, error) {
	return r.ReadUint32()
}

// PeekID returns the next constructor identifier without consuming it.
func (r *Reader) PeekID() (uint32, error) {
	if err := r.need(4, "constructor id"); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[r.off:]), nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadInt64() (int64, error) {
	if err := r.need(8, "long"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return int64(v), nil
}

func (r *Reader) ReadDouble() (float64, error) {
	if err := r.need(8, "double"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return math.Float64frombits(v), nil
}

func (r *Reader) ReadInt128() (Int128, error) {
	var v Int128
	if err := r.need(len(v), "int128"); err != nil {
		return v, err
	}
	r.off += copy(v[:], r.buf[r.off:])
	return v, nil
}

func (r *Reader) ReadInt256() (Int256, error) {
	var v Int256
	if err := r.need(len(v), "int256"); err != nil {
		return v, err
	}
	r.off += copy(v[:], r.buf[r.off:])
	return v, nil
}

// ReadFlags reads a `#` bitmask. It must be read before any field it gates.
func (r *Reader) ReadFlags() (Flags, error) {
	v, err := r.ReadUint32()
	return Flags(v), err
}

// ReadBool reads a boxed Bool: one of the two reserved identifiers.
func (r *Reader) ReadBool() (bool, error) {
	start := r.pos()
	id, err := r.ReadUint32()
	if err != nil {
		return false, err
	}
	switch id {
	case BoolTrueID:
		return true, nil
	case BoolFalseID:
		return false, nil
	default:
		return false, &Error{Kind: KindMalformedData, Offset: start, ID: id, Message: "expected Bool constructor"}
	}
}

// ReadBytes reads a length-prefixed, zero-padded byte string. The returned
// slice is a copy and does not alias the reader's buffer.
func (r *Reader) ReadBytes() ([]byte, error) {
	start := r.pos()
	if err := r.need(1, "bytes length"); err != nil {
		return nil, err
	}
	n := int(r.buf[r.off])
	header := 1
	switch {
	case n == longBytesMarker:
		if err := r.need(4, "long bytes length"); err != nil {
			return nil, err
		}
		b := r.buf[r.off:]
		n = int(b[1]) | int(b[2])<<8 | int(b[3])<<16
		header = 4
	case n > longBytesMarker:
		return nil, malformed(start, "invalid bytes length marker %#x", n)
	}
	total := padded(header + n)
	if r.Remaining() < total {
		return nil, malformed(start, "bytes length %d overruns buffer (%d remaining)", n, r.Remaining())
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off+header:r.off+header+n])
	r.off += total
	return out, nil
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func padded(n int) int {
	return (n + 3) &^ 3
}
