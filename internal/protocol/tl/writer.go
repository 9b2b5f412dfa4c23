package tl

import (
	"encoding/binary"
	"math"
	"reflect"
)

// Writer appends TL encodings to a growing buffer. The first failure is
// sticky: later writes are ignored and Err reports it, so Encode methods can
// write every field and check once at the end.
type Writer struct {
	buf []byte
	err error
}

// NewWriter returns a Writer with room for size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) Err() error { return w.err }

// Reset clears the buffer and any sticky error, keeping capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.err = nil
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) PutUint32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// PutID writes a constructor identifier.
func (w *Writer) PutID(id uint32) { w.PutUint32(id) }

func (w *Writer) PutInt32(v int32) { w.PutUint32(uint32(v)) }

func (w *Writer) PutInt64(v int64) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
}

func (w *Writer) PutDouble(v float64) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

func (w *Writer) PutInt128(v Int128) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v[:]...)
}

func (w *Writer) PutInt256(v Int256) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v[:]...)
}

// PutRaw appends already-encoded bytes, such as a serialized message body.
func (w *Writer) PutRaw(b []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, b...)
}

// PutFlags writes a `#` bitmask. Callers set every presence bit first.
func (w *Writer) PutFlags(f Flags) { w.PutUint32(uint32(f)) }

func (w *Writer) PutBool(v bool) {
	if v {
		w.PutUint32(BoolTrueID)
		return
	}
	w.PutUint32(BoolFalseID)
}

// PutBytes writes a length-prefixed byte string padded to a multiple of 4.
func (w *Writer) PutBytes(b []byte) {
	if w.err != nil {
		return
	}
	n := len(b)
	if n > MaxBytesLen {
		w.fail(InvalidValue("byte string of %d bytes exceeds %d", n, MaxBytesLen))
		return
	}
	header := 1
	if n <= shortBytesMax {
		w.buf = append(w.buf, byte(n))
	} else {
		header = 4
		w.buf = append(w.buf, longBytesMarker, byte(n), byte(n>>8), byte(n>>16))
	}
	w.buf = append(w.buf, b...)
	for pad := padded(header+n) - (header + n); pad > 0; pad-- {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) PutString(s string) {
	if w.err != nil {
		return
	}
	if len(s) > MaxBytesLen {
		w.fail(InvalidValue("string of %d bytes exceeds %d", len(s), MaxBytesLen))
		return
	}
	w.PutBytes([]byte(s))
}

// PutObject writes a boxed value: its identifier followed by its fields.
func (w *Writer) PutObject(obj Encoder) {
	if w.err != nil {
		return
	}
	if isNil(obj) {
		w.fail(InvalidValue("nil object in boxed field"))
		return
	}
	if err := obj.Encode(w); err != nil {
		w.fail(err)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}
