package tl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"testing/quick"

	"github.com/danmuck/tlwire/internal/testutil/testlog"
)

func TestShortStringEncoding(t *testing.T) {
	testlog.Start(t)

	got := mustEncode(t, &note{Text: "abc"})
	want := []byte{0x7e, 0x0a, 0xad, 0x0b, 0x03, 'a', 'b', 'c'}
	if !bytes.Equal(got, want) {
		t.Fatalf("encoding mismatch: got=% x want=% x", got, want)
	}

	obj, n, err := Decode(testRegistry(t), got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(got) {
		t.Fatalf("consumed %d bytes, want %d", n, len(got))
	}
	if text := obj.(*note).Text; text != "abc" {
		t.Fatalf("text mismatch: %q", text)
	}
}

func TestIntVectorEncoding(t *testing.T) {
	testlog.Start(t)

	w := NewWriter(16)
	PutVector(w, []int32{7, 9}, (*Writer).PutInt32)
	if err := w.Err(); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := []byte{
		0x15, 0xc4, 0xb5, 0x1c,
		0x02, 0x00, 0x00, 0x00,
		0x07, 0x00, 0x00, 0x00,
		0x09, 0x00, 0x00, 0x00,
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("encoding mismatch: got=% x want=% x", w.Bytes(), want)
	}

	r := NewReader(w.Bytes(), nil, Limits{})
	got, err := ReadVector(r, (*Reader).ReadInt32)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0] != 7 || got[1] != 9 {
		t.Fatalf("vector mismatch: %v", got)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected vector fully consumed, %d bytes left", r.Remaining())
	}

	again := NewWriter(16)
	PutVector(again, got, (*Writer).PutInt32)
	if !bytes.Equal(again.Bytes(), want) {
		t.Fatalf("re-encode mismatch: % x", again.Bytes())
	}
}

func TestBytesPaddingInvariant(t *testing.T) {
	testlog.Start(t)

	for n := 0; n <= 600; n++ {
		data := bytes.Repeat([]byte{0x5a}, n)
		w := NewWriter(n + 8)
		w.PutBytes(data)
		if w.Len()%4 != 0 {
			t.Fatalf("len=%d: encoding of %d bytes is not 4-aligned", n, w.Len())
		}
		r := NewReader(w.Bytes(), nil, Limits{})
		got, err := r.ReadBytes()
		if err != nil {
			t.Fatalf("len=%d: read: %v", n, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("len=%d: payload mismatch", n)
		}
		if r.Offset() != w.Len() {
			t.Fatalf("len=%d: consumed %d of %d", n, r.Offset(), w.Len())
		}
		for _, b := range w.Bytes()[headerLen(n)+n:] {
			if b != 0 {
				t.Fatalf("len=%d: non-zero padding byte", n)
			}
		}
	}
}

func headerLen(n int) int {
	if n <= 253 {
		return 1
	}
	return 4
}

func TestBytesLengthClassBoundary(t *testing.T) {
	testlog.Start(t)

	cases := []struct {
		n      int
		header []byte
		total  int
	}{
		{n: 253, header: []byte{253}, total: 256},
		{n: 254, header: []byte{254, 254, 0, 0}, total: 260},
		{n: 255, header: []byte{254, 255, 0, 0}, total: 260},
		{n: 70000, header: []byte{254, 0x70, 0x11, 0x01}, total: 70004},
	}
	for _, tc := range cases {
		w := NewWriter(tc.total)
		w.PutBytes(make([]byte, tc.n))
		if w.Len() != tc.total {
			t.Fatalf("n=%d: total=%d want=%d", tc.n, w.Len(), tc.total)
		}
		if !bytes.Equal(w.Bytes()[:len(tc.header)], tc.header) {
			t.Fatalf("n=%d: header=% x want=% x", tc.n, w.Bytes()[:len(tc.header)], tc.header)
		}
	}
}

func TestPutBytesRejectsOversizedString(t *testing.T) {
	testlog.Start(t)

	w := NewWriter(0)
	w.PutBytes(make([]byte, MaxBytesLen+1))
	if !errors.Is(w.Err(), ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", w.Err())
	}
	if w.Len() != 0 {
		t.Fatalf("expected nothing written, got %d bytes", w.Len())
	}
	w.PutInt32(1)
	if w.Len() != 0 {
		t.Fatalf("writes after a failure must be ignored")
	}
}

func TestReadBytesMalformed(t *testing.T) {
	testlog.Start(t)

	cases := map[string][]byte{
		"empty":           {},
		"overrun short":   {0x05, 'a', 'b', 'c'},
		"missing padding": {0x02, 'a', 'b'},
		"truncated long":  {254, 0x00, 0x01},
		"overrun long":    append([]byte{254, 0x00, 0x01, 0x00}, make([]byte, 16)...),
		"reserved marker": {255, 0, 0, 0},
	}
	for name, buf := range cases {
		r := NewReader(buf, nil, Limits{})
		if _, err := r.ReadBytes(); !errors.Is(err, ErrMalformedData) {
			t.Fatalf("%s: expected ErrMalformedData, got %v", name, err)
		}
		if r.Offset() != 0 {
			t.Fatalf("%s: failed read consumed %d bytes", name, r.Offset())
		}
	}
}

func TestReadBytesDoesNotAlias(t *testing.T) {
	testlog.Start(t)

	buf := []byte{0x03, 'x', 'y', 'z'}
	got, err := NewReader(buf, nil, Limits{}).ReadBytes()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	buf[1] = 'q'
	if string(got) != "xyz" {
		t.Fatalf("result aliases the input buffer: %q", got)
	}
}

func TestFixedWidthLittleEndian(t *testing.T) {
	testlog.Start(t)

	w := NewWriter(32)
	w.PutInt32(-2)
	w.PutInt64(0x0102030405060708)
	w.PutDouble(1.5)
	buf := w.Bytes()
	if len(buf) != 20 {
		t.Fatalf("unexpected length %d", len(buf))
	}
	if binary.LittleEndian.Uint32(buf) != 0xfffffffe {
		t.Fatalf("int32 not little-endian: % x", buf[:4])
	}
	if buf[4] != 0x08 || buf[11] != 0x01 {
		t.Fatalf("int64 not little-endian: % x", buf[4:12])
	}

	r := NewReader(buf, nil, Limits{})
	i32, _ := r.ReadInt32()
	i64, _ := r.ReadInt64()
	f64, err := r.ReadDouble()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if i32 != -2 || i64 != 0x0102030405060708 || f64 != 1.5 {
		t.Fatalf("values mismatch: %d %d %v", i32, i64, f64)
	}
	if _, err := r.ReadInt32(); !errors.Is(err, ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData past the end, got %v", err)
	}
}

func TestBoolIdentifiers(t *testing.T) {
	testlog.Start(t)

	w := NewWriter(8)
	w.PutBool(true)
	w.PutBool(false)
	want := []byte{0xb5, 0x75, 0x72, 0x99, 0x37, 0x97, 0x79, 0xbc}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("bool encoding mismatch: % x", w.Bytes())
	}
	r := NewReader(w.Bytes(), nil, Limits{})
	if v, err := r.ReadBool(); err != nil || !v {
		t.Fatalf("expected true, got %v %v", v, err)
	}
	if v, err := r.ReadBool(); err != nil || v {
		t.Fatalf("expected false, got %v %v", v, err)
	}

	bad := NewReader([]byte{1, 0, 0, 0}, nil, Limits{})
	_, err := bad.ReadBool()
	var te *Error
	if !errors.As(err, &te) || te.Kind != KindMalformedData || te.ID != 1 {
		t.Fatalf("expected malformed Bool error, got %v", err)
	}
}

func TestInt128And256(t *testing.T) {
	testlog.Start(t)

	var nonce Int128
	var key Int256
	for i := range nonce {
		nonce[i] = byte(i)
	}
	for i := range key {
		key[i] = byte(255 - i)
	}
	w := NewWriter(48)
	w.PutInt128(nonce)
	w.PutInt256(key)
	r := NewReader(w.Bytes(), nil, Limits{})
	gotNonce, err := r.ReadInt128()
	if err != nil {
		t.Fatalf("read int128: %v", err)
	}
	gotKey, err := r.ReadInt256()
	if err != nil {
		t.Fatalf("read int256: %v", err)
	}
	if gotNonce != nonce || gotKey != key {
		t.Fatalf("wide integer mismatch")
	}
}

func TestVectorRejectsImplausibleCount(t *testing.T) {
	testlog.Start(t)

	buf := []byte{0x15, 0xc4, 0xb5, 0x1c, 0xff, 0xff, 0xff, 0x7f, 0x01, 0x00, 0x00, 0x00}
	_, err := ReadVector(NewReader(buf, nil, Limits{}), (*Reader).ReadInt32)
	if !errors.Is(err, ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData, got %v", err)
	}

	negative := []byte{0x15, 0xc4, 0xb5, 0x1c, 0xff, 0xff, 0xff, 0xff}
	_, err = ReadVector(NewReader(negative, nil, Limits{}), (*Reader).ReadInt32)
	if !errors.Is(err, ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData for negative count, got %v", err)
	}

	wrongID := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	_, err = ReadVector(NewReader(wrongID, nil, Limits{}), (*Reader).ReadInt32)
	if !errors.Is(err, ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData for wrong header, got %v", err)
	}
}

func TestSubReaderIsBounded(t *testing.T) {
	testlog.Start(t)

	buf := []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}
	r := NewReader(buf, nil, Limits{})
	sub, err := r.Sub(4)
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	if v, err := sub.ReadInt32(); err != nil || v != 1 {
		t.Fatalf("sub read: %v %v", v, err)
	}
	_, err = sub.ReadInt32()
	var te *Error
	if !errors.As(err, &te) || te.Offset != 4 {
		t.Fatalf("expected malformed error at absolute offset 4, got %v", err)
	}
	if r.Offset() != 4 {
		t.Fatalf("parent advanced to %d, want 4", r.Offset())
	}
	if _, err := r.Sub(12); !errors.Is(err, ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData for oversized region, got %v", err)
	}
}

func TestFlagsBits(t *testing.T) {
	testlog.Start(t)

	var f Flags
	f.Set(0)
	f.SetIf(3, true)
	f.SetIf(5, false)
	if !f.Has(0) || !f.Has(3) || f.Has(5) {
		t.Fatalf("unexpected flags %b", f)
	}
	f.Clear(0)
	if f != 1<<3 {
		t.Fatalf("clear failed: %b", f)
	}
}

func TestPrimitiveRoundTripProperty(t *testing.T) {
	testlog.Start(t)

	prop := func(i32 int32, i64 int64, s string, b []byte, ok bool) bool {
		w := NewWriter(64)
		w.PutInt32(i32)
		w.PutInt64(i64)
		w.PutString(s)
		w.PutBytes(b)
		w.PutBool(ok)
		if w.Err() != nil {
			return false
		}
		r := NewReader(w.Bytes(), nil, Limits{})
		gi32, _ := r.ReadInt32()
		gi64, _ := r.ReadInt64()
		gs, _ := r.ReadString()
		gb, _ := r.ReadBytes()
		gok, err := r.ReadBool()
		return err == nil &&
			gi32 == i32 && gi64 == i64 && gs == s && bytes.Equal(gb, b) && gok == ok &&
			r.Remaining() == 0
	}
	if err := quick.Check(prop, nil); err != nil {
		t.Fatalf("round-trip property: %v", err)
	}
}
