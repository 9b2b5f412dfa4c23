package tl

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
)

// GzipPackedID is the compression envelope constructor:
//
//	gzip_packed#3072cfa1 packed_data:bytes = Object;
const GzipPackedID uint32 = 0x3072cfa1

var gzipWriters = sync.Pool{
	New: func() any {
		zw, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return zw
	},
}

// GzipPacked carries an inner boxed value that is compressed on Encode.
// Decoding never produces a GzipPacked; the registered factory returns the
// inflated inner value instead.
type GzipPacked struct {
	Inner Object
}

// Wrap returns the envelope for obj.
func Wrap(obj Object) *GzipPacked {
	return &GzipPacked{Inner: obj}
}

func (*GzipPacked) TypeID() uint32   { return GzipPackedID }
func (*GzipPacked) TypeName() string { return "gzip_packed" }

func (g *GzipPacked) Fields() []Field {
	return []Field{{Name: "packed_data", Value: g.Inner}}
}

func (g *GzipPacked) Encode(w *Writer) error {
	if isNil(g.Inner) {
		return InvalidValue("gzip_packed without an inner object")
	}
	plain, err := Encode(g.Inner)
	if err != nil {
		return err
	}
	packed, err := compress(plain)
	if err != nil {
		return InvalidValue("gzip %s: %v", g.Inner.TypeName(), err)
	}
	log.Trace().
		Str("inner", g.Inner.TypeName()).
		Int("plain", len(plain)).
		Int("packed", len(packed)).
		Msg("tl.GzipPacked encode")
	w.PutID(GzipPackedID)
	w.PutBytes(packed)
	return w.Err()
}

func compress(plain []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzipWriters.Get().(*gzip.Writer)
	defer gzipWriters.Put(zw)
	zw.Reset(&buf)
	if _, err := zw.Write(plain); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readGzipPacked inflates packed_data and decodes the boxed value inside it
// with the same registry and limits. Bytes after the inner value are ignored.
func readGzipPacked(r *Reader) (Object, error) {
	start := r.pos()
	packed, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	raw, err := inflate(packed, r.limits.MaxUnpackedBytes)
	if err != nil {
		return nil, decodeFailure(start, "gzip_packed", err)
	}
	inner, err := r.nested(raw).ReadObject()
	if err != nil {
		return nil, err
	}
	return inner, nil
}

func inflate(packed []byte, limit int) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(packed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	raw, err := io.ReadAll(io.LimitReader(zr, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > limit {
		return nil, fmt.Errorf("inflated payload exceeds %d bytes", limit)
	}
	return raw, nil
}
