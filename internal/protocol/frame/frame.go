package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// IntermediateTag opens an intermediate-framed connection.
	IntermediateTag uint32 = 0xeeeeeeee
	HeaderLen              = 4
)

var (
	ErrShortHeader     = errors.New("frame: short length header")
	ErrBadTag          = errors.New("frame: unexpected connection tag")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
	ErrMisaligned      = errors.New("frame: payload length is not a multiple of 4")
	ErrEmptyPayload    = errors.New("frame: empty payload")
)

// TransportError is a 4-byte frame carrying a negative status code in place
// of a message, such as -404 for an unknown auth key or -429 for flooding.
type TransportError struct {
	Code int32
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("frame: transport error %d", e.Code)
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint32
}

func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: 8 * 1024 * 1024}
}

func WriteTag(w io.Writer) error {
	var tag [4]byte
	binary.LittleEndian.PutUint32(tag[:], IntermediateTag)
	_, err := w.Write(tag[:])
	return err
}

func ReadTag(r io.Reader) error {
	var tag [4]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return ErrShortHeader
		}
		return err
	}
	if got := binary.LittleEndian.Uint32(tag[:]); got != IntermediateTag {
		return fmt.Errorf("%w: %#08x", ErrBadTag, got)
	}
	return nil
}

// ReadFrame reads one length-prefixed payload. A clean EOF before the length
// is returned as io.EOF so callers can end their receive loop.
func ReadFrame(r io.Reader, limits Limits) ([]byte, error) {
	var head [HeaderLen]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortHeader
		}
		return nil, err
	}
	n := binary.LittleEndian.Uint32(head[:])
	switch {
	case n == 0:
		return nil, ErrEmptyPayload
	case n > limits.MaxPayloadBytes:
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, n, limits.MaxPayloadBytes)
	case n%4 != 0:
		return nil, fmt.Errorf("%w: %d", ErrMisaligned, n)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if n == 4 {
		return nil, &TransportError{Code: int32(binary.LittleEndian.Uint32(payload))}
	}
	return payload, nil
}

func WriteFrame(w io.Writer, payload []byte, limits Limits) error {
	n := len(payload)
	switch {
	case n == 0:
		return ErrEmptyPayload
	case uint64(n) > uint64(limits.MaxPayloadBytes):
		return fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, n, limits.MaxPayloadBytes)
	case n%4 != 0:
		return fmt.Errorf("%w: %d", ErrMisaligned, n)
	}

	buf := make([]byte, HeaderLen+n)
	binary.LittleEndian.PutUint32(buf, uint32(n))
	copy(buf[HeaderLen:], payload)
	_, err := w.Write(buf)
	return err
}
