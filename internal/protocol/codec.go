package protocol

import (
	"time"

	"github.com/danmuck/tlwire/internal/protocol/tl"
	"github.com/rs/zerolog/log"
)

const DefaultCompressThreshold = 512

// Observer receives codec activity. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveDecode(n int, duration time.Duration, err error)
	ObserveEncode(n int, packed bool)
}

type nopObserver struct{}

func (nopObserver) ObserveDecode(int, time.Duration, error) {}
func (nopObserver) ObserveEncode(int, bool)                 {}

// Codec decodes and encodes boxed objects against one registry. A Codec is
// immutable after construction and safe for concurrent use.
type Codec struct {
	reg       *tl.Registry
	limits    tl.Limits
	threshold int
	observer  Observer
}

type Option func(*Codec)

func WithLimits(limits tl.Limits) Option {
	return func(c *Codec) { c.limits = limits }
}

// WithCompressThreshold sets the plain encoding size from which MaybeCompress
// tries gzip_packed. Zero or a negative value disables compression.
func WithCompressThreshold(n int) Option {
	return func(c *Codec) { c.threshold = n }
}

func WithObserver(o Observer) Option {
	return func(c *Codec) {
		if o != nil {
			c.observer = o
		}
	}
}

func NewCodec(reg *tl.Registry, opts ...Option) *Codec {
	c := &Codec{
		reg:       reg,
		limits:    tl.DefaultLimits(),
		threshold: DefaultCompressThreshold,
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) Registry() *tl.Registry { return c.reg }
func (c *Codec) Limits() tl.Limits      { return c.limits }

// Decode reads one boxed object from the start of buf and reports how many
// bytes it consumed. On error no object is returned.
func (c *Codec) Decode(buf []byte) (tl.Object, int, error) {
	start := time.Now()
	obj, n, err := tl.DecodeWithLimits(c.reg, buf, c.limits)
	c.observer.ObserveDecode(n, time.Since(start), err)
	if err != nil {
		log.Debug().
			Err(err).
			Int("len", len(buf)).
			Str("kind", string(tl.KindOf(err))).
			Msg("protocol.Decode failed")
		return nil, 0, err
	}
	return obj, n, nil
}

// DecodeAs decodes buf and requires the result to be a T.
func DecodeAs[T tl.Object](c *Codec, buf []byte) (T, int, error) {
	var zero T
	obj, n, err := c.Decode(buf)
	if err != nil {
		return zero, 0, err
	}
	v, ok := obj.(T)
	if !ok {
		return zero, 0, tl.Malformed(0, "decoded %s, which is not a %T", obj.TypeName(), zero)
	}
	return v, n, nil
}

func (c *Codec) Encode(obj tl.Encoder) ([]byte, error) {
	out, err := tl.Encode(obj)
	if err != nil {
		return nil, err
	}
	c.observer.ObserveEncode(len(out), false)
	return out, nil
}

// MaybeCompress encodes obj and wraps it in gzip_packed when the plain form
// reaches the threshold and the packed form is smaller.
func (c *Codec) MaybeCompress(obj tl.Object) ([]byte, error) {
	plain, err := tl.Encode(obj)
	if err != nil {
		return nil, err
	}
	if c.threshold <= 0 || len(plain) < c.threshold {
		c.observer.ObserveEncode(len(plain), false)
		return plain, nil
	}
	packed, err := tl.Encode(tl.Wrap(obj))
	if err != nil {
		return nil, err
	}
	if len(packed) >= len(plain) {
		log.Trace().
			Str("type", obj.TypeName()).
			Int("plain", len(plain)).
			Int("packed", len(packed)).
			Msg("protocol.MaybeCompress kept plain")
		c.observer.ObserveEncode(len(plain), false)
		return plain, nil
	}
	c.observer.ObserveEncode(len(packed), true)
	return packed, nil
}

// Compress returns obj itself or its gzip_packed wrapper under the same
// policy as MaybeCompress, for callers that embed the body in a larger
// object such as a message.
func (c *Codec) Compress(obj tl.Object) (tl.Object, error) {
	plain, err := tl.Len(obj)
	if err != nil {
		return nil, err
	}
	if c.threshold <= 0 || plain < c.threshold {
		return obj, nil
	}
	wrapped := tl.Wrap(obj)
	packed, err := tl.Len(wrapped)
	if err != nil {
		return nil, err
	}
	if packed >= plain {
		return obj, nil
	}
	return wrapped, nil
}
