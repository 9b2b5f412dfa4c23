package session

import (
	"time"

	"github.com/danmuck/tlwire/internal/protocol"
	"github.com/danmuck/tlwire/internal/protocol/frame"
	"github.com/danmuck/tlwire/internal/protocol/tl"
)

// BackoffConfig defines reconnect backoff behavior.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// Config collects the codec and session tunables a transport needs.
type Config struct {
	CompressThreshold int
	AcksThreshold     int
	Frame             frame.Limits
	Decode            tl.Limits
	Backoff           BackoffConfig
}

func DefaultConfig() Config {
	return Config{
		CompressThreshold: protocol.DefaultCompressThreshold,
		AcksThreshold:     8,
		Frame:             frame.DefaultLimits(),
		Decode:            tl.DefaultLimits(),
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     5 * time.Second,
			Jitter:       true,
		},
	}
}

// CodecOptions returns the codec options matching c.
func (c Config) CodecOptions() []protocol.Option {
	return []protocol.Option{
		protocol.WithLimits(c.Decode),
		protocol.WithCompressThreshold(c.CompressThreshold),
	}
}
