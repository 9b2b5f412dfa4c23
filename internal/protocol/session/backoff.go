package session

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/danmuck/tlwire/internal/protocol/frame"
)

// Transport error codes sent in place of a frame.
const (
	CodeAuthKeyNotFound int32 = -404
	CodeFlood           int32 = -429
	CodeInvalidDC       int32 = -444
)

// NextBackoffDelay returns the retry delay for attempt N (1-based).
func NextBackoffDelay(cfg BackoffConfig, attempt int, rng *rand.Rand) time.Duration {
	if attempt <= 1 || cfg.InitialDelay <= 0 {
		return cfg.InitialDelay
	}
	mult := math.Max(cfg.Multiplier, 1.0)
	delay := float64(cfg.InitialDelay) * math.Pow(mult, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if cfg.Jitter {
		f := 0.5
		if rng != nil {
			f = 0.5 + rng.Float64()
		}
		delay *= f
	}
	return time.Duration(delay)
}

// ReconnectDelay decides whether a connection that failed with err should be
// retried and after how long. An unknown auth key or wrong DC is permanent;
// flooding starts at the maximum delay.
func ReconnectDelay(cfg BackoffConfig, err error, attempt int, rng *rand.Rand) (time.Duration, bool) {
	var te *frame.TransportError
	if errors.As(err, &te) {
		switch te.Code {
		case CodeAuthKeyNotFound, CodeInvalidDC:
			return 0, false
		case CodeFlood:
			if cfg.MaxDelay > 0 {
				return cfg.MaxDelay, true
			}
		}
	}
	return NextBackoffDelay(cfg, attempt, rng), true
}
