package observability

import (
	"strings"
	"sync"
	"time"

	"github.com/danmuck/tlwire/internal/protocol/tl"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	codecDecodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tlwire",
			Subsystem: "codec",
			Name:      "decode_total",
			Help:      "Total top-level decodes by outcome.",
		},
		[]string{"outcome"},
	)
	codecBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tlwire",
			Subsystem: "codec",
			Name:      "bytes_total",
			Help:      "Bytes decoded (in) and encoded (out).",
		},
		[]string{"direction"},
	)
	codecEnvelopes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tlwire",
			Subsystem: "codec",
			Name:      "envelope_total",
			Help:      "Encodes wrapped in gzip_packed (packed) or sent plain.",
		},
		[]string{"direction"},
	)
	codecDecodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tlwire",
			Subsystem: "codec",
			Name:      "decode_duration_seconds",
			Help:      "Top-level decode duration in seconds.",
			Buckets:   []float64{.000001, .00001, .0001, .001, .01, .1},
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(codecDecodes, codecBytes, codecEnvelopes, codecDecodeDuration)
	})
}

// CodecMetrics records codec activity into the process metrics registry.
// Install it with protocol.WithObserver.
type CodecMetrics struct{}

func NewCodecMetrics() CodecMetrics {
	RegisterMetrics()
	return CodecMetrics{}
}

func (CodecMetrics) ObserveDecode(n int, duration time.Duration, err error) {
	RegisterMetrics()
	outcome := DecodeOutcome(err)
	codecDecodes.WithLabelValues(outcome).Inc()
	codecDecodeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if err == nil {
		codecBytes.WithLabelValues("in").Add(float64(n))
	}
}

func (CodecMetrics) ObserveEncode(n int, packed bool) {
	RegisterMetrics()
	codecBytes.WithLabelValues("out").Add(float64(n))
	if packed {
		codecEnvelopes.WithLabelValues("packed").Inc()
		return
	}
	codecEnvelopes.WithLabelValues("plain").Inc()
}

// DecodeOutcome is the outcome label for err: "ok", the snake_case error kind,
// or "other" for errors outside the codec taxonomy.
func DecodeOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch tl.KindOf(err) {
	case tl.KindMalformedData:
		return "malformed_data"
	case tl.KindUnknownConstructor:
		return "unknown_constructor"
	case tl.KindDecodeFailure:
		return "decode_failure"
	case "":
		return "other"
	default:
		return strings.ToLower(string(tl.KindOf(err)))
	}
}
