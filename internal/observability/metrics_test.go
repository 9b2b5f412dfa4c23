package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/danmuck/tlwire/internal/protocol/tl"
	"github.com/danmuck/tlwire/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog/log"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)

	RegisterMetrics()
	RegisterMetrics()
	m := NewCodecMetrics()

	okBefore := testutil.ToFloat64(codecDecodes.WithLabelValues("ok"))
	inBefore := testutil.ToFloat64(codecBytes.WithLabelValues("in"))
	packedBefore := testutil.ToFloat64(codecEnvelopes.WithLabelValues("packed"))

	m.ObserveDecode(24, 3*time.Microsecond, nil)
	m.ObserveDecode(0, time.Microsecond, tl.Malformed(0, "short"))
	m.ObserveEncode(128, true)
	m.ObserveEncode(16, false)

	if got := testutil.ToFloat64(codecDecodes.WithLabelValues("ok")) - okBefore; got != 1 {
		t.Fatalf("ok decodes delta=%v", got)
	}
	if got := testutil.ToFloat64(codecBytes.WithLabelValues("in")) - inBefore; got != 24 {
		t.Fatalf("bytes in delta=%v", got)
	}
	if got := testutil.ToFloat64(codecEnvelopes.WithLabelValues("packed")) - packedBefore; got != 1 {
		t.Fatalf("packed delta=%v", got)
	}

	log.Debug().Msg("observability/metrics: registration idempotent and recording paths executed")
}

func TestDecodeOutcome(t *testing.T) {
	testlog.Start(t)

	cases := map[string]error{
		"ok":                  nil,
		"malformed_data":      tl.Malformed(4, "x"),
		"decode_failure":      &tl.Error{Kind: tl.KindDecodeFailure},
		"unknown_constructor": &tl.Error{Kind: tl.KindUnknownConstructor, ID: 1},
		"other":               errors.New("socket closed"),
	}
	for want, err := range cases {
		if got := DecodeOutcome(err); got != want {
			t.Fatalf("DecodeOutcome(%v)=%q want %q", err, got, want)
		}
	}
}
