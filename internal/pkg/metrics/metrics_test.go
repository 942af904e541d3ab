package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFallback(t *testing.T) {
	before := testutil.ToFloat64(FallbacksTotal.WithLabelValues(FallbackDecimals, "base"))

	RecordFallback(FallbackDecimals, "base")
	RecordFallback(FallbackDecimals, "base")

	assert.Equal(t, before+2, testutil.ToFloat64(FallbacksTotal.WithLabelValues(FallbackDecimals, "base")))
	assert.Zero(t, testutil.ToFloat64(FallbacksTotal.WithLabelValues(FallbackAllowance, "base")))
}

func TestMustRegisterMetrics_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		MustRegisterMetrics()
		MustRegisterMetrics()
	})
}
