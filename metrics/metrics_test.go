package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveValidation(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())

	m.ObserveValidation("Finger", nil, time.Now())
	m.ObserveValidation("Finger", []string{"Bit Depth", "Compression Type"}, time.Now())
	m.ObserveValidationError("Iris")

	require.Equal(t, 1.0, testutil.ToFloat64(m.ValidationsTotal.WithLabelValues("Finger", "valid")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ValidationsTotal.WithLabelValues("Finger", "invalid")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ValidationsTotal.WithLabelValues("Iris", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ViolationsTotal.WithLabelValues("Finger", "Bit Depth")))
}

func TestObserveConversion(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())

	m.ObserveConversion("Face", "IMAGE_PNG", time.Now(), nil)
	m.ObserveConversion("Face", "IMAGE_PNG", time.Now(), errors.New("boom"))

	require.Equal(t, 1.0, testutil.ToFloat64(m.ConversionsTotal.WithLabelValues("Face", "IMAGE_PNG", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ConversionsTotal.WithLabelValues("Face", "IMAGE_PNG", "error")))
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveValidation("Finger", []string{"x"}, time.Now())
		m.ObserveValidationError("Finger")
		m.ObserveConversion("Finger", "IMAGE_JPEG", time.Now(), nil)
		m.ObservePayloadSize("Finger", 10)
		m.ObserveDataGroup("DG3", 2)
		m.ObserveEndpointLatency("/api/validate", 200, time.Now())
	})
}
