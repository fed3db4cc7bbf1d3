package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for validation and conversion.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ValidationsTotal   *prometheus.CounterVec
	ViolationsTotal    *prometheus.CounterVec
	ValidationLatency  *prometheus.HistogramVec
	ConversionsTotal   *prometheus.CounterVec
	ConversionLatency  *prometheus.HistogramVec
	PayloadSize        *prometheus.HistogramVec
	DataGroupTemplates *prometheus.HistogramVec
	EndpointLatency    *prometheus.HistogramVec
}

// New registers and returns collectors on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers and returns collectors on reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ValidationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "biometric_validations_total",
			Help: "Total number of record validations, labeled by modality and outcome",
		}, []string{"modality", "outcome"}),
		ViolationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "biometric_validation_violations_total",
			Help: "Total number of rule violations reported, labeled by modality and field",
		}, []string{"modality", "field"}),
		ValidationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biometric_validation_latency_seconds",
			Help:    "Latency of record validation in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}, []string{"modality"}),
		ConversionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "biometric_conversions_total",
			Help: "Total number of image conversions, labeled by modality, target and outcome",
		}, []string{"modality", "target", "outcome"}),
		ConversionLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biometric_conversion_latency_seconds",
			Help:    "Latency of image conversion in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"modality", "target"}),
		PayloadSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biometric_payload_size_bytes",
			Help:    "Size of decoded biometric records in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 12),
		}, []string{"modality"}),
		DataGroupTemplates: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biometric_data_group_templates",
			Help:    "Number of biometric templates found per data group",
			Buckets: []float64{1, 2, 4, 10},
		}, []string{"data_group"}),
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biometric_endpoint_latency_seconds",
			Help:    "Latency of HTTP endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "status"}),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveValidation records one validation and its violated fields.
func (m *Metrics) ObserveValidation(modality string, fields []string, start time.Time) {
	if m == nil {
		return
	}
	result := "valid"
	if len(fields) > 0 {
		result = "invalid"
	}
	m.ValidationsTotal.WithLabelValues(modality, result).Inc()
	for _, f := range fields {
		m.ViolationsTotal.WithLabelValues(modality, f).Inc()
	}
	m.ValidationLatency.WithLabelValues(modality).Observe(time.Since(start).Seconds())
}

// ObserveValidationError records a validation that stopped before the
// rule tables ran.
func (m *Metrics) ObserveValidationError(modality string) {
	if m == nil {
		return
	}
	m.ValidationsTotal.WithLabelValues(modality, "error").Inc()
}

// ObserveConversion records one image conversion.
func (m *Metrics) ObserveConversion(modality, target string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.ConversionsTotal.WithLabelValues(modality, target, outcome(err)).Inc()
	m.ConversionLatency.WithLabelValues(modality, target).Observe(time.Since(start).Seconds())
}

// ObservePayloadSize records the size of a decoded record.
func (m *Metrics) ObservePayloadSize(modality string, size int) {
	if m == nil {
		return
	}
	m.PayloadSize.WithLabelValues(modality).Observe(float64(size))
}

// ObserveDataGroup records how many templates a data group carried.
func (m *Metrics) ObserveDataGroup(dataGroup string, templates int) {
	if m == nil {
		return
	}
	m.DataGroupTemplates.WithLabelValues(dataGroup).Observe(float64(templates))
}

// ObserveEndpointLatency records the latency of one HTTP request.
func (m *Metrics) ObserveEndpointLatency(endpoint string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
