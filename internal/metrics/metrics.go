package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"opensky-state-decoder/internal/model"
)

// Metrics collects fetcher, decoder, buffer and HTTP metrics on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests prometheus.Counter
	apiErrors   prometheus.Counter
	apiLatency  prometheus.Histogram

	repliesDecoded  *prometheus.CounterVec
	vehiclesDecoded prometheus.Counter
	diagnostics     *prometheus.CounterVec
	decodeLatency   prometheus.Histogram

	bufferSize     prometheus.Gauge
	bufferCapacity prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpErrors   *prometheus.CounterVec

	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "opensky_api_requests_total",
			Help: "Requests sent to the OpenSky API",
		}),
		apiErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "opensky_api_errors_total",
			Help: "OpenSky requests that failed or returned a non-200 status",
		}),
		apiLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "opensky_api_latency_seconds",
			Help:    "OpenSky request latency",
			Buckets: prometheus.DefBuckets,
		}),
		repliesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "decoder_replies_total",
			Help: "Replies run through the decoder by outcome",
		}, []string{"result"}),
		vehiclesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "decoder_state_vectors_total",
			Help: "State vectors decoded",
		}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "decoder_diagnostics_total",
			Help: "Non-fatal decode diagnostics by kind",
		}, []string{"kind"}),
		decodeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "decoder_latency_seconds",
			Help:    "Time spent decoding one reply",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		bufferSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "buffer_state_vectors",
			Help: "State vectors currently buffered",
		}),
		bufferCapacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "buffer_capacity",
			Help: "Buffer capacity in state vectors",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served by route",
		}, []string{"route"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "HTTP requests answered with an error by route",
		}, []string{"route"}),
		startTime: time.Now(),
	}

	m.registry.MustRegister(
		m.apiRequests, m.apiErrors, m.apiLatency,
		m.repliesDecoded, m.vehiclesDecoded, m.diagnostics, m.decodeLatency,
		m.bufferSize, m.bufferCapacity,
		m.httpRequests, m.httpErrors,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// API metrics methods

func (m *Metrics) IncrementAPIRequests() {
	m.apiRequests.Inc()
}

func (m *Metrics) IncrementAPIErrors() {
	m.apiErrors.Inc()
}

func (m *Metrics) RecordAPILatency(d time.Duration) {
	m.apiLatency.Observe(d.Seconds())
}

// Decoder metrics methods

// RecordDecode counts one decoder run. A nil reply with err set is a hard failure.
func (m *Metrics) RecordDecode(reply *model.Reply, err error, took time.Duration) {
	m.decodeLatency.Observe(took.Seconds())
	if err != nil || reply == nil {
		m.repliesDecoded.WithLabelValues("malformed").Inc()
		return
	}

	diags := reply.AllDiagnostics()
	if len(diags) > 0 {
		m.repliesDecoded.WithLabelValues("partial").Inc()
	} else {
		m.repliesDecoded.WithLabelValues("ok").Inc()
	}
	m.vehiclesDecoded.Add(float64(len(reply.Vehicles)))
	for _, d := range diags {
		m.diagnostics.WithLabelValues(string(d.Kind)).Inc()
	}
}

// Buffer metrics methods

func (m *Metrics) SetBufferSize(size int) {
	m.bufferSize.Set(float64(size))
}

func (m *Metrics) SetBufferCapacity(capacity int) {
	m.bufferCapacity.Set(float64(capacity))
}

// HTTP metrics methods

func (m *Metrics) IncrementHTTPRequests(route string) {
	m.httpRequests.WithLabelValues(route).Inc()
}

func (m *Metrics) IncrementHTTPErrors(route string) {
	m.httpErrors.WithLabelValues(route).Inc()
}

func (m *Metrics) GetUptime() time.Duration {
	return time.Since(m.startTime)
}
