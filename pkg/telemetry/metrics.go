package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for configuration loading.
type Metrics struct {
	config MetricsConfig

	loads          *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	valuesByKind   *prometheus.CounterVec
	linesSkipped   *prometheus.CounterVec
	sections       prometheus.Gauge
	reloads        *prometheus.CounterVec
	policyFindings *prometheus.CounterVec

	registry *prometheus.Registry
	server   *http.Server
}

// NewMetrics creates the razan collectors in a private registry. When
// cfg.Enabled is false every Record method is a no-op.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return &Metrics{config: cfg}
	}

	namespace := cfg.Namespace
	buckets := cfg.LoadBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loads_total",
				Help:      "Total number of configuration loads",
			},
			[]string{"status"},
		),
		loadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "load_duration_seconds",
				Help:      "Duration of reading and parsing a configuration file in seconds",
				Buckets:   buckets,
			},
		),
		valuesByKind: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "values_evaluated_total",
				Help:      "Total number of evaluated values by resulting kind",
			},
			[]string{"kind"},
		),
		linesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lines_skipped_total",
				Help:      "Total number of ignored lines by reason",
			},
			[]string{"reason"},
		),
		sections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sections",
				Help:      "Number of sections in the most recently loaded document",
			},
		),
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reloads_total",
				Help:      "Total number of reloads triggered by file changes",
			},
			[]string{"status"},
		),
		policyFindings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_violations_total",
				Help:      "Total number of policy violations by policy and severity",
			},
			[]string{"policy", "severity"},
		),
	}

	registry.MustRegister(
		m.loads,
		m.loadDuration,
		m.valuesByKind,
		m.linesSkipped,
		m.sections,
		m.reloads,
		m.policyFindings,
	)

	return m
}

// Registry returns the Prometheus registry, or nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordLoad records a load attempt with its outcome and duration.
func (m *Metrics) RecordLoad(err error, duration time.Duration) {
	if m.loads == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.loads.WithLabelValues(status).Inc()
	m.loadDuration.Observe(duration.Seconds())
}

// RecordValue counts one evaluated value of the given kind.
func (m *Metrics) RecordValue(kind string) {
	if m.valuesByKind == nil {
		return
	}
	m.valuesByKind.WithLabelValues(kind).Inc()
}

// RecordSkippedLines adds count ignored lines for reason.
func (m *Metrics) RecordSkippedLines(reason string, count int) {
	if m.linesSkipped == nil || count == 0 {
		return
	}
	m.linesSkipped.WithLabelValues(reason).Add(float64(count))
}

// SetSections sets the section count of the latest document.
func (m *Metrics) SetSections(count int) {
	if m.sections == nil {
		return
	}
	m.sections.Set(float64(count))
}

// RecordReload records a watch-triggered reload.
func (m *Metrics) RecordReload(err error) {
	if m.reloads == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.reloads.WithLabelValues(status).Inc()
}

// RecordPolicyViolation counts one policy violation.
func (m *Metrics) RecordPolicyViolation(policy, severity string) {
	if m.policyFindings == nil {
		return
	}
	m.policyFindings.WithLabelValues(policy, severity).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server exposing metrics on
// ListenAddress. It is a no-op when metrics are disabled or no address is
// configured. Serve errors are passed to onError, which may be nil.
func (m *Metrics) StartMetricsServer(onError func(error)) error {
	if !m.config.Enabled || m.config.ListenAddress == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	m.server = &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && onError != nil {
			onError(err)
		}
	}()

	return nil
}

// Shutdown stops the metrics server if one was started.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
