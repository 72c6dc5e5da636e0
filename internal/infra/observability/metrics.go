package observability

import (
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the BFF.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	upstreamDuration *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	retriesTotal     *prometheus.CounterVec
	probeFailures    *prometheus.CounterVec
	errorsByKind     *prometheus.CounterVec
	variantsTried    *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bff_upstream_request_duration_seconds",
				Help:    "Duration of upstream hospital API operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		upstreamTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_upstream_requests_total",
				Help: "Total upstream operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		retriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_upstream_retries_total",
				Help: "Total retry attempts against the upstream API.",
			},
			[]string{"operation"},
		),
		probeFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_probe_failures_total",
				Help: "Connectivity probe failures by mode.",
			},
			[]string{"mode"},
		),
		errorsByKind: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_classified_errors_total",
				Help: "Classified failures by category.",
			},
			[]string{"kind"},
		),
		variantsTried: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_write_variants_tried_total",
				Help: "Request-body naming variants attempted on writes.",
			},
			[]string{"operation"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
	}
}

// RecordUpstream records one finished upstream operation.
func (m *Metrics) RecordUpstream(operation, outcome string, d time.Duration) {
	m.upstreamDuration.WithLabelValues(operation).Observe(d.Seconds())
	m.upstreamTotal.WithLabelValues(operation, outcome).Inc()
}

// IncrRetry increments the retry counter for an operation.
func (m *Metrics) IncrRetry(operation string) {
	m.retriesTotal.WithLabelValues(operation).Inc()
}

// IncrProbeFailure increments probe failures ("offline" or "unreachable").
func (m *Metrics) IncrProbeFailure(mode string) {
	m.probeFailures.WithLabelValues(mode).Inc()
}

// IncrErrorKind increments the classified-error counter.
func (m *Metrics) IncrErrorKind(kind domain.ErrorKind) {
	m.errorsByKind.WithLabelValues(string(kind)).Inc()
}

// IncrVariantTried increments the write-variant counter.
func (m *Metrics) IncrVariantTried(operation string) {
	m.variantsTried.WithLabelValues(operation).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// GetIntegrationSnapshot returns cumulative integration-layer counters
// for the admin panel endpoint.
func (m *Metrics) GetIntegrationSnapshot() *domain.IntegrationSnapshot {
	var requests, errors, retries float64
	for _, op := range []string{
		"patients.list", "patients.create", "patients.update", "patients.delete",
		"consultations.list", "consultations.create", "consultations.delete",
		"exams.list", "exams.create", "exams.delete",
	} {
		requests += getCounterValue(m.upstreamTotal, op, "success")
		e := getCounterValue(m.upstreamTotal, op, "failure")
		requests += e
		errors += e
		retries += getCounterValue(m.retriesTotal, op)
	}

	probeFails := getCounterValue(m.probeFailures, "offline") +
		getCounterValue(m.probeFailures, "unreachable")

	var hits, misses float64
	for _, c := range []string{"patients", "consultations", "exams"} {
		hits += getCounterValue(m.cacheHits, c)
		misses += getCounterValue(m.cacheMisses, c)
	}

	snapshot := &domain.IntegrationSnapshot{
		UpstreamRequests: requests,
		UpstreamErrors:   errors,
		Retries:          retries,
		ProbeFailures:    probeFails,
	}
	if requests > 0 {
		snapshot.ErrorRate = errors / requests
	}
	if hits+misses > 0 {
		snapshot.CacheHitRate = hits / (hits + misses)
	}
	return snapshot
}

// getCounterValue extracts the current float64 value from a CounterVec for the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
