package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the crawler.
type Metrics struct {
	Registry               *prometheus.Registry
	RequestsTotal          *prometheus.CounterVec
	RequestDuration        prometheus.Histogram
	ItemsScrapedTotal      prometheus.Counter
	MalformedTotal         prometheus.Counter
	ResolverFallbacksTotal prometheus.Counter
	ErrorsTotal            *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_requests_total",
			Help: "Total HTTP requests issued by the crawler.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawler_request_duration_seconds",
			Help:    "HTTP request latency for crawler requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	itemsScraped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_items_scraped_total",
			Help: "Total number of items sent to the pipeline.",
		},
	)
	malformed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_malformed_fragments_total",
			Help: "Total number of item fragments dropped for missing anchors.",
		},
	)
	resolverFallbacks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_resolver_fallbacks_total",
			Help: "Total number of category resolutions degraded to Unknown.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_errors_total",
			Help: "Total number of crawler errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, itemsScraped, malformed, resolverFallbacks, errorsTotal)

	return &Metrics{
		Registry:               registry,
		RequestsTotal:          requests,
		RequestDuration:        requestDuration,
		ItemsScrapedTotal:      itemsScraped,
		MalformedTotal:         malformed,
		ResolverFallbacksTotal: resolverFallbacks,
		ErrorsTotal:            errorsTotal,
	}
}

// IncRequest increments the requests total counter for a phase.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncItems increments the items scraped counter.
func (m *Metrics) IncItems() {
	if m == nil {
		return
	}
	m.ItemsScrapedTotal.Inc()
}

// IncMalformed increments the malformed fragments counter.
func (m *Metrics) IncMalformed() {
	if m == nil {
		return
	}
	m.MalformedTotal.Inc()
}

// IncResolverFallback increments the resolver fallback counter.
func (m *Metrics) IncResolverFallback() {
	if m == nil {
		return
	}
	m.ResolverFallbacksTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
