// internal/monitoring/metrics.go
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager manages Prometheus metrics for mediasniff
type MetricsManager struct {
	registry *prometheus.Registry
	factory  promauto.Factory

	// Parse metrics
	parseRequests *prometheus.CounterVec
	parseDuration prometheus.Histogram

	// Strategy metrics
	strategyResults *prometheus.CounterVec
	resourcesFound  *prometheus.CounterVec
	probes          *prometheus.CounterVec
	blockedRequests *prometheus.CounterVec

	// Rate limiting metrics
	rateLimitHits prometheus.Counter

	namespace string
	subsystem string
}

// MetricsConfig configuration for metrics
type MetricsConfig struct {
	Namespace            string `json:"namespace"`
	Subsystem            string `json:"subsystem"`
	EnableGoMetrics      bool   `json:"enable_go_metrics"`
	EnableProcessMetrics bool   `json:"enable_process_metrics"`
}

// Parse request statuses
const (
	ParseStatusSuccess = "success"
	ParseStatusError   = "error"
)

// NewMetricsManager creates a metrics manager with its own registry, so
// several managers can coexist in one process.
func NewMetricsManager(config MetricsConfig) *MetricsManager {
	if config.Namespace == "" {
		config.Namespace = "mediasniff"
	}
	if config.Subsystem == "" {
		config.Subsystem = "parser"
	}

	registry := prometheus.NewRegistry()
	if config.EnableGoMetrics {
		registry.MustRegister(collectors.NewGoCollector())
	}
	if config.EnableProcessMetrics {
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	mm := &MetricsManager{
		registry:  registry,
		factory:   promauto.With(registry),
		namespace: config.Namespace,
		subsystem: config.Subsystem,
	}

	mm.initializeMetrics()

	return mm
}

// initializeMetrics initializes all Prometheus metrics
func (mm *MetricsManager) initializeMetrics() {
	mm.parseRequests = mm.factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "parse_requests_total",
			Help:      "Total number of parse requests by outcome",
		},
		[]string{"status"},
	)

	mm.parseDuration = mm.factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "parse_duration_seconds",
			Help:      "Parse duration in seconds",
			Buckets:   []float64{1, 2.5, 5, 7.5, 10, 15, 20, 30, 45, 60, 90},
		},
	)

	mm.strategyResults = mm.factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "strategy_results_total",
			Help:      "Discovery strategy runs by outcome (hit, empty, error)",
		},
		[]string{"strategy", "outcome"},
	)

	mm.resourcesFound = mm.factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "resources_found_total",
			Help:      "Media resources returned, by strategy",
		},
		[]string{"strategy"},
	)

	mm.probes = mm.factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "probes_total",
			Help:      "HEAD size probes by outcome (valid, invalid, error)",
		},
		[]string{"outcome"},
	)

	mm.blockedRequests = mm.factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "requests_blocked_total",
			Help:      "Browser requests aborted during interception",
		},
		[]string{"resource_type"},
	)

	mm.rateLimitHits = mm.factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "rate_limit_hits_total",
			Help:      "Parse requests rejected by the rate limiter",
		},
	)
}

// RegisterPagesOpen exposes the number of open browser pages through fn
func (mm *MetricsManager) RegisterPagesOpen(fn func() float64) {
	mm.factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "pages_open",
			Help:      "Browser pages currently open",
		},
		fn,
	)
}

// RecordParse records a finished parse request
func (mm *MetricsManager) RecordParse(status string, duration time.Duration) {
	mm.parseRequests.WithLabelValues(status).Inc()
	mm.parseDuration.Observe(duration.Seconds())
}

// RecordStrategyResult records one strategy run
func (mm *MetricsManager) RecordStrategyResult(strategy, outcome string, found int) {
	mm.strategyResults.WithLabelValues(strategy, outcome).Inc()
	if found > 0 {
		mm.resourcesFound.WithLabelValues(strategy).Add(float64(found))
	}
}

// RecordProbe records a HEAD probe outcome
func (mm *MetricsManager) RecordProbe(outcome string) {
	mm.probes.WithLabelValues(outcome).Inc()
}

// RecordBlockedRequest records an aborted browser request
func (mm *MetricsManager) RecordBlockedRequest(resourceType string) {
	mm.blockedRequests.WithLabelValues(resourceType).Inc()
}

// RecordRateLimitHit records a rejected request
func (mm *MetricsManager) RecordRateLimitHit() {
	mm.rateLimitHits.Inc()
}

// MetricsHandler returns an HTTP handler for metrics endpoint
func (mm *MetricsManager) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(mm.registry, promhttp.HandlerOpts{Registry: mm.registry})
}
