package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storedesk/storedesk/application/port/outbound"
)

const namespace = "storedesk"

// Prometheus holds every collector of one process on its own registry
type Prometheus struct {
	registry *prometheus.Registry

	auditWriteFailures *prometheus.CounterVec
	revertAttempts     *prometheus.CounterVec
	bulkItems          *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

func NewPrometheus(service string) *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": service}

	return &Prometheus{
		registry: reg,
		auditWriteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "audit_write_failures_total",
			Help:        "Audit log inserts that failed and were discarded.",
			ConstLabels: constLabels,
		}, []string{"action", "entity_type"}),
		revertAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "audit_revert_attempts_total",
			Help:        "Revert attempts by entity type and outcome.",
			ConstLabels: constLabels,
		}, []string{"entity_type", "outcome"}),
		bulkItems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "bulk_items_total",
			Help:        "Items processed by bulk product operations.",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "HTTP requests by route template, method and status.",
			ConstLabels: constLabels,
		}, []string{"route", "method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by route template and method.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

var _ outbound.MetricsRecorder = (*Prometheus)(nil)

func (p *Prometheus) AuditWriteFailed(action, entityType string) {
	p.auditWriteFailures.WithLabelValues(action, entityType).Inc()
}

func (p *Prometheus) RevertAttempted(entityType, outcome string) {
	p.revertAttempts.WithLabelValues(entityType, outcome).Inc()
}

func (p *Prometheus) BulkItemProcessed(operation, outcome string) {
	p.bulkItems.WithLabelValues(operation, outcome).Inc()
}

// ObserveRequest is called by the HTTP metrics middleware
func (p *Prometheus) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry exposes the underlying registry for tests
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
