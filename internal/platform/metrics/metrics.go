package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	TransfersTotal    prometheus.Counter
	AcceptancesTotal  prometheus.Counter
	DisablesTotal     prometheus.Counter
	RoutingConflicts  prometheus.Counter
	RoutingRejections *prometheus.CounterVec
	NotifyFailures    prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on a caller-supplied registerer so tests can
// use isolated registries.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TransfersTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_transfers_total",
			Help: "Total number of file transfer events appended to the ledger",
		}),
		AcceptancesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_acceptances_total",
			Help: "Total number of acceptance events appended to the ledger",
		}),
		DisablesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_disables_total",
			Help: "Total number of files soft-deleted",
		}),
		RoutingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_routing_conflicts_total",
			Help: "Routing calls that failed with a retryable conflict",
		}),
		RoutingRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "filetrack_routing_rejections_total",
			Help: "Routing calls rejected with a terminal domain error",
		}, []string{"code"}),
		NotifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_notify_failures_total",
			Help: "Notification emissions that failed (best-effort, never fatal)",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "filetrack_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}
