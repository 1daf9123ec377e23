package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metric collectors
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec   // requests by method, route, status
	HTTPRequestDuration *prometheus.HistogramVec // latency by method, route
	RateLimitHits       *prometheus.CounterVec   // rejected requests by route

	// Catalog metrics
	CatalogMutations *prometheus.CounterVec // writes by entity and operation
	CatalogSearches  *prometheus.CounterVec // search requests by entity
	FormationViews   prometheus.Counter     // public detail page views
	AssetUploads     *prometheus.CounterVec // uploads by status
	Notifications    *prometheus.CounterVec // outgoing mails by kind and status
}

// NewMetrics registers the collectors on reg, or on the default registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route and status code",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_rate_limit_hits_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"path"},
		),
		CatalogMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_mutations_total",
				Help: "Total number of catalog writes by entity and operation",
			},
			[]string{"entity", "operation"},
		),
		CatalogSearches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_searches_total",
				Help: "Total number of catalog searches by entity",
			},
			[]string{"entity"},
		),
		FormationViews: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_formation_views_total",
				Help: "Total number of public formation detail views",
			},
		),
		AssetUploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_asset_uploads_total",
				Help: "Total number of asset uploads by status",
			},
			[]string{"status"},
		),
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_notifications_total",
				Help: "Total number of notification mails by kind and status",
			},
			[]string{"kind", "status"},
		),
	}
}

// RecordHTTPRequest records an HTTP request and its latency
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordRateLimitHit(path string) {
	if m == nil {
		return
	}
	m.RateLimitHits.WithLabelValues(path).Inc()
}

// RecordMutation counts a catalog write; operation is create, update or delete.
func (m *Metrics) RecordMutation(entity, operation string) {
	if m == nil {
		return
	}
	m.CatalogMutations.WithLabelValues(entity, operation).Inc()
}

func (m *Metrics) RecordSearch(entity string) {
	if m == nil {
		return
	}
	m.CatalogSearches.WithLabelValues(entity).Inc()
}

func (m *Metrics) RecordFormationView() {
	if m == nil {
		return
	}
	m.FormationViews.Inc()
}

// RecordAssetUpload counts an upload; status is success or failure.
func (m *Metrics) RecordAssetUpload(status string) {
	if m == nil {
		return
	}
	m.AssetUploads.WithLabelValues(status).Inc()
}

// RecordNotification counts a mail; status is sent, skipped or failure.
func (m *Metrics) RecordNotification(kind, status string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind, status).Inc()
}
