// Package metrics exposes prometheus counters for the HTTP service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Requests by route, method and status class
	RequestLatency *prometheus.HistogramVec

	// Validation outcomes by operation ("header", "items", ...) and result
	Validations *prometheus.CounterVec

	// XML documents built by type
	DocumentsBuilt *prometheus.CounterVec

	// Parse outcomes by detected type and result
	DocumentsParsed *prometheus.CounterVec
}

// New creates a Metrics instance registered on its own registry, so several
// servers can coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fiscal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method", "status"}),

		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscal_validations_total",
			Help: "Total validations by operation and outcome",
		}, []string{"operation", "outcome"}),

		DocumentsBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscal_documents_built_total",
			Help: "Total XML documents built by type",
		}, []string{"type"}),

		DocumentsParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscal_documents_parsed_total",
			Help: "Total received XML documents parsed by type and outcome",
		}, []string{"type", "outcome"}),
	}
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
	}
}

// IncrementValidation records a validation outcome
func (m *Metrics) IncrementValidation(operation string, valid bool) {
	if m != nil {
		m.Validations.WithLabelValues(operation, outcome(valid)).Inc()
	}
}

// IncrementBuilt records a built document
func (m *Metrics) IncrementBuilt(docType string) {
	if m != nil {
		m.DocumentsBuilt.WithLabelValues(docType).Inc()
	}
}

// IncrementParsed records a parse attempt
func (m *Metrics) IncrementParsed(docType string, ok bool) {
	if m != nil {
		label := "success"
		if !ok {
			label = "failure"
		}
		m.DocumentsParsed.WithLabelValues(docType, label).Inc()
	}
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request latency labelled with the matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

func outcome(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
