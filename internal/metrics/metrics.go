package metrics

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const divisor = 100

// Metrics holds Prometheus metric vectors for the bot.
type Metrics struct {
	// HTTP server metrics (metrics/health endpoint)
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Domain metrics
	ReportsTotal      *prometheus.CounterVec
	StageErrorsTotal  *prometheus.CounterVec
	StageDuration     *prometheus.HistogramVec
	DegradedReports   prometheus.Counter
	TelegramReconnect prometheus.Counter
}

// New constructs and registers all bot metrics on the default registry.
func New(serviceName string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests received",
			},
			[]string{"method", "endpoint", "status_class"},
		),

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ReportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "reports_total",
				Help:      "Total number of forecast reports requested",
			},
			[]string{"day"},
		),

		StageErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "stage_errors_total",
				Help:      "Pipeline stage failures",
			},
			[]string{"stage"},
		),

		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "stage_duration_seconds",
				Help:      "Histogram of pipeline stage latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),

		DegradedReports: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "degraded_reports_total",
				Help:      "Reports delivered without commentary after a commentary failure",
			},
		),

		TelegramReconnect: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "telegram_reconnects_total",
				Help:      "Telegram polling reconnect attempts",
			},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReportsTotal,
		m.StageErrorsTotal,
		m.StageDuration,
		m.DegradedReports,
		m.TelegramReconnect,
	)

	return m
}

// ReportRequested counts a user-initiated report, labeled today/tomorrow.
func (m *Metrics) ReportRequested(day string) {
	m.ReportsTotal.WithLabelValues(day).Inc()
}

// DegradedReport counts a report delivered without commentary.
func (m *Metrics) DegradedReport() {
	m.DegradedReports.Inc()
}

// TelegramReconnected counts a polling reconnect attempt.
func (m *Metrics) TelegramReconnected() {
	m.TelegramReconnect.Inc()
}

// ObserveStage records one pipeline stage invocation.
func (m *Metrics) ObserveStage(stage string, d time.Duration, err error) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.StageErrorsTotal.WithLabelValues(stage).Inc()
	}
}

// HTTPMiddleware returns a Gin middleware to instrument HTTP endpoints.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		d := time.Since(start)

		labels := prometheus.Labels{
			"method":       c.Request.Method,
			"endpoint":     c.FullPath(),
			"status_class": getStatusClass(c.Writer.Status()),
		}
		m.HTTPRequestsTotal.With(labels).Inc()
		m.HTTPRequestDuration.With(prometheus.Labels{
			"method":   c.Request.Method,
			"endpoint": c.FullPath(),
		}).Observe(d.Seconds())
	}
}

func getStatusClass(code int) string {
	return fmt.Sprintf("%dxx", code/divisor)
}
