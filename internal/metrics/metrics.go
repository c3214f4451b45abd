// Package metrics exposes Prometheus collectors for HTTP traffic and form
// submissions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "form_service"

// Submission outcomes
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

type Metrics struct {
	registry *prometheus.Registry

	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Submissions     *prometheus.CounterVec
	ScorePercentage prometheus.Histogram
	FormsPublished  prometheus.Counter
}

// New registers every collector on a private registry, together with the
// process and Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Form submissions by outcome and error code",
			},
			[]string{"outcome", "code"},
		),
		ScorePercentage: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "submission_score_percentage",
				Help:      "Score percentage of scored submissions",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
		),
		FormsPublished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "forms_published_total",
				Help:      "Number of publish transitions",
			},
		),
	}

	m.registry.MustRegister(
		m.RequestCounter,
		m.RequestDuration,
		m.Submissions,
		m.ScorePercentage,
		m.FormsPublished,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSubmission counts an accepted submission. Scores are only recorded
// for forms that carry scorable questions.
func (m *Metrics) ObserveSubmission(scored bool, percentage int) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(OutcomeAccepted, "").Inc()
	if scored {
		m.ScorePercentage.Observe(float64(percentage))
	}
}

func (m *Metrics) ObserveRejection(code string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(OutcomeRejected, code).Inc()
}

func (m *Metrics) ObservePublish() {
	if m == nil {
		return
	}
	m.FormsPublished.Inc()
}

// Middleware records request count and latency per route template
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		m.RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() gin.HandlerFunc {
	var h http.Handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
