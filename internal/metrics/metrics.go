package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives the service's domain metrics.
type Recorder interface {
	WebhookReceived(eventType, outcome string)
	PullRequestEvent(repository, action string, merged bool)
	PullRequestReviewTime(repository string, d time.Duration)
	Deployment(repository, environment string, success bool)
	JobCompleted(eventType, status string, d time.Duration)
}

// Metrics is the Prometheus-backed Recorder. Each instance owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	webhookDeliveries *prometheus.CounterVec
	prTotal           *prometheus.CounterVec
	prReviewTime      *prometheus.HistogramVec
	deployments       *prometheus.CounterVec
	jobDuration       *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		webhookDeliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_deliveries_total",
				Help: "Total number of verified webhook deliveries by outcome.",
			},
			[]string{"event_type", "outcome"},
		),
		prTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pr_total",
				Help: "Total number of pull request events.",
			},
			[]string{"repository", "action", "merged"},
		),
		prReviewTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "pr_review_time_seconds",
				Help: "Time from pull request creation to merge.",
				// 5m, 15m, 1h, 2h, 4h, 12h, 1d, 2d, 1w
				Buckets: []float64{300, 900, 3600, 7200, 14400, 43200, 86400, 172800, 604800},
			},
			[]string{"repository"},
		),
		deployments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deployments_total",
				Help: "Total number of deployments (pushes to the default branch).",
			},
			[]string{"repository", "environment", "status"},
		),
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "background_job_duration_seconds",
				Help:    "Duration of background analysis jobs.",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 13),
			},
			[]string{"event_type", "status"},
		),
	}

	m.registry.MustRegister(
		m.webhookDeliveries,
		m.prTotal,
		m.prReviewTime,
		m.deployments,
		m.jobDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) WebhookReceived(eventType, outcome string) {
	m.webhookDeliveries.With(prometheus.Labels{"event_type": eventType, "outcome": outcome}).Inc()
}

func (m *Metrics) PullRequestEvent(repository, action string, merged bool) {
	m.prTotal.With(prometheus.Labels{
		"repository": repository,
		"action":     action,
		"merged":     strconv.FormatBool(merged),
	}).Inc()
}

func (m *Metrics) PullRequestReviewTime(repository string, d time.Duration) {
	m.prReviewTime.With(prometheus.Labels{"repository": repository}).Observe(d.Seconds())
}

func (m *Metrics) Deployment(repository, environment string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.deployments.With(prometheus.Labels{
		"repository":  repository,
		"environment": environment,
		"status":      status,
	}).Inc()
}

func (m *Metrics) JobCompleted(eventType, status string, d time.Duration) {
	m.jobDuration.With(prometheus.Labels{"event_type": eventType, "status": status}).Observe(d.Seconds())
}

type nop struct{}

// NewNop returns a Recorder that drops everything.
func NewNop() Recorder { return nop{} }

func (nop) WebhookReceived(string, string)              {}
func (nop) PullRequestEvent(string, string, bool)       {}
func (nop) PullRequestReviewTime(string, time.Duration) {}
func (nop) Deployment(string, string, bool)             {}
func (nop) JobCompleted(string, string, time.Duration)  {}
