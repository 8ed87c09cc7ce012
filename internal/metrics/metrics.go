package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	CommandsTotal    *prometheus.CounterVec
	CommandDuration  *prometheus.HistogramVec
	RepliesInFlight  prometheus.Gauge
	ProviderRequests *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	RateLimitHits    prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		CommandsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealbot_commands_total",
				Help: "Total number of bot commands handled",
			},
			[]string{"command", "status"},
		),
		CommandDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealbot_command_duration_seconds",
				Help:    "Command handling duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"command"},
		),
		RepliesInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "dealbot_replies_in_flight",
				Help: "Number of commands currently being processed",
			},
		),
		ProviderRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealbot_provider_requests_total",
				Help: "Total number of upstream provider requests",
			},
			[]string{"provider", "status"},
		),
		ProviderDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealbot_provider_request_duration_seconds",
				Help:    "Upstream provider request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"provider"},
		),
		RateLimitHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "dealbot_rate_limit_hits_total",
				Help: "Total number of rate limited commands",
			},
		),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordCommand(command, status string, duration time.Duration) {
	m.CommandsTotal.WithLabelValues(command, status).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

func (m *Metrics) RecordProviderRequest(provider, status string, duration time.Duration) {
	m.ProviderRequests.WithLabelValues(provider, status).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordRateLimitHit() {
	m.RateLimitHits.Inc()
}

func (m *Metrics) IncRepliesInFlight() {
	m.RepliesInFlight.Inc()
}

func (m *Metrics) DecRepliesInFlight() {
	m.RepliesInFlight.Dec()
}
