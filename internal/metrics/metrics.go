// README: Prometheus collectors for the chat pipeline, served at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every samway collector plus the Go and process collectors.
var Registry = prometheus.NewRegistry()

var (
	ReasoningOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samway_reasoning_outcomes_total",
			Help: "Reasoning results by outcome (generated, fallback, invalid_dates)",
		},
		[]string{"outcome"},
	)
	ChatOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samway_chat_outcomes_total",
			Help: "Chat requests by outcome (ok, rejected, no_location, invalid_dates)",
		},
		[]string{"outcome"},
	)
	CollaboratorFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samway_collaborator_failures_total",
			Help: "Failed collaborator calls degraded to empty results",
		},
		[]string{"collaborator"},
	)
	ChatDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "samway_chat_duration_milliseconds",
			Help:    "End-to-end chat pipeline duration in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 20000},
		},
	)
)

func init() {
	Registry.MustRegister(
		ReasoningOutcomes,
		ChatOutcomes,
		CollaboratorFailures,
		ChatDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
