package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QueriesTotal counts answered queries by dispatch path.
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "normatlas_queries_total",
		Help: "Answered queries by dispatch path (agent, router).",
	}, []string{"path"})

	// AgentTurns counts model round-trips inside the agent loop.
	AgentTurns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "normatlas_agent_turns_total",
		Help: "Chat completion round-trips performed by the agent.",
	})

	toolInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "normatlas_tool_invocations_total",
		Help: "Tool invocations by tool name.",
	}, []string{"tool"})

	toolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "normatlas_tool_duration_seconds",
		Help:    "Tool invocation duration by tool name.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})
)

// ObserveToolInvocation records one tool invocation with its duration.
func ObserveToolInvocation(tool string, d time.Duration) {
	toolInvocations.WithLabelValues(tool).Inc()
	toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
