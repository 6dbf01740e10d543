package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analyst-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metrofleet",
			Subsystem: "analyst_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "metrofleet",
			Subsystem: "analyst_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Tool call counters
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metrofleet",
			Subsystem: "analyst_api",
			Name:      "tool_calls_total",
			Help:      "Total agent tool invocations",
		},
		[]string{"tool_name", "status"},
	)

	// Tool duration histogram
	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "metrofleet",
			Subsystem: "analyst_api",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name"},
	)

	// Agent turn counters, labeled by how the turn ended
	AgentTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metrofleet",
			Subsystem: "analyst_api",
			Name:      "agent_turns_total",
			Help:      "Total agent turns by stop reason",
		},
		[]string{"stop_reason"},
	)

	// Agent steps per turn
	AgentSteps = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "metrofleet",
			Subsystem: "analyst_api",
			Name:      "agent_steps_per_turn",
			Help:      "Reasoning steps consumed per agent turn",
			Buckets:   []float64{1, 2, 3, 4, 5},
		},
	)

	// Warehouse query duration
	WarehouseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "metrofleet",
			Subsystem: "analyst_api",
			Name:      "warehouse_query_duration_seconds",
			Help:      "Warehouse query duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15},
		},
		[]string{"status"},
	)

	// Fare prediction counters
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metrofleet",
			Subsystem: "analyst_api",
			Name:      "predictions_total",
			Help:      "Total fare predictions requested",
		},
		[]string{"status"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordToolCall records an agent tool invocation
func RecordToolCall(toolName, status string, durationSec float64) {
	ToolCallsTotal.WithLabelValues(toolName, status).Inc()
	ToolDuration.WithLabelValues(toolName).Observe(durationSec)
}

// RecordAgentTurn records a completed agent turn
func RecordAgentTurn(stopReason string, steps int) {
	AgentTurnsTotal.WithLabelValues(stopReason).Inc()
	AgentSteps.Observe(float64(steps))
}

// RecordWarehouseQuery records a warehouse query
func RecordWarehouseQuery(status string, durationSec float64) {
	WarehouseQueryDuration.WithLabelValues(status).Observe(durationSec)
}

// RecordPrediction records a fare prediction attempt
func RecordPrediction(status string) {
	PredictionsTotal.WithLabelValues(status).Inc()
}
