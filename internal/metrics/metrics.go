// Package metrics holds the Prometheus instrumentation for the agent and
// the tool pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/halim/orin/pkg/executor"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	// Agent metrics
	AgentRunsTotal  *prometheus.CounterVec
	AgentRunSeconds prometheus.Histogram

	// Tool pipeline metrics
	StageEventsTotal    *prometheus.CounterVec
	ToolExecutionsTotal *prometheus.CounterVec
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		AgentRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orin_agent_runs_total",
				Help: "Total number of agent runs by outcome",
			},
			[]string{"status"},
		),
		AgentRunSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "orin_agent_run_duration_seconds",
				Help:    "Duration of agent runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		StageEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orin_tool_stage_events_total",
				Help: "Pipeline events by stage and event type",
			},
			[]string{"stage", "type"},
		),
		ToolExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orin_tool_executions_total",
				Help: "Tool executions by tool and outcome",
			},
			[]string{"tool", "status"},
		),
	}

	registry.MustRegister(
		m.AgentRunsTotal,
		m.AgentRunSeconds,
		m.StageEventsTotal,
		m.ToolExecutionsTotal,
	)
	return m
}

// ObserveRun records one agent run.
func (m *Metrics) ObserveRun(success bool, duration time.Duration) {
	m.AgentRunsTotal.WithLabelValues(runStatus(success)).Inc()
	m.AgentRunSeconds.Observe(duration.Seconds())
}

// Callback returns an event callback that counts every pipeline event.
// Terminal execution stages also feed the per-tool counter.
func (m *Metrics) Callback() executor.EventCallback {
	return func(event executor.Event) {
		m.StageEventsTotal.WithLabelValues(string(event.Stage), string(event.Type)).Inc()

		switch event.Stage {
		case executor.StageExecutionCompleted:
			m.ToolExecutionsTotal.WithLabelValues(event.Tool, runStatus(event.Type != executor.EventError)).Inc()
		case executor.StageExecutionFailed:
			m.ToolExecutionsTotal.WithLabelValues(event.Tool, "fault").Inc()
		}
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func runStatus(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
