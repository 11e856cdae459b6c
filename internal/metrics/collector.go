// Package metrics provides internal metrics collection for the engine.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector records engine-level Prometheus metrics.
type Collector struct {
	executionsStarted   prometheus.Counter
	executionsTotal     *prometheus.CounterVec
	executionDuration   *prometheus.HistogramVec
	activeExecutions    prometheus.Gauge
	nodeExecutionsTotal *prometheus.CounterVec
	nodeDuration        *prometheus.HistogramVec

	logger *zap.Logger
}

// NewCollector creates a collector registered on reg. A nil reg uses the
// default registerer.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.executionsStarted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "executions_started_total",
		Help:      "Total number of workflow executions started",
	})

	c.executionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executions_total",
			Help:      "Total number of finished workflow executions",
		},
		[]string{"orchestration", "status"},
	)

	c.executionDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "execution_duration_seconds",
			Help:      "Workflow execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"orchestration"},
	)

	c.activeExecutions = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_executions",
		Help:      "Number of currently running workflow executions",
	})

	c.nodeExecutionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_executions_total",
			Help:      "Total number of node executions",
		},
		[]string{"node_type", "outcome"},
	)

	c.nodeDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_execution_duration_seconds",
			Help:      "Node execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node_type"},
	)

	return c
}

// ExecutionStarted records a run entering the Running state.
func (c *Collector) ExecutionStarted() {
	c.executionsStarted.Inc()
	c.activeExecutions.Inc()
}

// ExecutionFinished records a run reaching a terminal status.
func (c *Collector) ExecutionFinished(orchestration, status string, duration time.Duration) {
	c.executionsTotal.WithLabelValues(orchestration, status).Inc()
	c.executionDuration.WithLabelValues(orchestration).Observe(duration.Seconds())
	c.activeExecutions.Dec()
}

// NodeExecuted records one node execution outcome.
func (c *Collector) NodeExecuted(nodeType, outcome string, duration time.Duration) {
	c.nodeExecutionsTotal.WithLabelValues(nodeType, outcome).Inc()
	c.nodeDuration.WithLabelValues(nodeType).Observe(duration.Seconds())
}
