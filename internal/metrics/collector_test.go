package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ExecutionLifecycle(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	c := NewCollector("weave", reg, nil)

	c.ExecutionStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(c.executionsStarted))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.activeExecutions))

	c.ExecutionFinished("sequential", "completed", 250*time.Millisecond)
	assert.Equal(t, float64(0), testutil.ToFloat64(c.activeExecutions))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.executionsTotal.WithLabelValues("sequential", "completed")))
}

func TestCollector_NodeExecuted(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	c := NewCollector("weave", reg, nil)

	c.NodeExecuted("LLMAgent", "success", 10*time.Millisecond)
	c.NodeExecuted("LLMAgent", "error", 5*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.nodeExecutionsTotal.WithLabelValues("LLMAgent", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.nodeExecutionsTotal.WithLabelValues("LLMAgent", "error")))
}

func TestCollector_RegistersOnProvidedRegistry(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	c := NewCollector("weave", reg, nil)
	c.ExecutionStarted()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	assert.True(t, names["weave_executions_started_total"])
	assert.True(t, names["weave_active_executions"])
}
