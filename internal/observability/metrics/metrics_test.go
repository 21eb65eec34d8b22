package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPipelineMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPipelineMetrics(reg)
	m.ObserveTurn("delivered")
	m.ObserveStageLatency("generation", 0.8)
	m.ObserveAction("SCHEDULE_MEETING", "success")
	m.ObserveGenerationFailure()
	m.ObserveComplianceBlock("financial_fraud")
	m.SetQueueDepth(3)
}

func TestPipelineMetricsNilSafe(t *testing.T) {
	var m *PipelineMetrics
	m.ObserveTurn("delivered")
	m.ObserveStageLatency("generation", 0.1)
	m.ObserveAction("UPDATE_LEAD", "failed")
	m.ObserveGenerationFailure()
	m.ObserveComplianceBlock("other")
	m.SetQueueDepth(0)
}
