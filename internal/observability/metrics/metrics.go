package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for message processing.
type PipelineMetrics struct {
	turnsTotal         *prometheus.CounterVec
	stageLatency       *prometheus.HistogramVec
	actionsTotal       *prometheus.CounterVec
	generationFailures prometheus.Counter
	complianceBlocks   *prometheus.CounterVec
	queueDepth         prometheus.Gauge
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sales",
			Subsystem: "pipeline",
			Name:      "turns_total",
			Help:      "Total processed conversation turns",
		}, []string{"outcome"}),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sales",
			Subsystem: "pipeline",
			Name:      "stage_latency_seconds",
			Help:      "Latency of individual pipeline stages",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sales",
			Subsystem: "pipeline",
			Name:      "actions_total",
			Help:      "Total dispatched protocol actions",
		}, []string{"kind", "status"}),
		generationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sales",
			Subsystem: "pipeline",
			Name:      "generation_failures_total",
			Help:      "Total generation calls that fell back to a canned reply",
		}),
		complianceBlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sales",
			Subsystem: "pipeline",
			Name:      "compliance_blocks_total",
			Help:      "Total messages escalated by the compliance gate",
		}, []string{"category"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sales",
			Subsystem: "pipeline",
			Name:      "queue_depth",
			Help:      "Messages currently waiting in the priority queue",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.stageLatency, m.actionsTotal,
		m.generationFailures, m.complianceBlocks, m.queueDepth)
	return m
}

func (m *PipelineMetrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
}

func (m *PipelineMetrics) ObserveStageLatency(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.stageLatency.WithLabelValues(stage).Observe(seconds)
}

func (m *PipelineMetrics) ObserveAction(kind, status string) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(kind, status).Inc()
}

func (m *PipelineMetrics) ObserveGenerationFailure() {
	if m == nil {
		return
	}
	m.generationFailures.Inc()
}

func (m *PipelineMetrics) ObserveComplianceBlock(category string) {
	if m == nil {
		return
	}
	m.complianceBlocks.WithLabelValues(category).Inc()
}

func (m *PipelineMetrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}
