package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StepSaveDuration tracks the latency of wizard step saves
	StepSaveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "campaign_wizard_step_save_duration_seconds",
			Help: "Duration of wizard step saves in seconds",
			Buckets: []float64{
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
			},
		},
		[]string{"step", "result"},
	)

	// IndexSyncTotal counts search index operations by outcome
	IndexSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_index_sync_total",
			Help: "Search index sync operations by backend, operation and result",
		},
		[]string{"backend", "operation", "result"},
	)

	// IndexQueueDepth is the number of index tasks waiting for a worker
	IndexQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "campaign_index_sync_queue_depth",
			Help: "Index sync tasks waiting in the queue",
		},
	)

	// SideEffectFailures counts post-save work that failed after the draft was written
	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_wizard_side_effect_failures_total",
			Help: "Failures of post-save side effects by kind",
		},
		[]string{"kind"},
	)
)

// RecordStepSave records the duration of a step save
func RecordStepSave(step int, result string, seconds float64) {
	StepSaveDuration.WithLabelValues(strconv.Itoa(step), result).Observe(seconds)
}

// RecordIndexSync counts one index sync outcome
func RecordIndexSync(backend, operation, result string) {
	IndexSyncTotal.WithLabelValues(backend, operation, result).Inc()
}

func RecordSideEffectFailure(kind string) {
	SideEffectFailures.WithLabelValues(kind).Inc()
}
