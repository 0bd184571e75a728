package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// batchTotal counts augment calls by augmenter, call shape and result
	batchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "textaug_batch_total",
		Help: "Total augment calls by augmenter, mode and result",
	}, []string{"augmenter", "mode", "result"})

	// itemsTotal counts produced strings
	itemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "textaug_items_total",
		Help: "Total augmented strings produced",
	}, []string{"augmenter", "mode"})

	// batchDuration tracks augment call latency
	batchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "textaug_batch_duration_seconds",
		Help:    "Augment call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
	}, []string{"augmenter", "mode"})

	// batchWorkers tracks the number of workers used per call
	batchWorkers = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "textaug_batch_workers",
		Help:    "Workers used per augment call",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
	})
)

// ObserveBatch records one finished augment call.
func ObserveBatch(augmenter, mode string, items, workers int, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	batchTotal.WithLabelValues(augmenter, mode, result).Inc()
	batchDuration.WithLabelValues(augmenter, mode).Observe(elapsed.Seconds())
	batchWorkers.Observe(float64(workers))
	if err == nil {
		itemsTotal.WithLabelValues(augmenter, mode).Add(float64(items))
	}
}
