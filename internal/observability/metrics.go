package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Extraction results.
const (
	ResultFound     = "found"
	ResultNotFound  = "not_found"
	ResultTruncated = "truncated"
)

var (
	registerOnce sync.Once

	extractLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gsquery",
			Subsystem: "extract",
			Name:      "lookups_total",
			Help:      "Key lookups against query strings by result.",
		},
		[]string{"key", "result"},
	)
	extractValueBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gsquery",
			Subsystem: "extract",
			Name:      "value_bytes",
			Help:      "Length of matched value slots before truncation.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(extractLookups, extractValueBytes)
	})
}

// RecordExtraction counts one lookup. n is the untruncated value length and
// is ignored for misses.
func RecordExtraction(key, result string, n int) {
	RegisterMetrics()
	extractLookups.WithLabelValues(key, result).Inc()
	if result != ResultNotFound {
		extractValueBytes.Observe(float64(n))
	}
}
