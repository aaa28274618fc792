package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConsumerMessages tracks the throughput and fate of consumed events
	ConsumerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_messages_total",
		Help: "Total number of lifecycle events processed by the consumer",
	}, []string{"result", "routing_key"}) // result: applied, ignored, malformed

	// ConsumerLag measures reception-to-ack latency inside the worker
	ConsumerLag = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "consumer_processing_duration_seconds",
		Help:    "Time taken to apply a lifecycle event to the availability cache",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})
)
