package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationOutcomes tracks every decision the coordinator hands back
	// Labels: outcome (valid/invalid/unavailable), source (remote/cache)
	ValidationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "validation_outcomes_total",
		Help: "Total validation decisions, by outcome and the source that produced them",
	}, []string{"outcome", "source"})

	// RemoteCheckAttempts counts individual calls against the user service
	// Compare with validation_outcomes_total to spot retry amplification
	RemoteCheckAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "remote_check_attempts_total",
		Help: "Individual existence-check calls made to the user service",
	}, []string{"result"}) // result: exists, not_found, retryable

	// FallbackLookups counts how often the cache had to stand in for the
	// remote service. A sustained climb means the dependency is degraded
	FallbackLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "validation_fallback_lookups_total",
		Help: "Cache fallback lookups after remote retry exhaustion",
	}, []string{"result"}) // result: hit, miss

	// PublishFailures counts events that were lost at publish time
	// Publishing is best-effort; this counter is the only record of loss
	PublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_publish_failures_total",
		Help: "Outbound domain events that could not be handed to the broker",
	}, []string{"routing_key"})

	// CacheEntries tracks the size of the availability cache
	// The cache is unbounded; watch this gauge to know when that matters
	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "user_cache_entries",
		Help: "Current number of user snapshots held in the availability cache",
	})

	// HealthStatus provides a binary 0/1 signal for the broker link
	// 1 = Healthy, 0 = Unhealthy (connection or channel is down)
	HealthStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "broker_link_healthy",
		Help: "Current health of the RabbitMQ link (1 for healthy, 0 for unhealthy)",
	})
)
