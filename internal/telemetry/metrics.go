package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DetailFetchFailuresTotal counts per-order detail fetches that failed
	// during enrichment. Failures are isolated per item, so this counter is
	// the only place they become visible outside the logs.
	DetailFetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "opsboard_detail_fetch_failures_total",
		Help: "Total number of per-order detail fetches that failed during enrichment.",
	})

	// EnrichmentBatchesTotal counts completed enrichment passes by outcome.
	EnrichmentBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsboard_enrichment_batches_total",
		Help: "Total number of enrichment passes, labelled by outcome.",
	},
		[]string{"outcome"},
	)

	// BackendRequestsTotal counts requests issued to the commerce backend.
	BackendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsboard_backend_requests_total",
		Help: "Total number of requests sent to the commerce backend, labelled by endpoint and result.",
	},
		[]string{"endpoint", "result"},
	)

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "opsboard_cache_hits_total",
		Help: "Total number of cache hits.",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "opsboard_cache_misses_total",
		Help: "Total number of cache misses.",
	})
)
