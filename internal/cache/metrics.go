package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	readsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventshell_cache_reads_total",
		Help: "Cache reads by result (fresh, stale, miss, error)",
	}, []string{"result"})
	forcedRevalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventshell_cache_forced_revalidations_total",
		Help: "InvalidateAndRefetch instructions received, by key",
	}, []string{"key"})
	refetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventshell_cache_refetch_total",
		Help: "Completed refetches by outcome",
	}, []string{"outcome"})
	refetchDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventshell_cache_refetch_duration_ms",
		Help:    "Latency of cache refetches including retries, in milliseconds",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	})
)
