// Package metrics provides Prometheus instrumentation for the bot.
// All metrics are prefixed with "awnzzbot_". They register against the
// default registry via promauto; expose them by mounting Handler() on
// the address configured with METRICS_ADDR.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Update handling metrics
var (
	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "awnzzbot_updates_total",
			Help: "Total number of handled chat updates",
		},
		[]string{"kind"}, // "command" or "text"
	)

	HandlerPanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "awnzzbot_handler_panics_total",
			Help: "Total number of panics recovered in message handlers",
		},
	)
)

// Resolution metrics
var (
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "awnzzbot_resolutions_total",
			Help: "Total number of media resolutions",
		},
		[]string{"mode", "status"}, // mode: "url"/"search", status: "ok"/"error"
	)

	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "awnzzbot_resolution_duration_seconds",
			Help:    "Media resolution duration in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"mode"},
	)

	SearchCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "awnzzbot_search_cache_hits_total",
			Help: "Search-to-URL cache hits",
		},
	)

	SearchCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "awnzzbot_search_cache_misses_total",
			Help: "Search-to-URL cache misses",
		},
	)
)

// Store metrics
var (
	StoreQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "awnzzbot_store_queries_total",
			Help: "Total number of playlist store operations",
		},
		[]string{"operation", "status"},
	)
)

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
