package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/enginehub/squirrelid/internal/build"
)

const (
	OpPut    = "put"
	OpGet    = "get"
	OpGetAll = "get_all"
	OpByName = "get_by_name"
)

var (
	requestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "cache_requests_total",
		Help:      "The total number of requests served by a profile cache.",
	}, []string{"cache", "op"})

	errorsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "cache_errors_total",
		Help:      "The total number of profile cache requests that failed in the backing store.",
	}, []string{"cache", "op"})

	hitsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "cache_hits_total",
		Help:      "The total number of profiles found in a profile cache.",
	}, []string{"cache"})
)

// ObserveRequest counts a request of kind op against the named cache.
func ObserveRequest(cache, op string) {
	requestsCounter.WithLabelValues(cache, op).Inc()
}

// ObserveError counts a failed request of kind op against the named cache.
func ObserveError(cache, op string) {
	errorsCounter.WithLabelValues(cache, op).Inc()
}

// ObserveHits counts n profiles served by the named cache.
func ObserveHits(cache string, n int) {
	if n > 0 {
		hitsCounter.WithLabelValues(cache).Add(float64(n))
	}
}
