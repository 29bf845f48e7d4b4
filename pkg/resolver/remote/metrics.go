package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/enginehub/squirrelid/internal/build"
)

const (
	endpointProfiles    = "profiles"
	endpointNameHistory = "name_history"

	outcomeFound   = "found"
	outcomeUnknown = "unknown"
	outcomeError   = "error"
)

var (
	requestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "remote_requests_total",
		Help:      "The total number of lookups sent to the remote profile service.",
	}, []string{"endpoint", "outcome"})

	retriesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "remote_retries_total",
		Help:      "The total number of retried requests to the remote profile service.",
	})

	deduplicatedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "remote_deduplicated_lookups_total",
		Help:      "The total number of single-key lookups that shared an in-flight request.",
	})

	decodeFailuresCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "remote_decode_failures_total",
		Help:      "The total number of response entries that could not be decoded.",
	})
)
