package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeapi_cache_lookups_total",
			Help: "PokeAPI cache lookups by result",
		},
		[]string{"result"}, // hit, stale, miss
	)

	bytesWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeapi_cache_bytes_written_total",
			Help: "Bytes written to the PokeAPI cache",
		},
	)

	// RevalidationsTotal counts conditional requests by outcome. The client
	// records "sent"; the store records "not_modified".
	RevalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeapi_cache_revalidations_total",
			Help: "Conditional PokeAPI requests by outcome",
		},
		[]string{"outcome"},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeapi_cache_errors_total",
			Help: "PokeAPI cache operation errors",
		},
		[]string{"operation"}, // lookup, save, evict
	)
)
