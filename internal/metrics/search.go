package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and corpus Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total search queries by outcome",
		},
		[]string{"status"}, // ok | empty_query | error
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end query latency (embedding and ranking) in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results_returned",
			Help:      "Number of results returned per query",
			Buckets:   []float64{0, 1, 3, 5, 10, 25, 50, 100},
		},
	)

	CorpusRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_records",
			Help:      "Number of patent records in the loaded corpus index",
		},
	)

	CorpusBuildDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_build_duration_seconds",
			Help:      "Time spent loading and embedding the corpus",
		},
	)
)

var searchGroup = group{collectors: func() []prometheus.Collector {
	return []prometheus.Collector{
		SearchRequestsTotal,
		SearchDuration,
		SearchResultsReturned,
		CorpusRecords,
		CorpusBuildDuration,
	}
}}

// RegisterSearchMetrics registers search and corpus metrics. Safe to call repeatedly.
func RegisterSearchMetrics() { searchGroup.register() }
