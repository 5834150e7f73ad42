package metrics

import "github.com/prometheus/client_golang/prometheus"

// Label values of EmbeddingRequestsTotal.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// EmbeddingRequestsTotal counts provider calls. kind is single or batch.
	EmbeddingRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "embedding",
		Name:      "requests_total",
		Help:      "Embedding provider requests by kind and status",
	}, []string{"provider", "model", "kind", "status"})

	EmbeddingRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "embedding",
		Name:      "request_duration_seconds",
		Help:      "Latency of successful embedding provider requests",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2.5, 9),
	}, []string{"provider", "model", "kind"})

	// EmbeddingBatchSize observes how many texts went into one provider call.
	EmbeddingBatchSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "embedding",
		Name:      "batch_size",
		Help:      "Texts per embedding provider request",
		Buckets:   []float64{1, 8, 32, 64, 128, 256, 512},
	}, []string{"provider", "model"})

	EmbeddingTextsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "embedding",
		Name:      "texts_total",
		Help:      "Texts vectorized by the embedding provider",
	}, []string{"provider", "model"})

	// EmbeddingTokensTotal is only fed when the provider reports usage.
	EmbeddingTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "embedding",
		Name:      "tokens_total",
		Help:      "Tokens reported by the embedding provider",
	}, []string{"provider", "model", "type"})

	EmbeddingErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "embedding",
		Name:      "errors_total",
		Help:      "Embedding failures by cause",
	}, []string{"provider", "model", "error_type"})

	// EmbeddingCacheTotal has a single result label: hit or miss.
	EmbeddingCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "embedding",
		Name:      "cache_total",
		Help:      "Embedding cache lookups by result",
	}, []string{"result"})
)

var embeddingGroup = group{collectors: func() []prometheus.Collector {
	return []prometheus.Collector{
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingBatchSize,
		EmbeddingTextsTotal,
		EmbeddingTokensTotal,
		EmbeddingErrorsTotal,
		EmbeddingCacheTotal,
	}
}}

// RegisterEmbeddingMetrics registers the embedding collectors. Safe to call repeatedly.
func RegisterEmbeddingMetrics() { embeddingGroup.register() }
