package health

import "context"

// IndexChecker reports ErrNotReady until the corpus index is built.
type IndexChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger is satisfied by the embedding cache store.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker probes the embedding provider.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
