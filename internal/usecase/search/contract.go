package search

import (
	"context"

	"github.com/kailas-cloud/patentcompass/internal/domain"
	"github.com/kailas-cloud/patentcompass/internal/domain/index"
)

// IndexProvider hands out the shared, immutable corpus index, building it on
// first demand.
type IndexProvider interface {
	Init(ctx context.Context) (*index.Index, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
