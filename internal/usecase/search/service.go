package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/patentcompass/internal/domain"
	"github.com/kailas-cloud/patentcompass/internal/domain/patent"
	"github.com/kailas-cloud/patentcompass/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/patentcompass/internal/logger"
	"github.com/kailas-cloud/patentcompass/internal/metrics"
)

// DefaultMaxK caps the result count when no limit is configured.
const DefaultMaxK = 100

// Service answers semantic patent queries against the shared corpus index.
type Service struct {
	catalog IndexProvider
	embed   Embedder
	maxK    int
}

// New creates a search service.
func New(catalog IndexProvider, embed Embedder) *Service {
	return &Service{catalog: catalog, embed: embed, maxK: DefaultMaxK}
}

// WithMaxK caps k; values <= 0 keep the default.
func (s *Service) WithMaxK(maxK int) *Service {
	if maxK > 0 {
		s.maxK = maxK
	}
	return s
}

// Search embeds the trimmed query and returns the top k patents.
// An empty query fails with domain.ErrEmptyQuery before any embedding work.
// Failures inside embedding or ranking come back wrapped in domain.ErrQueryFailed
// and leave the shared index untouched.
func (s *Service) Search(ctx context.Context, query string, k int) (results []result.Result, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			results, err = nil, fmt.Errorf("%w: panic: %v", domain.ErrQueryFailed, r)
		}
		s.observe(ctx, start, len(results), err)
	}()

	q := strings.TrimSpace(query)
	if q == "" {
		return nil, domain.ErrEmptyQuery
	}
	if k < 0 {
		return nil, fmt.Errorf("k=%d: %w", k, domain.ErrInvalidK)
	}
	if k > s.maxK {
		k = s.maxK
	}

	idx, err := s.catalog.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpus index: %w", err)
	}

	emb, err := s.embed.Embed(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: vectorize query: %w", domain.ErrQueryFailed, err)
	}

	results, err = TopK(emb.Embedding, idx, k)
	if err != nil {
		return nil, fmt.Errorf("%w: rank: %w", domain.ErrQueryFailed, err)
	}
	return results, nil
}

// Patent returns a previously indexed patent by publication number.
func (s *Service) Patent(ctx context.Context, id string) (patent.Record, error) {
	idx, err := s.catalog.Init(ctx)
	if err != nil {
		return patent.Record{}, fmt.Errorf("corpus index: %w", err)
	}
	rec, ok := idx.Lookup(strings.TrimSpace(id))
	if !ok {
		return patent.Record{}, fmt.Errorf("%q: %w", id, domain.ErrPatentNotFound)
	}
	return rec, nil
}

func (s *Service) observe(ctx context.Context, start time.Time, n int, err error) {
	dur := time.Since(start)
	status := "ok"
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		status = "empty_query"
	case err != nil:
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(status).Inc()
	if err == nil {
		metrics.SearchDuration.Observe(dur.Seconds())
		metrics.SearchResultsReturned.Observe(float64(n))
	}

	logpkg.FromContext(ctx).Debug("search completed",
		zap.String("status", status),
		zap.Int("results", n),
		zap.Duration("duration", dur),
		zap.Error(err),
	)
}
