package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/patentcompass/internal/domain"
)

// DefaultMaxAPIBatchSize is the largest batch sent in one provider request.
const DefaultMaxAPIBatchSize = 64

// DefaultConcurrency bounds in-flight chunk requests during corpus builds.
const DefaultConcurrency = 4

// Options tune chunking and output validation.
type Options struct {
	MaxBatchSize int
	Concurrency  int
	// Dimensions, when positive, is enforced on every returned vector.
	Dimensions int
}

// InstrumentedEmbedder wraps Embedder with chunking, dimension checks and logging.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	model    string
	opts     Options
	logger   *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with chunking and observability.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string,
	opts Options, logger *zap.Logger,
) *InstrumentedEmbedder {
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = DefaultMaxAPIBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		model:    model,
		opts:     opts,
		logger:   logger,
	}
}

// Embed delegates to the inner embedder and validates the vector size.
func (p *InstrumentedEmbedder) Embed(
	ctx context.Context, text string,
) (domain.EmbeddingResult, error) {
	start := time.Now()

	result, err := p.inner.Embed(ctx, text)

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Embedding request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	if err := p.checkDims(result.Embedding); err != nil {
		return domain.EmbeddingResult{}, err
	}

	p.logger.Debug("Embedding request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// BatchEmbed splits texts into sub-batches, embeds them concurrently and
// reassembles the vectors in input order.
func (p *InstrumentedEmbedder) BatchEmbed(
	ctx context.Context, texts []string,
) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	start := time.Now()

	result, err := p.embedChunked(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}

	p.logger.Debug("Batch embedding completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("batch_size", len(texts)),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// HealthCheck delegates to the inner embedder when it supports health checks.
func (p *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (p *InstrumentedEmbedder) embedChunked(
	ctx context.Context, texts []string,
) (domain.BatchEmbeddingResult, error) {
	size := p.opts.MaxBatchSize
	chunks := (len(texts) + size - 1) / size
	results := make([]domain.BatchEmbeddingResult, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for c := range chunks {
		offset := c * size
		end := min(offset+size, len(texts))
		chunk := texts[offset:end]

		g.Go(func() error {
			res, err := domain.EmbedMany(gctx, p.inner, chunk)
			if err != nil {
				p.logger.Error("Batch embedding request failed",
					zap.String("provider", p.provider),
					zap.String("model", p.model),
					zap.Int("chunk_offset", offset),
					zap.Int("chunk_size", len(chunk)),
					zap.Error(err),
				)
				return fmt.Errorf("batch embed (chunk %d): %w", offset, err)
			}
			if len(res.Embeddings) != len(chunk) {
				return fmt.Errorf("batch embed (chunk %d): got %d vectors for %d texts: %w",
					offset, len(res.Embeddings), len(chunk), domain.ErrModelUnavailable)
			}
			results[c] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.BatchEmbeddingResult{}, err
	}

	all := make([][]float32, 0, len(texts))
	var totalPrompt, totalTokens int
	for _, res := range results {
		for _, vec := range res.Embeddings {
			if err := p.checkDims(vec); err != nil {
				return domain.BatchEmbeddingResult{}, err
			}
		}
		all = append(all, res.Embeddings...)
		totalPrompt += res.PromptTokens
		totalTokens += res.TotalTokens
	}

	return domain.BatchEmbeddingResult{
		Embeddings:   all,
		PromptTokens: totalPrompt,
		TotalTokens:  totalTokens,
	}, nil
}

func (p *InstrumentedEmbedder) checkDims(vec []float32) error {
	if p.opts.Dimensions > 0 && len(vec) != p.opts.Dimensions {
		return fmt.Errorf("model returned %d dimensions, expected %d: %w",
			len(vec), p.opts.Dimensions, domain.ErrVectorDimMismatch)
	}
	return nil
}
