// Package app assembles the patentcompass components from configuration.
// Both the HTTP service and the offline CLI build their stack here.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/patentcompass/internal/config"
	"github.com/kailas-cloud/patentcompass/internal/db"
	dbRedis "github.com/kailas-cloud/patentcompass/internal/db/redis"
	"github.com/kailas-cloud/patentcompass/internal/domain"
	"github.com/kailas-cloud/patentcompass/internal/domain/hashembed"
	"github.com/kailas-cloud/patentcompass/internal/domain/patent"
	"github.com/kailas-cloud/patentcompass/internal/metrics"
	"github.com/kailas-cloud/patentcompass/internal/repository/embcache"
	"github.com/kailas-cloud/patentcompass/internal/repository/tabular"
	openaiEmb "github.com/kailas-cloud/patentcompass/internal/transport/openai"
	"github.com/kailas-cloud/patentcompass/internal/usecase/catalog"
	"github.com/kailas-cloud/patentcompass/internal/usecase/corpus"
	embeddinguc "github.com/kailas-cloud/patentcompass/internal/usecase/embedding"
)

// ConnectCache opens the embedding cache store. It returns a nil store when
// the cache is disabled. Valkey speaks the Redis protocol, so both drivers
// share the rueidis store.
func ConnectCache(ctx context.Context, cfg config.CacheConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.CacheDriverNone:
		return nil, nil
	case config.CacheDriverRedis, config.CacheDriverValkey:
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache store: %w", err)
	}

	timeout := time.Duration(cfg.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("cache not ready: %w", err)
	}
	return store, nil
}

// BuildEmbedder assembles the decorator chain: provider -> cache -> instrumented.
// store may be nil, in which case the cache layer is skipped.
func BuildEmbedder(cfg config.EmbeddingConfig, cacheCfg config.CacheConfig, store db.KVStore, logger *zap.Logger) domain.Embedder {
	var base domain.Embedder
	switch cfg.Provider {
	case config.ProviderOpenAI:
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Provider:   cfg.Provider,
			Logger:     logger,
		})
	default:
		base = hashembed.New(cfg.Dimensions)
	}

	embedder := base
	if store != nil {
		embedder = embcache.New(base, store, embcache.Config{
			KeyPrefix: cacheCfg.KeyPrefix,
			Model:     cfg.Model,
			TTL:       time.Duration(cacheCfg.TTLHours) * time.Hour,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, embeddinguc.Options{
		MaxBatchSize: cfg.MaxBatchSize,
		Concurrency:  cfg.Concurrency,
		Dimensions:   cfg.Dimensions,
	}, logger)
}

// BuildCatalog wires the corpus file, the record loader and the embedder
// into an uninitialized catalog.
func BuildCatalog(cfg config.CorpusConfig, embedder domain.Embedder, logger *zap.Logger) *catalog.Catalog {
	source := tabular.NewFileSource(cfg.Path, cfg.Sheet)
	loader := corpus.NewLoader(patent.TemplateImageRef(cfg.ImageURLTemplate))
	return catalog.New(source, loader, embedder, logger)
}

// EmbeddingHealthChecker adapts an embedder to health.EmbeddingChecker.
type EmbeddingHealthChecker struct {
	embedder domain.Embedder
}

// NewEmbeddingHealthChecker wraps embedder. Embedders without a health
// check always report healthy.
func NewEmbeddingHealthChecker(embedder domain.Embedder) *EmbeddingHealthChecker {
	return &EmbeddingHealthChecker{embedder: embedder}
}

// HealthCheck implements health.EmbeddingChecker.
func (h *EmbeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}
