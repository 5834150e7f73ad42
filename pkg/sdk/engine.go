package patentcompass

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/patentcompass/internal/db"
	dbRedis "github.com/kailas-cloud/patentcompass/internal/db/redis"
	"github.com/kailas-cloud/patentcompass/internal/domain"
	"github.com/kailas-cloud/patentcompass/internal/domain/index"
	"github.com/kailas-cloud/patentcompass/internal/domain/patent"
	"github.com/kailas-cloud/patentcompass/internal/domain/search/result"
	"github.com/kailas-cloud/patentcompass/internal/metrics"
	"github.com/kailas-cloud/patentcompass/internal/repository/embcache"
	"github.com/kailas-cloud/patentcompass/internal/repository/tabular"
	openaiEmb "github.com/kailas-cloud/patentcompass/internal/transport/openai"
	"github.com/kailas-cloud/patentcompass/internal/usecase/catalog"
	"github.com/kailas-cloud/patentcompass/internal/usecase/corpus"
	embeddinguc "github.com/kailas-cloud/patentcompass/internal/usecase/embedding"
	searchuc "github.com/kailas-cloud/patentcompass/internal/usecase/search"
)

const (
	defaultK                = 3
	defaultReadinessTimeout = 10 * time.Second
)

// Internal interfaces, swapped in tests.
type searchUseCase interface {
	Search(ctx context.Context, query string, k int) ([]result.Result, error)
	Patent(ctx context.Context, id string) (patent.Record, error)
}

type indexHolder interface {
	Index() (*index.Index, error)
}

// Engine answers patent queries against an in-memory corpus index.
// It is safe for concurrent use.
type Engine struct {
	store    db.Store
	search   searchUseCase
	catalog  indexHolder
	defaultK int
	obs      *observer
}

// New loads the corpus, embeds it and returns a ready engine.
// The provided context bounds the cache readiness check and the corpus build.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	cfg := &engineConfig{defaultK: defaultK, maxK: searchuc.DefaultMaxK}
	for _, o := range opts {
		o.apply(cfg)
	}

	source, err := corpusSource(cfg)
	if err != nil {
		return nil, err
	}
	embedder, model, err := baseEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if len(cfg.cacheAddrs) > 0 {
		store, err = connectCache(ctx, cfg)
		if err != nil {
			return nil, err
		}
		embedder = embcache.New(embedder, store, embcache.Config{Model: model}, metrics.EmbeddingCacheTotal, nil)
	}
	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, "sdk", model, embeddinguc.Options{}, nil)

	loader := corpus.NewLoader(patent.TemplateImageRef(cfg.imageURLTemplate))
	cat := catalog.New(source, loader, embedder, nil)

	start := time.Now()
	idx, err := cat.Init(ctx)
	obs.observe("init", start, err)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("patentcompass: build index: %w", err)
	}
	if cfg.logger != nil {
		cfg.logger.Info("patent index ready", "records", idx.Len(), "dimensions", idx.Dimensions())
	}

	return &Engine{
		store:    store,
		search:   searchuc.New(cat, embedder).WithMaxK(cfg.maxK),
		catalog:  cat,
		defaultK: cfg.defaultK,
		obs:      obs,
	}, nil
}

func corpusSource(cfg *engineConfig) (catalog.Source, error) {
	switch {
	case cfg.header != nil:
		return tabular.NewStaticSource(cfg.header, cfg.rows), nil
	case cfg.corpusPath != "":
		return tabular.NewFileSource(cfg.corpusPath, cfg.corpusSheet), nil
	default:
		return nil, ErrNoCorpus
	}
}

func baseEmbedder(cfg *engineConfig) (domain.Embedder, string, error) {
	switch {
	case cfg.embedder != nil:
		return unwrap(cfg.embedder), "custom", nil
	case cfg.openai != nil:
		return openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.openai.apiKey,
			BaseURL:    cfg.openai.baseURL,
			Model:      cfg.openai.model,
			Dimensions: cfg.openai.dimensions,
			Provider:   "openai",
		}), cfg.openai.model, nil
	default:
		return nil, "", ErrNoEmbedder
	}
}

func connectCache(ctx context.Context, cfg *engineConfig) (db.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("patentcompass: create %s store: %w", cfg.cacheDriver, err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("patentcompass: cache not ready: %w", err)
	}
	return store, nil
}

// Close releases the embedding cache connection, if any.
func (e *Engine) Close() {
	if e.store != nil {
		e.store.Close()
	}
}

// Len returns the number of indexed patents.
func (e *Engine) Len() int {
	idx, err := e.catalog.Index()
	if err != nil {
		return 0
	}
	return idx.Len()
}

// Search returns the k patents most similar to query, best first.
// k is capped by WithMaxK; k == 0 yields no hits.
func (e *Engine) Search(ctx context.Context, query string, k int) (hits []Hit, err error) {
	start := time.Now()
	defer func() { e.obs.observe("search", start, err) }()

	results, err := e.search.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits = make([]Hit, len(results))
	for i := range results {
		hits[i] = Hit{Patent: fromRecord(results[i].Record()), Score: results[i].Score()}
	}
	e.obs.observeHits(len(hits))
	return hits, nil
}

// Top is Search with the configured default k.
func (e *Engine) Top(ctx context.Context, query string) ([]Hit, error) {
	return e.Search(ctx, query, e.defaultK)
}

// Patent looks up an indexed patent by publication number.
func (e *Engine) Patent(ctx context.Context, id string) (p Patent, err error) {
	start := time.Now()
	defer func() { e.obs.observe("patent", start, err) }()

	rec, err := e.search.Patent(ctx, id)
	if err != nil {
		return Patent{}, fmt.Errorf("patent: %w", err)
	}
	return fromRecord(rec), nil
}

func fromRecord(r patent.Record) Patent {
	return Patent{
		ID:       r.ID(),
		Title:    r.Title(),
		Abstract: r.Abstract(),
		ImageURL: r.ImageRef(),
	}
}
