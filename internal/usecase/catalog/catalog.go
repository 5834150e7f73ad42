// Package catalog owns the process-wide corpus index: it is built once, on
// first demand, and shared read-only by every query afterwards.
package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/patentcompass/internal/domain"
	"github.com/kailas-cloud/patentcompass/internal/domain/index"
	"github.com/kailas-cloud/patentcompass/internal/domain/patent"
	"github.com/kailas-cloud/patentcompass/internal/metrics"
)

const initKey = "corpus"

// Catalog builds and holds the corpus index.
type Catalog struct {
	source Source
	loader RecordLoader
	embed  domain.Embedder
	logger *zap.Logger

	group singleflight.Group
	idx   atomic.Pointer[index.Index]
}

// New creates an uninitialized catalog.
func New(source Source, loader RecordLoader, embed domain.Embedder, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{source: source, loader: loader, embed: embed, logger: logger}
}

// Init builds the index exactly once. Concurrent callers share a single build
// and all observe its outcome. A failed build publishes nothing, so a later
// call may try again.
func (c *Catalog) Init(ctx context.Context) (*index.Index, error) {
	if idx := c.idx.Load(); idx != nil {
		return idx, nil
	}

	v, err, _ := c.group.Do(initKey, func() (any, error) {
		if idx := c.idx.Load(); idx != nil {
			return idx, nil
		}
		// Shared by every waiter: one caller going away must not abort it.
		idx, err := c.build(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.idx.Store(idx)
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*index.Index), nil
}

// Index returns the built index or domain.ErrNotReady.
func (c *Catalog) Index() (*index.Index, error) {
	if idx := c.idx.Load(); idx != nil {
		return idx, nil
	}
	return nil, domain.ErrNotReady
}

// HealthCheck reports whether the index has been built.
func (c *Catalog) HealthCheck(context.Context) error {
	if c.idx.Load() == nil {
		return domain.ErrNotReady
	}
	return nil
}

func (c *Catalog) build(ctx context.Context) (*index.Index, error) {
	start := time.Now()

	table, err := c.source.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	records, err := c.loader.Load(table)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	c.logger.Info("Corpus loaded", zap.Int("records", len(records)))

	idx, err := index.Build(ctx, records, c.embed)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	dur := time.Since(start)
	metrics.CorpusRecords.Set(float64(idx.Len()))
	metrics.CorpusBuildDuration.Set(dur.Seconds())
	c.logger.Info("Corpus index built",
		zap.Int("records", idx.Len()),
		zap.Int("dimensions", idx.Dimensions()),
		zap.Duration("duration", dur),
	)
	return idx, nil
}

// Source supplies the raw corpus table.
type Source interface {
	Read(ctx context.Context) (domain.Table, error)
}

// RecordLoader normalizes a raw table into records.
type RecordLoader interface {
	Load(t domain.Table) ([]patent.Record, error)
}
