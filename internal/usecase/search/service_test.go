package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/patentcompass/internal/domain"
	"github.com/kailas-cloud/patentcompass/internal/domain/hashembed"
	"github.com/kailas-cloud/patentcompass/internal/domain/index"
)

// --- Mocks ---

type mockCatalog struct {
	idx *index.Index
	err error
}

func (m *mockCatalog) Init(context.Context) (*index.Index, error) { return m.idx, m.err }

type mockEmbedder struct {
	inner  domain.Embedder
	err    error
	panics bool
	calls  int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.panics {
		panic("model crashed")
	}
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.inner.Embed(ctx, text)
}

func newTestService(t *testing.T) (*Service, *mockEmbedder, *index.Index) {
	t.Helper()
	idx, emb := buildIndex(t, sampleCorpus()...)
	me := &mockEmbedder{inner: emb}
	return New(&mockCatalog{idx: idx}, me), me, idx
}

// --- Tests ---

func TestSearch_EmptyQuery(t *testing.T) {
	svc, emb, _ := newTestService(t)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Search(context.Background(), q, 3)
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("Search(%q): expected ErrEmptyQuery, got %v", q, err)
		}
	}
	if emb.calls != 0 {
		t.Errorf("embedder must not be called for empty queries, got %d calls", emb.calls)
	}
}

func TestSearch_TrimsQuery(t *testing.T) {
	svc, _, _ := newTestService(t)

	padded, err := svc.Search(context.Background(), "  honey purity sensor  ", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	plain, _ := svc.Search(context.Background(), "honey purity sensor", 2)
	for i := range plain {
		if padded[i].ID() != plain[i].ID() || padded[i].Score() != plain[i].Score() {
			t.Errorf("result %d differs after trimming", i)
		}
	}
	if padded[0].ID() != "P1" {
		t.Errorf("expected P1 first, got %s", padded[0].ID())
	}
}

func TestSearch_NotReady(t *testing.T) {
	emb := &mockEmbedder{inner: hashembed.New(8)}
	svc := New(&mockCatalog{err: domain.ErrNotReady}, emb)

	_, err := svc.Search(context.Background(), "honey", 3)
	if !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if emb.calls != 0 {
		t.Error("embedder must not be called before the index is ready")
	}
}

func TestSearch_EmbedderError(t *testing.T) {
	svc, emb, _ := newTestService(t)
	emb.err = domain.ErrModelUnavailable

	_, err := svc.Search(context.Background(), "honey", 3)
	if !errors.Is(err, domain.ErrQueryFailed) {
		t.Errorf("expected ErrQueryFailed, got %v", err)
	}
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Errorf("expected cause ErrModelUnavailable to be preserved, got %v", err)
	}
}

func TestSearch_PanicIsContained(t *testing.T) {
	svc, emb, idx := newTestService(t)
	emb.panics = true

	_, err := svc.Search(context.Background(), "honey", 3)
	if !errors.Is(err, domain.ErrQueryFailed) {
		t.Fatalf("expected ErrQueryFailed, got %v", err)
	}

	emb.panics = false
	results, err := svc.Search(context.Background(), "honey", 3)
	if err != nil {
		t.Fatalf("subsequent query failed: %v", err)
	}
	if len(results) != 3 || idx.Len() != 5 {
		t.Errorf("shared index affected by failed query: %d results, %d records", len(results), idx.Len())
	}
}

func TestSearch_DimensionMismatchIsQueryFailure(t *testing.T) {
	idx, _ := buildIndex(t, sampleCorpus()...)
	svc := New(&mockCatalog{idx: idx}, &mockEmbedder{inner: hashembed.New(16)})

	_, err := svc.Search(context.Background(), "honey", 3)
	if !errors.Is(err, domain.ErrQueryFailed) || !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrQueryFailed wrapping ErrVectorDimMismatch, got %v", err)
	}
}

func TestSearch_KLimits(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Search(context.Background(), "honey", -2); !errors.Is(err, domain.ErrInvalidK) {
		t.Errorf("expected ErrInvalidK, got %v", err)
	}

	svc.WithMaxK(2)
	results, err := svc.Search(context.Background(), "honey", 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected k clamped to 2, got %d", len(results))
	}

	results, err = svc.Search(context.Background(), "honey", 0)
	if err != nil || len(results) != 0 {
		t.Errorf("k=0: expected empty result, got %d, %v", len(results), err)
	}
}

func TestPatent(t *testing.T) {
	svc, _, _ := newTestService(t)

	rec, err := svc.Patent(context.Background(), "P3")
	if err != nil {
		t.Fatalf("Patent: %v", err)
	}
	if rec.Title() != "Beehive monitoring" {
		t.Errorf("unexpected title %q", rec.Title())
	}

	if _, err := svc.Patent(context.Background(), "missing"); !errors.Is(err, domain.ErrPatentNotFound) {
		t.Errorf("expected ErrPatentNotFound, got %v", err)
	}
}

func TestPatent_NotReady(t *testing.T) {
	svc := New(&mockCatalog{err: domain.ErrNotReady}, &mockEmbedder{})
	if _, err := svc.Patent(context.Background(), "P1"); !errors.Is(err, domain.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}
