package patentcompass

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var testHeader = []string{"Publication Number", "Title (original language)", "Abstract (original language)"}

func testRows() [][]string {
	return [][]string{
		{"CL2019001", "Certificación de miel", "Método para certificar la calidad de la miel mediante análisis de polen."},
		{"US2020002", "Car engine", "An internal combustion engine for automobiles."},
		{"ES2018003", "Colmena inteligente", "Colmena con sensores de temperatura y humedad."},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithRows(testHeader, testRows()),
		WithEmbedder(NewHashEmbedder(128)),
		WithImageURLTemplate("https://img.example/{id}.png"),
	}
	eng, err := New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(eng.Close)
	return eng
}

func TestNew_NoCorpus(t *testing.T) {
	_, err := New(context.Background(), WithEmbedder(NewHashEmbedder(8)))
	if !errors.Is(err, ErrNoCorpus) {
		t.Fatalf("expected ErrNoCorpus, got %v", err)
	}
}

func TestNew_NoEmbedder(t *testing.T) {
	_, err := New(context.Background(), WithRows(testHeader, testRows()))
	if !errors.Is(err, ErrNoEmbedder) {
		t.Fatalf("expected ErrNoEmbedder, got %v", err)
	}
}

func TestNew_SchemaError(t *testing.T) {
	_, err := New(context.Background(),
		WithRows([]string{"id", "title"}, [][]string{{"1", "x"}}),
		WithEmbedder(NewHashEmbedder(8)),
	)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestNew_CorpusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patentes.csv")
	data := strings.Join(testHeader, ",") + "\nES1,Colmena,Colmena con sensores.\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	eng, err := New(context.Background(), WithCorpusFile(path, ""), WithEmbedder(NewHashEmbedder(32)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Close()
	if eng.Len() != 1 {
		t.Errorf("Len() = %d, want 1", eng.Len())
	}
}

func TestEngine_Search(t *testing.T) {
	eng := newTestEngine(t)

	hits, err := eng.Search(context.Background(), "certificar calidad de la miel", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Patent.ID != "CL2019001" {
		t.Errorf("expected CL2019001 first, got %s", hits[0].Patent.ID)
	}
	if hits[0].Score < hits[1].Score {
		t.Errorf("hits not sorted: %f < %f", hits[0].Score, hits[1].Score)
	}
	if hits[0].Patent.ImageURL != "https://img.example/CL2019001.png" {
		t.Errorf("unexpected image URL %q", hits[0].Patent.ImageURL)
	}
}

func TestEngine_SearchErrors(t *testing.T) {
	eng := newTestEngine(t)

	if _, err := eng.Search(context.Background(), "  ", 3); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := eng.Search(context.Background(), "miel", -1); !errors.Is(err, ErrInvalidK) {
		t.Errorf("expected ErrInvalidK, got %v", err)
	}
	hits, err := eng.Search(context.Background(), "miel", 0)
	if err != nil || len(hits) != 0 {
		t.Errorf("k=0: expected no hits, got %d, %v", len(hits), err)
	}
}

func TestEngine_TopAndMaxK(t *testing.T) {
	eng := newTestEngine(t, WithDefaultK(1), WithMaxK(2))

	hits, err := eng.Top(context.Background(), "colmena")
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("Top: expected 1 hit, got %d", len(hits))
	}

	hits, err = eng.Search(context.Background(), "colmena", 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("expected k capped at 2, got %d", len(hits))
	}
}

func TestEngine_Patent(t *testing.T) {
	eng := newTestEngine(t)

	p, err := eng.Patent(context.Background(), "ES2018003")
	if err != nil {
		t.Fatalf("Patent: %v", err)
	}
	if p.Title != "Colmena inteligente" {
		t.Errorf("unexpected title %q", p.Title)
	}

	if _, err := eng.Patent(context.Background(), "XX"); !errors.Is(err, ErrPatentNotFound) {
		t.Errorf("expected ErrPatentNotFound, got %v", err)
	}
}

func TestEngine_CustomEmbedderFailure(t *testing.T) {
	mock := &mockEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			return EmbeddingResult{}, ErrModelUnavailable
		},
	}
	_, err := New(context.Background(), WithRows(testHeader, testRows()), WithEmbedder(mock))
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestEngine_Observability(t *testing.T) {
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng := newTestEngine(t, WithPrometheus(reg), WithLogger(logger))
	_, _ = eng.Search(context.Background(), "miel", 1)
	_, _ = eng.Search(context.Background(), "", 1)

	m, err := newEngineMetrics(reg)
	if err != nil {
		t.Fatalf("reuse metrics: %v", err)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("search", "ok")); got != 1 {
		t.Errorf("search ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("search", "error")); got != 1 {
		t.Errorf("search error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("init", "ok")); got != 1 {
		t.Errorf("init ok = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.hits); got != 1 {
		t.Errorf("hits histogram series = %d, want 1", got)
	}
	if !strings.Contains(buf.String(), "patent index ready") {
		t.Errorf("expected readiness log, got:\n%s", buf.String())
	}
}
