package search

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/kailas-cloud/patentcompass/internal/domain"
	"github.com/kailas-cloud/patentcompass/internal/domain/hashembed"
	"github.com/kailas-cloud/patentcompass/internal/domain/index"
	"github.com/kailas-cloud/patentcompass/internal/domain/patent"
	"github.com/kailas-cloud/patentcompass/internal/domain/search/result"
)

func buildIndex(t *testing.T, records ...patent.Record) (*index.Index, *hashembed.Embedder) {
	t.Helper()
	emb := hashembed.New(384)
	idx, err := index.Build(context.Background(), records, emb)
	if err != nil {
		t.Fatalf("index.Build: %v", err)
	}
	return idx, emb
}

func embedQuery(t *testing.T, e domain.Embedder, q string) []float32 {
	t.Helper()
	res, err := e.Embed(context.Background(), q)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	return res.Embedding
}

func sampleCorpus() []patent.Record {
	return []patent.Record{
		patent.New("P1", "Honey quality sensor", "A device measuring honey purity.", nil),
		patent.New("P2", "Car engine", "An engine for automobiles.", nil),
		patent.New("P3", "Beehive monitoring", "Wireless sensors placed inside a beehive measure temperature.", nil),
		patent.New("P4", "Solar panel cleaning robot", "A robot that cleans photovoltaic panels.", nil),
		patent.New("P5", "Pollen trap", "A trap collecting pollen from bees at the hive entrance.", nil),
	}
}

func assertNonIncreasing(t *testing.T, results []result.Result) {
	t.Helper()
	for i := 1; i < len(results); i++ {
		if results[i].Score() > results[i-1].Score() {
			t.Errorf("results not sorted: %f > %f at index %d", results[i].Score(), results[i-1].Score(), i)
		}
	}
}

func TestTopK_ResultCount(t *testing.T) {
	idx, emb := buildIndex(t, sampleCorpus()...)
	q := embedQuery(t, emb, "sensor for bees")

	for k := 0; k <= idx.Len()+2; k++ {
		results, err := TopK(q, idx, k)
		if err != nil {
			t.Fatalf("TopK(k=%d): %v", k, err)
		}
		want := min(k, idx.Len())
		if len(results) != want {
			t.Errorf("TopK(k=%d) returned %d results, want %d", k, len(results), want)
		}
		assertNonIncreasing(t, results)
	}
}

func TestTopK_ZeroKAndEmptyCorpus(t *testing.T) {
	idx, emb := buildIndex(t, sampleCorpus()...)
	results, err := TopK(embedQuery(t, emb, "honey"), idx, 0)
	if err != nil || results == nil || len(results) != 0 {
		t.Fatalf("k=0: expected empty non-nil slice, got %v, %v", results, err)
	}

	empty, _ := buildIndex(t)
	results, err = TopK([]float32{1, 2, 3}, empty, 3)
	if err != nil || len(results) != 0 {
		t.Fatalf("empty corpus: expected empty result, got %v, %v", results, err)
	}
}

func TestTopK_NegativeK(t *testing.T) {
	idx, emb := buildIndex(t, sampleCorpus()...)
	_, err := TopK(embedQuery(t, emb, "honey"), idx, -1)
	if !errors.Is(err, domain.ErrInvalidK) {
		t.Fatalf("expected ErrInvalidK, got %v", err)
	}
}

func TestTopK_Deterministic(t *testing.T) {
	idx, emb := buildIndex(t, sampleCorpus()...)
	q := embedQuery(t, emb, "measure honey")

	first, _ := TopK(q, idx, 3)
	second, _ := TopK(embedQuery(t, emb, "measure honey"), idx, 3)
	if len(first) != len(second) {
		t.Fatalf("length differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID() != second[i].ID() || first[i].Score() != second[i].Score() {
			t.Errorf("result %d differs: %s/%f vs %s/%f",
				i, first[i].ID(), first[i].Score(), second[i].ID(), second[i].Score())
		}
	}
}

func TestTopK_SelfSimilarityIsMaximal(t *testing.T) {
	corpus := sampleCorpus()
	idx, emb := buildIndex(t, corpus...)

	for _, r := range corpus {
		results, err := TopK(embedQuery(t, emb, r.Description()), idx, idx.Len())
		if err != nil {
			t.Fatalf("TopK: %v", err)
		}
		if results[0].ID() != r.ID() {
			t.Errorf("query %q: top result %s, want %s", r.Description(), results[0].ID(), r.ID())
		}
		if math.Abs(results[0].Score()-1) > 1e-6 {
			t.Errorf("query %q: self score %f, want 1", r.Description(), results[0].Score())
		}
	}
}

func TestTopK_TieBreakByCorpusOrder(t *testing.T) {
	same := "Honey extractor. A centrifuge for honey frames."
	idx, emb := buildIndex(t,
		patent.New("B", "Unrelated", "Nothing in common.", nil),
		patent.New("A2", "Honey extractor", "A centrifuge for honey frames.", nil),
		patent.New("A1", "Honey extractor", "A centrifuge for honey frames.", nil),
	)

	results, err := TopK(embedQuery(t, emb, same), idx, 3)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	if results[0].Score() != results[1].Score() {
		t.Fatalf("expected an exact tie, got %f vs %f", results[0].Score(), results[1].Score())
	}
	if results[0].ID() != "A2" || results[1].ID() != "A1" {
		t.Errorf("tie not broken by corpus order: got %s, %s", results[0].ID(), results[1].ID())
	}
}

func TestTopK_EmptyRecordScoresZero(t *testing.T) {
	idx, emb := buildIndex(t,
		patent.New("P1", "Honey quality sensor", "A device measuring honey purity.", nil),
		patent.New("E", "", "", nil),
	)

	results, err := TopK(embedQuery(t, emb, "honey quality"), idx, 2)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	for _, r := range results {
		if r.ID() == "E" && r.Score() != 0 {
			t.Errorf("empty record score = %f, want 0", r.Score())
		}
	}
}

func TestTopK_HoneyScenario(t *testing.T) {
	idx, emb := buildIndex(t,
		patent.New("P1", "Honey quality sensor", "A device measuring honey purity.", nil),
		patent.New("P2", "Car engine", "An engine for automobiles.", nil),
	)
	q := embedQuery(t, emb, "Certification to measure honey quality.")

	results, err := TopK(q, idx, 1)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	if len(results) != 1 || results[0].ID() != "P1" {
		t.Fatalf("expected [P1], got %v", results)
	}

	all, _ := TopK(q, idx, 2)
	if all[0].Score() <= all[1].Score() || all[0].Score() <= 0.2 {
		t.Errorf("expected P1 to clearly outscore P2: %f vs %f", all[0].Score(), all[1].Score())
	}
}

func TestTopK_ConcurrentReaders(t *testing.T) {
	idx, emb := buildIndex(t, sampleCorpus()...)
	q := embedQuery(t, emb, "bees and hives")
	want, _ := TopK(q, idx, 3)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := TopK(q, idx, 3)
			if err != nil {
				errs <- err.Error()
				return
			}
			for i := range want {
				if got[i].ID() != want[i].ID() {
					errs <- "order differs under concurrency"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
