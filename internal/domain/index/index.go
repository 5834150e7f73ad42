// Package index holds the immutable in-memory corpus index: patent records
// paired index-for-index with their description embeddings.
package index

import (
	"context"
	"fmt"
	"math"

	"github.com/kailas-cloud/patentcompass/internal/domain"
	"github.com/kailas-cloud/patentcompass/internal/domain/patent"
)

// Index is the ordered sequence of (record, vector) pairs. It is never mutated
// after Build returns and is safe for concurrent readers without locking.
type Index struct {
	records []patent.Record
	vectors [][]float32
	norms   []float64
	byID    map[string]int
	dim     int
}

// Build embeds every record description with a single batch call and pairs the
// vectors with the records in input order.
func Build(ctx context.Context, records []patent.Record, embedder domain.Embedder) (*Index, error) {
	idx := &Index{
		records: make([]patent.Record, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	copy(idx.records, records)

	if len(records) == 0 {
		return idx, nil
	}

	texts := make([]string, len(records))
	for i := range records {
		texts[i] = records[i].Description()
	}

	res, err := domain.EmbedMany(ctx, embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(res.Embeddings) != len(records) {
		return nil, fmt.Errorf("embed corpus: got %d vectors for %d records: %w",
			len(res.Embeddings), len(records), domain.ErrVectorDimMismatch)
	}

	idx.dim = len(res.Embeddings[0])
	if idx.dim == 0 {
		return nil, fmt.Errorf("embed corpus: zero-length vector: %w", domain.ErrVectorDimMismatch)
	}

	idx.vectors = make([][]float32, len(records))
	idx.norms = make([]float64, len(records))
	for i, v := range res.Embeddings {
		if len(v) != idx.dim {
			return nil, fmt.Errorf("embed corpus: record %d has %d dimensions, want %d: %w",
				i, len(v), idx.dim, domain.ErrVectorDimMismatch)
		}
		vec := make([]float32, len(v))
		copy(vec, v)
		idx.vectors[i] = vec
		idx.norms[i] = norm(vec)
	}

	for i := range idx.records {
		id := idx.records[i].ID()
		if id == "" {
			continue
		}
		if _, seen := idx.byID[id]; !seen {
			idx.byID[id] = i
		}
	}

	return idx, nil
}

// Len returns the number of records.
func (x *Index) Len() int { return len(x.records) }

// Dimensions returns the vector dimension D, or 0 for an empty index.
func (x *Index) Dimensions() int { return x.dim }

// Record returns the record at position i.
func (x *Index) Record(i int) patent.Record { return x.records[i] }

// Lookup returns the record with the given publication number.
func (x *Index) Lookup(id string) (patent.Record, bool) {
	i, ok := x.byID[id]
	if !ok {
		return patent.Record{}, false
	}
	return x.records[i], true
}

// Similarities returns the cosine similarity of query against every record, in
// index order. A zero-norm query or record vector scores 0.
func (x *Index) Similarities(query []float32) ([]float64, error) {
	scores := make([]float64, len(x.records))
	if len(x.records) == 0 {
		return scores, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(query), x.dim, domain.ErrVectorDimMismatch)
	}

	qn := norm(query)
	if qn == 0 {
		return scores, nil
	}

	for i, v := range x.vectors {
		if x.norms[i] == 0 {
			continue
		}
		scores[i] = clamp(dot(query, v) / (qn * x.norms[i]))
	}
	return scores, nil
}

// Cosine computes the cosine similarity of two equal-length vectors, 0 when
// either has zero norm.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("cosine of %d and %d dimensions: %w", len(a), len(b), domain.ErrVectorDimMismatch)
	}
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return clamp(dot(a, b) / (na * nb)), nil
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func norm(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}

// clamp keeps rounding error from pushing scores outside [-1, 1].
func clamp(s float64) float64 {
	return math.Max(-1, math.Min(1, s))
}
