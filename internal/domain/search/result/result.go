package result

import "github.com/kailas-cloud/patentcompass/internal/domain/patent"

// Result is a single search hit. Transient: built per query, never persisted.
type Result struct {
	record patent.Record
	score  float64
}

// New creates a search result.
func New(record patent.Record, score float64) Result {
	return Result{record: record, score: score}
}

// Record returns the matched patent.
func (r *Result) Record() patent.Record { return r.record }

// ID returns the publication number of the matched patent.
func (r *Result) ID() string { return r.record.ID() }

// Score returns the cosine similarity in [-1, 1].
func (r *Result) Score() float64 { return r.score }
