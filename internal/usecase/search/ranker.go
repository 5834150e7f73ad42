package search

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/patentcompass/internal/domain"
	"github.com/kailas-cloud/patentcompass/internal/domain/index"
	"github.com/kailas-cloud/patentcompass/internal/domain/search/result"
)

// TopK scores every record of idx against query and returns the k best,
// highest score first. Equal scores keep corpus order. k larger than the
// corpus returns the whole corpus ranked; k == 0 or an empty corpus returns
// an empty slice. idx is only read.
func TopK(query []float32, idx *index.Index, k int) ([]result.Result, error) {
	if k < 0 {
		return nil, fmt.Errorf("k=%d: %w", k, domain.ErrInvalidK)
	}
	if k == 0 || idx.Len() == 0 {
		return []result.Result{}, nil
	}

	scores, err := idx.Similarities(query)
	if err != nil {
		return nil, fmt.Errorf("similarities: %w", err)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}

	results := make([]result.Result, k)
	for i, pos := range order[:k] {
		results[i] = result.New(idx.Record(pos), scores[pos])
	}
	return results, nil
}
