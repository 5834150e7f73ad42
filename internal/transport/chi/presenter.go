package chi

import (
	"strconv"

	"github.com/kailas-cloud/patentcompass/internal/domain/patent"
	"github.com/kailas-cloud/patentcompass/internal/domain/search/result"
)

// Placeholder images for patents without an image reference.
const (
	CardPlaceholderImage   = "https://placehold.co/120x120/cccccc/000000?text=No+Image"
	DetailPlaceholderImage = "https://placehold.co/400x400/cccccc/000000?text=No+Disponible"
)

// NoResultsMessage accompanies an empty result list.
const NoResultsMessage = "No se encontraron patentes relevantes con la descripción proporcionada."

const defaultSummaryRunes = 120

func cardFromResult(r result.Result, summaryRunes int) PatentCard {
	rec := r.Record()
	return PatentCard{
		ID:         rec.ID(),
		Title:      rec.Title(),
		Summary:    summarize(rec.Abstract(), summaryRunes),
		ImageURL:   orPlaceholder(rec.ImageRef(), CardPlaceholderImage),
		Score:      r.Score(),
		Similarity: formatPercent(r.Score()),
	}
}

func detailFromRecord(rec patent.Record) PatentDetail {
	return PatentDetail{
		ID:       rec.ID(),
		Title:    rec.Title(),
		Abstract: rec.Abstract(),
		ImageURL: orPlaceholder(rec.ImageRef(), DetailPlaceholderImage),
	}
}

// summarize keeps the first n runes and always appends an ellipsis.
func summarize(s string, n int) string {
	if n <= 0 {
		n = defaultSummaryRunes
	}
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}

// formatPercent renders a cosine score as a percentage with two decimals.
func formatPercent(score float64) string {
	return strconv.FormatFloat(score*100, 'f', 2, 64) + "%"
}

func orPlaceholder(url, placeholder string) string {
	if url == "" {
		return placeholder
	}
	return url
}
