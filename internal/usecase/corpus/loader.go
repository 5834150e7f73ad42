// Package corpus normalizes raw tabular rows into typed patent records.
package corpus

import (
	"strings"

	"github.com/kailas-cloud/patentcompass/internal/domain"
	"github.com/kailas-cloud/patentcompass/internal/domain/patent"
)

// Logical column names, compared after lowercasing and trimming.
const (
	ColumnID       = "publication number"
	ColumnTitle    = "title (original language)"
	ColumnAbstract = "abstract (original language)"
)

// RequiredColumns lists the columns every corpus source must provide.
var RequiredColumns = []string{ColumnID, ColumnTitle, ColumnAbstract}

// Loader converts tables into patent records.
type Loader struct {
	imageRef patent.ImageRefFunc
}

// NewLoader creates a loader. imageRef may be nil, leaving image references empty.
func NewLoader(imageRef patent.ImageRefFunc) *Loader {
	return &Loader{imageRef: imageRef}
}

// Load validates the header and returns one record per row, in row order.
// Blank cells become empty strings. Duplicate publication numbers are a schema error.
func (l *Loader) Load(t domain.Table) ([]patent.Record, error) {
	cols := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		name := normalizeHeader(h)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.SchemaError{Missing: missing}
	}

	idCol, titleCol, absCol := cols[ColumnID], cols[ColumnTitle], cols[ColumnAbstract]

	records := make([]patent.Record, 0, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))
	var dups []string
	for i := range t.Rows {
		id := strings.TrimSpace(t.Cell(i, idCol))
		if id != "" {
			if _, ok := seen[id]; ok {
				dups = append(dups, id)
			}
			seen[id] = struct{}{}
		}
		records = append(records, patent.New(
			id,
			strings.TrimSpace(t.Cell(i, titleCol)),
			strings.TrimSpace(t.Cell(i, absCol)),
			l.imageRef,
		))
	}
	if len(dups) > 0 {
		return nil, &domain.SchemaError{Duplicates: dups}
	}

	return records, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
