package domain

// Table is a raw tabular corpus source: a header row followed by data rows.
// Rows may be shorter than the header; missing cells read as empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cell returns row[col] or "" when the row is too short.
func (t Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
