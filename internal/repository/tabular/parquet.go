package tabular

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/patentcompass/internal/domain"
)

const parquetReadBatch = 1000

// listSeparator joins the values of a repeated column into one cell.
const listSeparator = "; "

func readParquetFile(path string) (domain.Table, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return domain.Table{}, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return domain.Table{}, fmt.Errorf("stat corpus: %w", err)
	}
	return ReadParquet(f, stat.Size())
}

// ReadParquet reads every row group of a parquet file into a table. Leaf
// column paths become the header, joined with "." for nested fields.
func ReadParquet(r io.ReaderAt, size int64) (domain.Table, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open parquet: %w", err)
	}

	columns := pf.Schema().Columns()
	header := make([]string, len(columns))
	for i, path := range columns {
		header[i] = strings.Join(path, ".")
	}

	var rows [][]string
	for _, rg := range pf.RowGroups() {
		rgRows, err := readRowGroup(rg, len(columns))
		if err != nil {
			return domain.Table{}, err
		}
		rows = append(rows, rgRows...)
	}

	return domain.Table{Header: header, Rows: rows}, nil
}

func readRowGroup(rg parquet.RowGroup, width int) ([][]string, error) {
	reader := parquet.NewRowGroupReader(rg)
	buf := make([]parquet.Row, parquetReadBatch)
	out := make([][]string, 0, rg.NumRows())

	for {
		n, readErr := reader.ReadRows(buf)
		for i := range n {
			out = append(out, rowToCells(buf[i], width))
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("read rows: %w", readErr)
		}
	}
}

// rowToCells flattens a generic parquet row by leaf column index.
// Null values read as empty cells.
func rowToCells(row parquet.Row, width int) []string {
	cells := make([]string, width)
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= width || v.IsNull() {
			continue
		}
		if cells[col] != "" {
			cells[col] += listSeparator
		}
		cells[col] += v.String()
	}
	return cells
}
