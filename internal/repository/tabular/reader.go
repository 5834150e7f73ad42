// Package tabular reads corpus tables from CSV, Excel and Parquet files.
package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kailas-cloud/patentcompass/internal/domain"
)

// ErrUnsupportedFormat signals a file extension with no reader.
var ErrUnsupportedFormat = errors.New("unsupported corpus format")

const utf8BOM = "\ufeff"

// FileSource reads a corpus table from a .csv, .xlsx, .xlsm or .parquet file.
type FileSource struct {
	path  string
	sheet string
}

// NewFileSource creates a file source. sheet selects the worksheet of Excel
// files; empty means the first sheet.
func NewFileSource(path, sheet string) *FileSource {
	return &FileSource{path: path, sheet: sheet}
}

// Read implements catalog.Source.
func (s *FileSource) Read(ctx context.Context) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".csv":
		return readCSVFile(s.path)
	case ".xlsx", ".xlsm":
		return readExcelFile(s.path, s.sheet)
	case ".parquet":
		return readParquetFile(s.path)
	default:
		return domain.Table{}, fmt.Errorf("%s: %w", s.path, ErrUnsupportedFormat)
	}
}

// StaticSource serves an in-memory table.
type StaticSource struct {
	table domain.Table
}

// NewStaticSource creates a source over header and rows.
func NewStaticSource(header []string, rows [][]string) *StaticSource {
	return &StaticSource{table: domain.Table{Header: header, Rows: rows}}
}

// Read implements catalog.Source.
func (s *StaticSource) Read(context.Context) (domain.Table, error) {
	return s.table, nil
}

func readCSVFile(path string) (domain.Table, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return domain.Table{}, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses a CSV stream whose first record is the header.
// Rows may have varying lengths.
func ReadCSV(r io.Reader) (domain.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("parse csv: %w", err)
	}
	return toTable(records), nil
}

func readExcelFile(path, sheet string) (domain.Table, error) {
	f, err := excelize.OpenFile(filepath.Clean(path))
	if err != nil {
		return domain.Table{}, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

// ReadExcel parses the given worksheet (first sheet when empty) of an xlsx stream.
func ReadExcel(r io.Reader, sheet string) (domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) (domain.Table, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return domain.Table{}, nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return toTable(rows), nil
}

func toTable(records [][]string) domain.Table {
	if len(records) == 0 {
		return domain.Table{}
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return domain.Table{Header: header, Rows: records[1:]}
}
