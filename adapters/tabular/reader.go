// Package tabular reads CSV and Excel files into in-memory datasets. This
// is the upload/parsing layer: it guarantees unique non-empty column names
// and a consistent row count before anything reaches the analysis engine.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"datalens/domain/core"
	"datalens/domain/dataset"
	apperrors "datalens/internal/errors"
)

// Reader decodes one tabular file into a Dataset.
type Reader struct{}

// NewReader creates a tabular reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read decodes the stream based on the file extension. Supported:
// .csv, .xlsx, .xls.
func (r *Reader) Read(src io.Reader, filename string) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return r.ReadCSV(src)
	case ".xlsx", ".xls":
		return r.ReadExcel(src)
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported file type %q", filepath.Ext(filename)))
	}
}

// ReadCSV decodes a CSV stream. The first record is the header row.
func (r *Reader) ReadCSV(src io.Reader) (*dataset.Dataset, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, pad below

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse CSV")
	}
	return fromRows(records)
}

// ReadExcel decodes the first sheet of an Excel workbook.
func (r *Reader) ReadExcel(src io.Reader) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.EmptyInput("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read sheet %q", sheets[0])
	}
	return fromRows(rows)
}

// fromRows converts header + data rows into columns. Blank headers get a
// positional name; duplicate headers get a numeric suffix so the dataset
// invariant of unique names holds.
func fromRows(rows [][]string) (*dataset.Dataset, error) {
	if len(rows) == 0 {
		return nil, apperrors.EmptyInput("file has no rows")
	}

	header := rows[0]
	if len(header) == 0 {
		return nil, apperrors.EmptyInput("file has no columns")
	}

	names := uniqueNames(header)
	columns := make([]dataset.Column, len(names))
	for i, name := range names {
		columns[i] = dataset.Column{
			Name:   name,
			Values: make([]string, 0, len(rows)-1),
		}
	}

	for _, row := range rows[1:] {
		for i := range columns {
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			columns[i].Values = append(columns[i].Values, cell)
		}
	}

	ds, err := dataset.New(columns)
	if err != nil {
		return nil, apperrors.Wrap(err, "invalid table structure")
	}
	return ds, nil
}

func uniqueNames(header []string) []core.ColumnKey {
	seen := make(map[string]bool, len(header))
	names := make([]core.ColumnKey, len(header))
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		base := name
		for n := 2; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[name] = true
		names[i] = core.ColumnKey(name)
	}
	return names
}
