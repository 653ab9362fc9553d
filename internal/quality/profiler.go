// Package quality computes per-column and dataset-level completeness,
// uniqueness and cardinality statistics.
package quality

import (
	"strings"

	"datalens/domain/analysis"
	"datalens/domain/dataset"
)

// Profiler builds a QualityProfile. It never mutates the dataset.
type Profiler struct{}

// NewProfiler creates a quality profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

// Profile computes the per-column records and the dataset summary.
func (p *Profiler) Profile(ds *dataset.Dataset, roles dataset.RoleMap) analysis.QualityProfile {
	rowCount := ds.RowCount()
	columns := make([]analysis.ColumnQuality, 0, ds.ColumnCount())

	totalMissing := 0
	for _, col := range ds.Columns() {
		missing := col.MissingCount()
		totalMissing += missing

		nonMissing := rowCount - missing
		distinct := distinctCount(col)

		record := analysis.ColumnQuality{
			Column:        col.Name,
			InferredRole:  roles[col.Name],
			MissingCount:  missing,
			DistinctCount: distinct,
		}
		if rowCount > 0 {
			record.MissingRatio = float64(missing) / float64(rowCount)
		}
		// A fully-missing column has distinct_ratio 0, not NaN.
		if nonMissing > 0 {
			record.DistinctRatio = float64(distinct) / float64(nonMissing)
		}
		columns = append(columns, record)
	}

	summary := analysis.DatasetQuality{
		RowCount:      rowCount,
		ColumnCount:   ds.ColumnCount(),
		DuplicateRows: duplicateRows(ds),
	}
	totalCells := rowCount * ds.ColumnCount()
	if totalCells > 0 {
		summary.OverallCompleteness = 1 - float64(totalMissing)/float64(totalCells)
	} else {
		summary.OverallCompleteness = 1
	}

	return analysis.QualityProfile{Columns: columns, Summary: summary}
}

func distinctCount(col dataset.Column) int {
	seen := make(map[string]bool)
	for _, v := range col.Values {
		if dataset.IsMissing(v) {
			continue
		}
		seen[v] = true
	}
	return len(seen)
}

// duplicateRows counts rows that are exact repeats of an earlier row.
func duplicateRows(ds *dataset.Dataset) int {
	if ds.ColumnCount() == 0 {
		return 0
	}
	seen := make(map[string]bool, ds.RowCount())
	duplicates := 0
	var sb strings.Builder
	for row := 0; row < ds.RowCount(); row++ {
		sb.Reset()
		for _, col := range ds.Columns() {
			sb.WriteString(col.Values[row])
			sb.WriteByte('\x1f')
		}
		key := sb.String()
		if seen[key] {
			duplicates++
		}
		seen[key] = true
	}
	return duplicates
}
