// Package outliers flags anomalous numeric values with the IQR fence rule.
package outliers

import (
	"github.com/montanaflynn/stats"

	"datalens/domain/analysis"
	"datalens/domain/dataset"
	"datalens/internal/config"
	"datalens/internal/typeinfer"
)

// Detector applies the IQR rule per numeric column, independently.
type Detector struct {
	multiplier float64
}

// New creates a Detector from cfg.
func New(cfg config.AnalysisConfig) *Detector {
	return &Detector{multiplier: cfg.OutlierIQRMultiplier}
}

// Detect returns, per numeric column, the fence pair and the flagged row
// indices. Missing values are never flagged. Flagging is strict inequality
// against the fences, so a constant column (IQR = 0) reports zero outliers
// at any scale.
func (d *Detector) Detect(ds *dataset.Dataset, roles dataset.RoleMap) analysis.OutlierSet {
	var result analysis.OutlierSet

	for _, name := range typeinfer.NumericColumns(ds, roles) {
		col, _ := ds.Column(name)
		values, rows := col.NumericValues()

		report := analysis.ColumnOutliers{Column: name}
		if len(values) > 0 {
			q1, err1 := stats.Percentile(values, 25)
			q3, err3 := stats.Percentile(values, 75)
			if err1 == nil && err3 == nil {
				iqr := q3 - q1
				report.LowerFence = q1 - d.multiplier*iqr
				report.UpperFence = q3 + d.multiplier*iqr
				for i, v := range values {
					if v < report.LowerFence || v > report.UpperFence {
						report.Rows = append(report.Rows, rows[i])
					}
				}
			}
		}
		result.Columns = append(result.Columns, report)
	}

	return result
}
