// Package correlation computes pairwise linear association between numeric
// columns and flags strong relationships.
package correlation

import (
	"math"
	"sort"

	"datalens/domain/analysis"
	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal/config"
	"datalens/internal/typeinfer"
)

// Analyzer computes a symmetric Pearson matrix over the numeric subset.
type Analyzer struct {
	strongThreshold float64
	minRows         int
}

// New creates an Analyzer from cfg.
func New(cfg config.AnalysisConfig) *Analyzer {
	return &Analyzer{
		strongThreshold: cfg.CorrelationStrongThreshold,
		minRows:         cfg.CorrelationMinRows,
	}
}

// Analyze restricts to numeric-role columns. Fewer than two numeric columns
// is not an error: the dataset simply has no correlation findings.
func (a *Analyzer) Analyze(ds *dataset.Dataset, roles dataset.RoleMap) analysis.CorrelationResult {
	numeric := typeinfer.NumericColumns(ds, roles)
	if len(numeric) < 2 {
		return analysis.CorrelationResult{
			Note: "fewer than 2 numeric columns; correlation not applicable",
		}
	}

	// Parse each numeric column once, keyed by row index, so pairwise
	// deletion can intersect on jointly-valid rows.
	parsed := make(map[core.ColumnKey]map[int]float64, len(numeric))
	for _, name := range numeric {
		col, _ := ds.Column(name)
		values, rows := col.NumericValues()
		byRow := make(map[int]float64, len(values))
		for i, row := range rows {
			byRow[row] = values[i]
		}
		parsed[name] = byRow
	}

	n := len(numeric)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}

	result := analysis.CorrelationResult{Columns: numeric, Matrix: matrix}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			x, y := pairwiseComplete(parsed[numeric[i]], parsed[numeric[j]], ds.RowCount())
			if len(x) < a.minRows {
				result.ExcludedPairs = append(result.ExcludedPairs, [2]core.ColumnKey{numeric[i], numeric[j]})
				continue
			}
			r := pearson(x, y)
			matrix[i][j] = r
			matrix[j][i] = r

			if math.Abs(r) >= a.strongThreshold {
				result.StrongPairs = append(result.StrongPairs, analysis.StrongPair{
					X: numeric[i], Y: numeric[j], R: r,
				})
			}
		}
	}

	sort.SliceStable(result.StrongPairs, func(i, j int) bool {
		ai, aj := math.Abs(result.StrongPairs[i].R), math.Abs(result.StrongPairs[j].R)
		if ai != aj {
			return ai > aj
		}
		if result.StrongPairs[i].X != result.StrongPairs[j].X {
			return result.StrongPairs[i].X < result.StrongPairs[j].X
		}
		return result.StrongPairs[i].Y < result.StrongPairs[j].Y
	})

	return result
}

// pairwiseComplete intersects two sparse columns on rows where both hold a
// value, in row order.
func pairwiseComplete(xs, ys map[int]float64, rowCount int) ([]float64, []float64) {
	var x, y []float64
	for row := 0; row < rowCount; row++ {
		xv, okX := xs[row]
		yv, okY := ys[row]
		if okX && okY {
			x = append(x, xv)
			y = append(y, yv)
		}
	}
	return x, y
}

// pearson calculates the Pearson correlation coefficient.
func pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	n := float64(len(x))
	sumX, sumY := 0.0, 0.0
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	numerator := 0.0
	sumXX, sumYY := 0.0, 0.0
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		numerator += dx * dy
		sumXX += dx * dx
		sumYY += dy * dy
	}

	denominator := math.Sqrt(sumXX * sumYY)
	if denominator == 0 {
		return 0
	}

	r := numerator / denominator
	// Guard against float drift pushing past the valid range.
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return r
}
