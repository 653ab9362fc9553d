// Package patterns surfaces latent row groupings in the numeric subset of
// a dataset: standardize, reduce to two dimensions, partition into a small
// number of clusters. The whole pipeline is deterministically seeded, so
// repeated runs over the same input are bit-identical.
package patterns

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"datalens/domain/analysis"
	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal/config"
	"datalens/internal/typeinfer"
)

// Discoverer runs the standardize → reduce → cluster pipeline.
type Discoverer struct {
	minRows int
	maxK    int
	seed    int64
}

// New creates a Discoverer from cfg.
func New(cfg config.AnalysisConfig) *Discoverer {
	return &Discoverer{
		minRows: cfg.PatternMinRows,
		maxK:    cfg.ClusterCountMax,
		seed:    cfg.ClusterSeed,
	}
}

// Discover operates on row-wise complete cases of the numeric columns.
// Rows with any missing numeric value are excluded, never imputed. An
// inapplicable dataset yields Applicable=false with a reason, not an error.
func (d *Discoverer) Discover(ds *dataset.Dataset, roles dataset.RoleMap) analysis.ClusterResult {
	numeric := typeinfer.NumericColumns(ds, roles)
	if len(numeric) < 2 {
		return analysis.ClusterResult{Note: "fewer than 2 numeric columns; pattern discovery not applicable"}
	}

	rowIndices, excluded, raw := completeCases(ds, numeric)
	if len(rowIndices) < d.minRows {
		return analysis.ClusterResult{
			Note:         fmt.Sprintf("only %d complete rows, need at least %d", len(rowIndices), d.minRows),
			ExcludedRows: excluded,
		}
	}

	standardized, kept, dropped := standardize(raw, numeric)
	if len(kept) < 2 {
		return analysis.ClusterResult{
			Note:           "fewer than 2 numeric columns with non-zero variance",
			ExcludedRows:   excluded,
			DroppedColumns: dropped,
		}
	}

	coords, varianceRatio, ok := reduceTo2D(standardized, len(rowIndices), len(kept))
	if !ok {
		return analysis.ClusterResult{
			Note:           "dimensionality reduction failed to converge",
			ExcludedRows:   excluded,
			DroppedColumns: dropped,
		}
	}

	k := clusterCountFor(len(rowIndices), d.maxK)
	labels := kMeans(coords, k, d.seed)

	return analysis.ClusterResult{
		Applicable:             true,
		ReducedCoordinates:     coords,
		ClusterLabels:          labels,
		ExplainedVarianceRatio: varianceRatio,
		ClusterCount:           k,
		RowIndices:             rowIndices,
		ExcludedRows:           excluded,
		DroppedColumns:         dropped,
	}
}

// completeCases collects rows where every numeric column parses, returning
// the kept row indices, the excluded ones, and the values in column-major
// order aligned to the kept rows.
func completeCases(ds *dataset.Dataset, numeric []core.ColumnKey) (kept, excluded []int, values [][]float64) {
	parsed := make([]map[int]float64, len(numeric))
	for i, name := range numeric {
		col, _ := ds.Column(name)
		colValues, colRows := col.NumericValues()
		byRow := make(map[int]float64, len(colValues))
		for j, row := range colRows {
			byRow[row] = colValues[j]
		}
		parsed[i] = byRow
	}

	values = make([][]float64, len(numeric))
	for row := 0; row < ds.RowCount(); row++ {
		complete := true
		for _, byRow := range parsed {
			if _, ok := byRow[row]; !ok {
				complete = false
				break
			}
		}
		if !complete {
			excluded = append(excluded, row)
			continue
		}
		kept = append(kept, row)
		for i, byRow := range parsed {
			values[i] = append(values[i], byRow[row])
		}
	}
	return kept, excluded, values
}

// standardize scales each column to zero mean and unit variance, dropping
// columns whose variance is zero after complete-case filtering.
func standardize(values [][]float64, names []core.ColumnKey) (scaled [][]float64, kept, dropped []core.ColumnKey) {
	for i, colValues := range values {
		mean, std := stat.MeanStdDev(colValues, nil)
		if std == 0 || math.IsNaN(std) {
			dropped = append(dropped, names[i])
			continue
		}
		z := make([]float64, len(colValues))
		for j, v := range colValues {
			z[j] = (v - mean) / std
		}
		scaled = append(scaled, z)
		kept = append(kept, names[i])
	}
	return scaled, kept, dropped
}

// reduceTo2D projects the standardized matrix onto its first two principal
// components and reports how much variance they explain.
func reduceTo2D(columns [][]float64, rows, cols int) ([]analysis.Point2D, [2]float64, bool) {
	data := mat.NewDense(rows, cols, nil)
	for c, colValues := range columns {
		for r, v := range colValues {
			data.Set(r, c, v)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, [2]float64{}, false
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)
	_, vecCols := vectors.Dims()
	if vecCols < 2 {
		return nil, [2]float64{}, false
	}

	var projected mat.Dense
	projected.Mul(data, vectors.Slice(0, cols, 0, 2))

	coords := make([]analysis.Point2D, rows)
	for r := 0; r < rows; r++ {
		coords[r] = analysis.Point2D{X: projected.At(r, 0), Y: projected.At(r, 1)}
	}

	vars := pc.VarsTo(nil)
	total := 0.0
	for _, v := range vars {
		total += v
	}
	var ratio [2]float64
	if total > 0 {
		ratio[0] = vars[0] / total
		ratio[1] = vars[1] / total
	}
	return coords, ratio, true
}

// clusterCountFor derives the partition size from the data size, capped by
// configuration and by the row count itself.
func clusterCountFor(rows, maxK int) int {
	k := 2 + rows/25
	if k > maxK {
		k = maxK
	}
	if k > rows {
		k = rows
	}
	if k < 1 {
		k = 1
	}
	return k
}
