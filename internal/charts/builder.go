// Package charts turns raw analyzer results into renderable figure
// payloads. It is a pure consumer of the engine's output: it never touches
// dataset rows beyond what the results already embed.
package charts

import (
	"sort"

	"datalens/domain/analysis"
	"datalens/domain/core"
)

// Bar is one labeled bar.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// HeatmapCell is one cell of the correlation heatmap.
type HeatmapCell struct {
	X     core.ColumnKey `json:"x"`
	Y     core.ColumnKey `json:"y"`
	Value float64        `json:"value"`
}

// ScatterPoint is one clustered row in the reduced 2D space.
type ScatterPoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Cluster int     `json:"cluster"`
}

// RangeBar shows a column's fences against its observed span.
type RangeBar struct {
	Column     core.ColumnKey `json:"column"`
	LowerFence float64        `json:"lower_fence"`
	UpperFence float64        `json:"upper_fence"`
	Flagged    int            `json:"flagged"`
}

// Histogram is the binned distribution of one numeric column.
type Histogram struct {
	Column core.ColumnKey `json:"column"`
	Bins   []analysis.Bin `json:"bins"`
}

// CategoryChart lists the top value counts of one categorical column.
type CategoryChart struct {
	Column core.ColumnKey `json:"column"`
	Bars   []Bar          `json:"bars"`
}

// Figures bundles every renderable payload for one report.
type Figures struct {
	MissingValues  []Bar           `json:"missing_values"`
	Correlation    []HeatmapCell   `json:"correlation"`
	Histograms     []Histogram     `json:"histograms"`
	CategoryCharts []CategoryChart `json:"category_charts"`
	ClusterScatter []ScatterPoint  `json:"cluster_scatter"`
	OutlierRanges  []RangeBar      `json:"outlier_ranges"`
}

// Build assembles all figures from a finished report.
func Build(report *analysis.Report) Figures {
	return Figures{
		MissingValues:  MissingValuesBars(report.Quality),
		Correlation:    CorrelationHeatmap(report.Correlation),
		Histograms:     Histograms(report.Distribution),
		CategoryCharts: CategoryCharts(report.Distribution),
		ClusterScatter: ClusterScatter(report.Clusters),
		OutlierRanges:  OutlierRanges(report.Outliers),
	}
}

// Histograms carries each numeric column's bins through as a figure.
func Histograms(distribution analysis.DistributionSummary) []Histogram {
	var figures []Histogram
	for _, col := range distribution.Numeric {
		if len(col.Histogram) == 0 {
			continue
		}
		figures = append(figures, Histogram{Column: col.Column, Bins: col.Histogram})
	}
	return figures
}

// CategoryCharts renders each categorical column's top values as bars.
func CategoryCharts(distribution analysis.DistributionSummary) []CategoryChart {
	var figures []CategoryChart
	for _, col := range distribution.Categorical {
		if len(col.TopValues) == 0 {
			continue
		}
		bars := make([]Bar, len(col.TopValues))
		for i, vc := range col.TopValues {
			bars[i] = Bar{Label: vc.Value, Value: float64(vc.Count)}
		}
		figures = append(figures, CategoryChart{Column: col.Column, Bars: bars})
	}
	return figures
}

// MissingValuesBars lists columns with missing values as percentage bars,
// highest first. Columns with nothing missing are omitted.
func MissingValuesBars(quality analysis.QualityProfile) []Bar {
	var bars []Bar
	for _, col := range quality.Columns {
		if col.MissingCount == 0 {
			continue
		}
		bars = append(bars, Bar{Label: string(col.Column), Value: col.MissingRatio * 100})
	}
	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].Value != bars[j].Value {
			return bars[i].Value > bars[j].Value
		}
		return bars[i].Label < bars[j].Label
	})
	return bars
}

// CorrelationHeatmap flattens the symmetric matrix into cells.
func CorrelationHeatmap(result analysis.CorrelationResult) []HeatmapCell {
	var cells []HeatmapCell
	for i, x := range result.Columns {
		for j, y := range result.Columns {
			cells = append(cells, HeatmapCell{X: x, Y: y, Value: result.Matrix[i][j]})
		}
	}
	return cells
}

// ClusterScatter pairs each reduced coordinate with its cluster label.
func ClusterScatter(clusters analysis.ClusterResult) []ScatterPoint {
	if !clusters.Applicable {
		return nil
	}
	points := make([]ScatterPoint, len(clusters.ReducedCoordinates))
	for i, coord := range clusters.ReducedCoordinates {
		points[i] = ScatterPoint{X: coord.X, Y: coord.Y, Cluster: clusters.ClusterLabels[i]}
	}
	return points
}

// OutlierRanges summarizes each column's fences and flag count.
func OutlierRanges(outliers analysis.OutlierSet) []RangeBar {
	var bars []RangeBar
	for _, col := range outliers.Columns {
		bars = append(bars, RangeBar{
			Column:     col.Column,
			LowerFence: col.LowerFence,
			UpperFence: col.UpperFence,
			Flagged:    len(col.Rows),
		})
	}
	return bars
}
