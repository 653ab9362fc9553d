package analysis

import (
	"datalens/domain/core"
	"datalens/domain/dataset"
)

// ColumnQuality holds per-column completeness and cardinality statistics.
type ColumnQuality struct {
	Column        core.ColumnKey     `json:"column"`
	InferredRole  dataset.ColumnRole `json:"inferred_role"`
	MissingCount  int                `json:"missing_count"`
	MissingRatio  float64            `json:"missing_ratio"`
	DistinctCount int                `json:"distinct_count"`
	DistinctRatio float64            `json:"distinct_ratio"`
}

// DatasetQuality is the dataset-level quality summary.
type DatasetQuality struct {
	RowCount            int     `json:"row_count"`
	ColumnCount         int     `json:"column_count"`
	OverallCompleteness float64 `json:"overall_completeness"`
	DuplicateRows       int     `json:"duplicate_rows"`
}

// QualityProfile is the full output of the quality profiler.
type QualityProfile struct {
	Columns []ColumnQuality `json:"columns"`
	Summary DatasetQuality  `json:"summary"`
}

// StrongPair is a pair of numeric columns whose absolute correlation
// exceeds the configured threshold.
type StrongPair struct {
	X core.ColumnKey `json:"x"`
	Y core.ColumnKey `json:"y"`
	R float64        `json:"r"`
}

// CorrelationResult holds the symmetric Pearson matrix over numeric columns
// plus the strong pairs sorted by descending absolute strength. An empty
// Columns slice means correlation was not applicable; Note says why.
type CorrelationResult struct {
	Columns     []core.ColumnKey `json:"columns"`
	Matrix      [][]float64      `json:"matrix"`
	StrongPairs []StrongPair     `json:"strong_pairs"`
	// ExcludedPairs had too few jointly-valid rows for a stable estimate;
	// their matrix cells are zero.
	ExcludedPairs [][2]core.ColumnKey `json:"excluded_pairs,omitempty"`
	Note          string              `json:"note,omitempty"`
}

// Applicable reports whether any correlations were computed.
func (r CorrelationResult) Applicable() bool { return len(r.Columns) >= 2 }

// At returns the correlation between two columns if both are present.
func (r CorrelationResult) At(x, y core.ColumnKey) (float64, bool) {
	xi, yi := -1, -1
	for i, col := range r.Columns {
		if col == x {
			xi = i
		}
		if col == y {
			yi = i
		}
	}
	if xi < 0 || yi < 0 {
		return 0, false
	}
	return r.Matrix[xi][yi], true
}

// ColumnOutliers records the IQR fences and flagged row indices for one
// numeric column.
type ColumnOutliers struct {
	Column     core.ColumnKey `json:"column"`
	LowerFence float64        `json:"lower_fence"`
	UpperFence float64        `json:"upper_fence"`
	Rows       []int          `json:"rows"`
}

// OutlierSet is the per-column outlier report, ordered by column position.
type OutlierSet struct {
	Columns []ColumnOutliers `json:"columns"`
}

// Bin is one histogram bucket over a numeric column.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// NumericDistribution characterizes the shape of one numeric column.
type NumericDistribution struct {
	Column   core.ColumnKey `json:"column"`
	Mean     float64        `json:"mean"`
	Median   float64        `json:"median"`
	Std      float64        `json:"std"`
	Skewness float64        `json:"skewness"`
	Kurtosis float64        `json:"kurtosis"`
	Min      float64        `json:"min"`
	Max      float64        `json:"max"`
	// Interpretation bands for presentation.
	SkewLabel string `json:"skew_label"`
	TailLabel string `json:"tail_label"`
	Histogram []Bin  `json:"histogram,omitempty"`
}

// ValueCount is one categorical value and its occurrence count.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalDistribution characterizes the frequency skew of one
// categorical column. The mode is the first-encountered value on ties.
type CategoricalDistribution struct {
	Column             core.ColumnKey `json:"column"`
	Mode               string         `json:"mode"`
	ModeFrequencyRatio float64        `json:"mode_frequency_ratio"`
	DistinctCount      int            `json:"distinct_count"`
	DominanceLabel     string         `json:"dominance_label"`
	// TopValues lists the most frequent values, highest count first.
	TopValues []ValueCount `json:"top_values,omitempty"`
}

// TrendSummary is a linear trend fitted over row order for one numeric
// column.
type TrendSummary struct {
	Column      core.ColumnKey `json:"column"`
	Slope       float64        `json:"slope"`
	Description string         `json:"description"`
}

// DistributionSummary is the full output of the distribution analyzer.
type DistributionSummary struct {
	Numeric     []NumericDistribution     `json:"numeric"`
	Categorical []CategoricalDistribution `json:"categorical"`
	Trends      []TrendSummary            `json:"trends"`
}

// Point2D is one row projected into the reduced 2D space.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ClusterResult is the output of pattern discovery: a 2D reduction plus a
// partition of the complete-case rows. Coordinates and labels are aligned
// to RowIndices, which maps back into the original dataset.
type ClusterResult struct {
	Applicable             bool             `json:"applicable"`
	Note                   string           `json:"note,omitempty"`
	ReducedCoordinates     []Point2D        `json:"reduced_coordinates"`
	ClusterLabels          []int            `json:"cluster_labels"`
	ExplainedVarianceRatio [2]float64       `json:"explained_variance_ratio"`
	ClusterCount           int              `json:"cluster_count"`
	RowIndices             []int            `json:"row_indices"`
	ExcludedRows           []int            `json:"excluded_rows"`
	DroppedColumns         []core.ColumnKey `json:"dropped_columns,omitempty"`
}

// InsightCategory tags which analyzer a finding came from.
type InsightCategory string

const (
	CategoryQuality      InsightCategory = "quality"
	CategoryCorrelation  InsightCategory = "correlation"
	CategoryOutlier      InsightCategory = "outlier"
	CategoryDistribution InsightCategory = "distribution"
	CategoryPattern      InsightCategory = "pattern"
)

// Severity ranks how much a finding deserves attention.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityRank orders severities for sorting, highest first.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// CategoryPriority breaks severity ties: outlier > correlation > quality >
// pattern > distribution.
func CategoryPriority(c InsightCategory) int {
	switch c {
	case CategoryOutlier:
		return 5
	case CategoryCorrelation:
		return 4
	case CategoryQuality:
		return 3
	case CategoryPattern:
		return 2
	case CategoryDistribution:
		return 1
	}
	return 0
}

// Insight is one synthesized, ranked finding. Column is empty for
// dataset-level findings.
type Insight struct {
	Category         InsightCategory `json:"category"`
	Severity         Severity        `json:"severity"`
	Column           core.ColumnKey  `json:"column,omitempty"`
	Message          string          `json:"message"`
	SupportingMetric float64         `json:"supporting_metric"`
}

// Report bundles everything one analysis run produced.
type Report struct {
	RunID        core.RunID                 `json:"run_id"`
	Roles        dataset.RoleMap            `json:"roles"`
	Quality      QualityProfile             `json:"quality"`
	Correlation  CorrelationResult          `json:"correlation"`
	Outliers     OutlierSet                 `json:"outliers"`
	Distribution DistributionSummary        `json:"distribution"`
	Clusters     ClusterResult              `json:"clusters"`
	Insights     []Insight                  `json:"insights"`
	Notes        map[InsightCategory]string `json:"notes,omitempty"`
}
