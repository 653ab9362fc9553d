package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/domain/analysis"
	"datalens/domain/core"
	"datalens/internal/config"
)

func cleanQuality(rows int) analysis.QualityProfile {
	return analysis.QualityProfile{
		Summary: analysis.DatasetQuality{
			RowCount:            rows,
			ColumnCount:         2,
			OverallCompleteness: 1.0,
		},
	}
}

func synthesize(t *testing.T, quality analysis.QualityProfile, correlation analysis.CorrelationResult, outliers analysis.OutlierSet, distribution analysis.DistributionSummary, clusters analysis.ClusterResult) []analysis.Insight {
	t.Helper()
	return New(config.DefaultAnalysisConfig()).Synthesize(quality, correlation, outliers, distribution, clusters)
}

func TestSynthesize_EmptyResultsYieldNoInsights(t *testing.T) {
	insights := synthesize(t, cleanQuality(100), analysis.CorrelationResult{}, analysis.OutlierSet{}, analysis.DistributionSummary{}, analysis.ClusterResult{})
	assert.Empty(t, insights)
}

func TestSynthesize_LowCompleteness(t *testing.T) {
	quality := cleanQuality(100)
	quality.Summary.OverallCompleteness = 0.6 // deficit 0.3 -> high

	insights := synthesize(t, quality, analysis.CorrelationResult{}, analysis.OutlierSet{}, analysis.DistributionSummary{}, analysis.ClusterResult{})

	require.Len(t, insights, 1)
	assert.Equal(t, analysis.CategoryQuality, insights[0].Category)
	assert.Equal(t, analysis.SeverityHigh, insights[0].Severity)
	assert.Contains(t, insights[0].Message, "60.0% complete")
}

func TestSynthesize_DuplicatesOnlyWhenCompletenessPasses(t *testing.T) {
	quality := cleanQuality(100)
	quality.Summary.DuplicateRows = 20

	insights := synthesize(t, quality, analysis.CorrelationResult{}, analysis.OutlierSet{}, analysis.DistributionSummary{}, analysis.ClusterResult{})

	require.Len(t, insights, 1)
	assert.Equal(t, analysis.CategoryQuality, insights[0].Category)
	assert.Equal(t, analysis.SeverityMedium, insights[0].Severity)
	assert.Contains(t, insights[0].Message, "20 duplicate rows")

	// When completeness fails too, only the completeness finding survives.
	quality.Summary.OverallCompleteness = 0.5
	insights = synthesize(t, quality, analysis.CorrelationResult{}, analysis.OutlierSet{}, analysis.DistributionSummary{}, analysis.ClusterResult{})
	require.Len(t, insights, 1)
	assert.Contains(t, insights[0].Message, "complete")
}

func TestSynthesize_StrongCorrelationSeverityBands(t *testing.T) {
	correlation := analysis.CorrelationResult{
		Columns: []core.ColumnKey{"a", "b", "c"},
		StrongPairs: []analysis.StrongPair{
			{X: "a", Y: "b", R: 0.95},
			{X: "a", Y: "c", R: -0.82},
			{X: "b", Y: "c", R: 0.71},
		},
	}

	insights := synthesize(t, cleanQuality(50), correlation, analysis.OutlierSet{}, analysis.DistributionSummary{}, analysis.ClusterResult{})

	require.Len(t, insights, 3)
	assert.Equal(t, analysis.SeverityHigh, insights[0].Severity)
	assert.Equal(t, analysis.SeverityMedium, insights[1].Severity)
	assert.Equal(t, analysis.SeverityLow, insights[2].Severity)
	assert.Equal(t, "a~b", string(insights[0].Column))
	assert.Contains(t, insights[1].Message, "negative")
}

func TestSynthesize_OutlierRatioBands(t *testing.T) {
	rows := make([]int, 25) // 25% of 100 rows, 5x the floor -> high
	outliers := analysis.OutlierSet{Columns: []analysis.ColumnOutliers{
		{Column: "spiky", Rows: rows, LowerFence: 0, UpperFence: 10},
		{Column: "calm", Rows: []int{1}}, // 1% <= floor, no insight
	}}

	insights := synthesize(t, cleanQuality(100), analysis.CorrelationResult{}, outliers, analysis.DistributionSummary{}, analysis.ClusterResult{})

	require.Len(t, insights, 1)
	assert.Equal(t, analysis.CategoryOutlier, insights[0].Category)
	assert.Equal(t, analysis.SeverityHigh, insights[0].Severity)
	assert.Equal(t, "spiky", string(insights[0].Column))
}

func TestSynthesize_SkewAndDominance(t *testing.T) {
	distribution := analysis.DistributionSummary{
		Numeric: []analysis.NumericDistribution{
			{Column: "income", Skewness: 2.5, SkewLabel: "right-skewed"}, // 2.5x floor -> medium
			{Column: "height", Skewness: 0.3, SkewLabel: "approximately symmetric"},
		},
		Categorical: []analysis.CategoricalDistribution{
			{Column: "country", Mode: "US", ModeFrequencyRatio: 0.92},
			{Column: "color", Mode: "red", ModeFrequencyRatio: 0.4},
		},
	}

	insights := synthesize(t, cleanQuality(100), analysis.CorrelationResult{}, analysis.OutlierSet{}, distribution, analysis.ClusterResult{})

	require.Len(t, insights, 2)
	assert.Equal(t, analysis.SeverityMedium, insights[0].Severity)
	assert.Equal(t, "income", string(insights[0].Column))
	assert.Equal(t, analysis.SeverityLow, insights[1].Severity)
	assert.Equal(t, "country", string(insights[1].Column))
}

func TestSynthesize_PatternRequiresApplicableAndVariance(t *testing.T) {
	clusters := analysis.ClusterResult{
		Applicable:             true,
		ClusterCount:           3,
		ExplainedVarianceRatio: [2]float64{0.55, 0.30}, // 0.85 -> high
	}

	insights := synthesize(t, cleanQuality(100), analysis.CorrelationResult{}, analysis.OutlierSet{}, analysis.DistributionSummary{}, clusters)
	require.Len(t, insights, 1)
	assert.Equal(t, analysis.CategoryPattern, insights[0].Category)
	assert.Equal(t, analysis.SeverityHigh, insights[0].Severity)
	assert.Contains(t, insights[0].Message, "3 groups")

	clusters.Applicable = false
	assert.Empty(t, synthesize(t, cleanQuality(100), analysis.CorrelationResult{}, analysis.OutlierSet{}, analysis.DistributionSummary{}, clusters))

	clusters.Applicable = true
	clusters.ExplainedVarianceRatio = [2]float64{0.3, 0.1}
	assert.Empty(t, synthesize(t, cleanQuality(100), analysis.CorrelationResult{}, analysis.OutlierSet{}, analysis.DistributionSummary{}, clusters))
}

func TestSynthesize_IdentifierColumn(t *testing.T) {
	quality := cleanQuality(100)
	quality.Columns = []analysis.ColumnQuality{
		{Column: "user_id", InferredRole: "text", DistinctRatio: 1.0},
		{Column: "notes", InferredRole: "text", DistinctRatio: 0.5},
	}

	insights := synthesize(t, quality, analysis.CorrelationResult{}, analysis.OutlierSet{}, analysis.DistributionSummary{}, analysis.ClusterResult{})

	require.Len(t, insights, 1)
	assert.Equal(t, "user_id", string(insights[0].Column))
	assert.Contains(t, insights[0].Message, "unique identifier")
}

func TestSynthesize_OrderingAndTieBreaks(t *testing.T) {
	quality := cleanQuality(100)
	quality.Summary.OverallCompleteness = 0.85 // low severity (deficit 0.05)

	outlierRows := make([]int, 30)
	outliers := analysis.OutlierSet{Columns: []analysis.ColumnOutliers{
		{Column: "x", Rows: outlierRows}, // high
	}}
	correlation := analysis.CorrelationResult{
		Columns:     []core.ColumnKey{"x", "y"},
		StrongPairs: []analysis.StrongPair{{X: "x", Y: "y", R: 0.95}}, // high
	}

	insights := synthesize(t, quality, correlation, outliers, analysis.DistributionSummary{}, analysis.ClusterResult{})

	require.Len(t, insights, 3)
	// Severity first; outlier beats correlation on the high tie.
	assert.Equal(t, analysis.CategoryOutlier, insights[0].Category)
	assert.Equal(t, analysis.CategoryCorrelation, insights[1].Category)
	assert.Equal(t, analysis.CategoryQuality, insights[2].Category)
}

func TestSynthesize_DeduplicatesPerCategoryAndColumn(t *testing.T) {
	correlation := analysis.CorrelationResult{
		Columns: []core.ColumnKey{"a", "b"},
		StrongPairs: []analysis.StrongPair{
			{X: "a", Y: "b", R: 0.95},
			{X: "a", Y: "b", R: 0.95},
		},
	}

	insights := synthesize(t, cleanQuality(50), correlation, analysis.OutlierSet{}, analysis.DistributionSummary{}, analysis.ClusterResult{})
	assert.Len(t, insights, 1)
}
