// Package distribution characterizes the shape of numeric columns and the
// frequency skew of categorical columns, and fits linear trends over row
// order.
package distribution

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"datalens/domain/analysis"
	"datalens/domain/dataset"
)

// trendSlopeFloor is the smallest absolute slope worth reporting.
const trendSlopeFloor = 0.001

// histogramBins is the bucket count for numeric histograms.
const histogramBins = 10

// topValueLimit caps how many categorical values each distribution lists.
const topValueLimit = 10

// Analyzer computes DistributionSummary for one dataset.
type Analyzer struct{}

// New creates a distribution analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze walks the columns by role. Missing values are ignored throughout.
func (a *Analyzer) Analyze(ds *dataset.Dataset, roles dataset.RoleMap) analysis.DistributionSummary {
	var summary analysis.DistributionSummary

	for _, col := range ds.Columns() {
		switch roles[col.Name] {
		case dataset.RoleNumeric:
			values, _ := col.NumericValues()
			if len(values) == 0 {
				continue
			}
			summary.Numeric = append(summary.Numeric, numericDistribution(col, values))
			if trend, ok := fitTrend(col, values); ok {
				summary.Trends = append(summary.Trends, trend)
			}
		case dataset.RoleCategorical, dataset.RoleBoolean:
			nonMissing := col.NonMissing()
			if len(nonMissing) == 0 {
				continue
			}
			summary.Categorical = append(summary.Categorical, categoricalDistribution(col, nonMissing))
		}
	}

	return summary
}

func numericDistribution(col dataset.Column, values []float64) analysis.NumericDistribution {
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	std, _ := stats.StandardDeviation(values)
	minVal, _ := stats.Min(values)
	maxVal, _ := stats.Max(values)

	skewness := calculateSkewness(values, mean, std)
	kurtosis := calculateKurtosis(values, mean, std)

	return analysis.NumericDistribution{
		Column:    col.Name,
		Mean:      mean,
		Median:    median,
		Std:       std,
		Skewness:  skewness,
		Kurtosis:  kurtosis,
		Min:       minVal,
		Max:       maxVal,
		SkewLabel: interpretSkew(skewness),
		TailLabel: interpretKurtosis(kurtosis),
		Histogram: histogram(values, minVal, maxVal),
	}
}

// histogram buckets values into equal-width bins over [min, max]. A column
// with no spread collapses to a single bin.
func histogram(values []float64, minVal, maxVal float64) []analysis.Bin {
	if len(values) == 0 {
		return nil
	}
	if maxVal == minVal {
		return []analysis.Bin{{Lower: minVal, Upper: maxVal, Count: len(values)}}
	}

	width := (maxVal - minVal) / histogramBins
	bins := make([]analysis.Bin, histogramBins)
	for i := range bins {
		bins[i].Lower = minVal + float64(i)*width
		bins[i].Upper = minVal + float64(i+1)*width
	}
	bins[histogramBins-1].Upper = maxVal

	for _, v := range values {
		idx := int((v - minVal) / width)
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		bins[idx].Count++
	}
	return bins
}

// calculateSkewness computes the third-moment skewness estimator. Defined
// as 0 when the standard deviation is 0.
func calculateSkewness(values []float64, mean, std float64) float64 {
	if len(values) < 3 || std == 0 {
		return 0
	}
	n := float64(len(values))
	sumCubed := 0.0
	for _, x := range values {
		z := (x - mean) / std
		sumCubed += z * z * z
	}
	return sumCubed / n
}

// calculateKurtosis computes excess kurtosis. Defined as 0 when the
// standard deviation is 0.
func calculateKurtosis(values []float64, mean, std float64) float64 {
	if len(values) < 4 || std == 0 {
		return 0
	}
	n := float64(len(values))
	sumFourth := 0.0
	for _, x := range values {
		z := (x - mean) / std
		sumFourth += z * z * z * z
	}
	return sumFourth/n - 3
}

func interpretSkew(skewness float64) string {
	switch {
	case math.Abs(skewness) < 0.5:
		return "approximately symmetric"
	case skewness > 0:
		return "right-skewed"
	default:
		return "left-skewed"
	}
}

func interpretKurtosis(kurtosis float64) string {
	switch {
	case math.Abs(kurtosis) < 0.5:
		return "normal tails"
	case kurtosis > 0:
		return "heavy-tailed"
	default:
		return "light-tailed"
	}
}

func categoricalDistribution(col dataset.Column, nonMissing []string) analysis.CategoricalDistribution {
	counts := make(map[string]int, len(nonMissing))
	// First-encountered value wins on frequency ties, keeping the mode
	// deterministic.
	order := make([]string, 0, len(nonMissing))
	for _, v := range nonMissing {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	mode := ""
	best := 0
	for _, v := range order {
		if counts[v] > best {
			mode = v
			best = counts[v]
		}
	}

	ratio := float64(best) / float64(len(nonMissing))
	return analysis.CategoricalDistribution{
		Column:             col.Name,
		Mode:               mode,
		ModeFrequencyRatio: ratio,
		DistinctCount:      len(order),
		DominanceLabel:     interpretDominance(mode, ratio),
		TopValues:          topValues(counts, order),
	}
}

// topValues ranks values by count, first-encountered order on ties.
func topValues(counts map[string]int, order []string) []analysis.ValueCount {
	ranked := make([]analysis.ValueCount, 0, len(order))
	for _, v := range order {
		ranked = append(ranked, analysis.ValueCount{Value: v, Count: counts[v]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > topValueLimit {
		ranked = ranked[:topValueLimit]
	}
	return ranked
}

func interpretDominance(mode string, ratio float64) string {
	switch {
	case ratio > 0.8:
		return fmt.Sprintf("heavily dominated by %q", mode)
	case ratio > 0.5:
		return fmt.Sprintf("moderately dominated by %q", mode)
	default:
		return "well distributed across categories"
	}
}

// fitTrend regresses the column's non-missing values against their ordinal
// position. Trends shallower than trendSlopeFloor are not reported.
func fitTrend(col dataset.Column, values []float64) (analysis.TrendSummary, bool) {
	if len(values) < 3 {
		return analysis.TrendSummary{}, false
	}

	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, values, nil, false)
	if math.IsNaN(slope) || math.Abs(slope) <= trendSlopeFloor {
		return analysis.TrendSummary{}, false
	}

	direction := "Increasing"
	if slope < 0 {
		direction = "Decreasing"
	}
	return analysis.TrendSummary{
		Column:      col.Name,
		Slope:       slope,
		Description: fmt.Sprintf("%s trend (slope: %.3f)", direction, slope),
	}, true
}
