// Package insights aggregates the analyzer outputs into a ranked list of
// discrete findings. Every other analyzer exists to feed this one.
package insights

import (
	"fmt"
	"math"
	"sort"

	"datalens/domain/analysis"
	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal/config"
)

// Synthesizer turns numeric analyzer results into Insight records via
// fixed, configured rules. It never fails; an empty list is a valid
// outcome.
type Synthesizer struct {
	cfg config.AnalysisConfig
}

// New creates a Synthesizer from cfg.
func New(cfg config.AnalysisConfig) *Synthesizer {
	return &Synthesizer{cfg: cfg}
}

// Synthesize applies every rule, deduplicates per (category, column) with
// first-wins, and sorts by severity descending, category priority on ties.
func (s *Synthesizer) Synthesize(
	quality analysis.QualityProfile,
	correlation analysis.CorrelationResult,
	outliers analysis.OutlierSet,
	distribution analysis.DistributionSummary,
	clusters analysis.ClusterResult,
) []analysis.Insight {
	var candidates []analysis.Insight

	candidates = append(candidates, s.qualityInsights(quality)...)
	candidates = append(candidates, s.correlationInsights(correlation)...)
	candidates = append(candidates, s.outlierInsights(outliers, quality.Summary.RowCount)...)
	candidates = append(candidates, s.distributionInsights(distribution)...)
	candidates = append(candidates, s.patternInsights(clusters)...)

	type key struct {
		category analysis.InsightCategory
		column   core.ColumnKey
	}
	seen := make(map[key]bool, len(candidates))
	deduped := candidates[:0]
	for _, ins := range candidates {
		k := key{ins.Category, ins.Column}
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, ins)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		si, sj := analysis.SeverityRank(deduped[i].Severity), analysis.SeverityRank(deduped[j].Severity)
		if si != sj {
			return si > sj
		}
		return analysis.CategoryPriority(deduped[i].Category) > analysis.CategoryPriority(deduped[j].Category)
	})

	return deduped
}

func (s *Synthesizer) qualityInsights(quality analysis.QualityProfile) []analysis.Insight {
	var out []analysis.Insight

	completeness := quality.Summary.OverallCompleteness
	if completeness < s.cfg.CompletenessFloor {
		deficit := s.cfg.CompletenessFloor - completeness
		severity := analysis.SeverityLow
		if deficit > 0.2 {
			severity = analysis.SeverityHigh
		} else if deficit > 0.05 {
			severity = analysis.SeverityMedium
		}
		out = append(out, analysis.Insight{
			Category:         analysis.CategoryQuality,
			Severity:         severity,
			Message:          fmt.Sprintf("Dataset is %.1f%% complete; %.1f%% of cells are missing", completeness*100, (1-completeness)*100),
			SupportingMetric: completeness,
		})
	} else if quality.Summary.DuplicateRows > 0 {
		// Dataset-level quality carries at most one insight; duplicates
		// report only when completeness already passed.
		ratio := float64(quality.Summary.DuplicateRows) / float64(quality.Summary.RowCount)
		severity := analysis.SeverityLow
		if ratio > 0.1 {
			severity = analysis.SeverityMedium
		}
		out = append(out, analysis.Insight{
			Category:         analysis.CategoryQuality,
			Severity:         severity,
			Message:          fmt.Sprintf("Found %d duplicate rows (%.1f%% of the dataset)", quality.Summary.DuplicateRows, ratio*100),
			SupportingMetric: ratio,
		})
	}

	for _, col := range quality.Columns {
		if col.InferredRole == dataset.RoleText && col.DistinctRatio > 0.95 && quality.Summary.RowCount > 1 {
			out = append(out, analysis.Insight{
				Category:         analysis.CategoryQuality,
				Severity:         analysis.SeverityLow,
				Column:           col.Column,
				Message:          fmt.Sprintf("%s looks like a unique identifier (%.0f%% distinct values)", col.Column, col.DistinctRatio*100),
				SupportingMetric: col.DistinctRatio,
			})
		}
	}

	return out
}

func (s *Synthesizer) correlationInsights(result analysis.CorrelationResult) []analysis.Insight {
	var out []analysis.Insight
	for _, pair := range result.StrongPairs {
		absR := math.Abs(pair.R)
		severity := analysis.SeverityLow
		if absR >= 0.9 {
			severity = analysis.SeverityHigh
		} else if absR >= 0.8 {
			severity = analysis.SeverityMedium
		}

		direction := "positive"
		if pair.R < 0 {
			direction = "negative"
		}
		out = append(out, analysis.Insight{
			Category:         analysis.CategoryCorrelation,
			Severity:         severity,
			Column:           core.ColumnKey(fmt.Sprintf("%s~%s", pair.X, pair.Y)),
			Message:          fmt.Sprintf("Strong %s correlation between %s and %s (r=%.3f)", direction, pair.X, pair.Y, pair.R),
			SupportingMetric: pair.R,
		})
	}
	return out
}

func (s *Synthesizer) outlierInsights(outliers analysis.OutlierSet, rowCount int) []analysis.Insight {
	if rowCount == 0 {
		return nil
	}
	var out []analysis.Insight
	for _, col := range outliers.Columns {
		ratio := float64(len(col.Rows)) / float64(rowCount)
		if ratio <= s.cfg.OutlierRatioFloor {
			continue
		}
		severity := analysis.SeverityLow
		if s.cfg.OutlierRatioFloor > 0 {
			switch scale := ratio / s.cfg.OutlierRatioFloor; {
			case scale >= 4:
				severity = analysis.SeverityHigh
			case scale >= 2:
				severity = analysis.SeverityMedium
			}
		}
		out = append(out, analysis.Insight{
			Category:         analysis.CategoryOutlier,
			Severity:         severity,
			Column:           col.Column,
			Message:          fmt.Sprintf("%s has %d anomalous values (%.1f%% of rows) outside [%.2f, %.2f]", col.Column, len(col.Rows), ratio*100, col.LowerFence, col.UpperFence),
			SupportingMetric: ratio,
		})
	}
	return out
}

func (s *Synthesizer) distributionInsights(distribution analysis.DistributionSummary) []analysis.Insight {
	var out []analysis.Insight

	for _, col := range distribution.Numeric {
		absSkew := math.Abs(col.Skewness)
		if absSkew <= s.cfg.SkewFloor {
			continue
		}
		severity := analysis.SeverityLow
		if s.cfg.SkewFloor > 0 {
			switch scale := absSkew / s.cfg.SkewFloor; {
			case scale >= 3:
				severity = analysis.SeverityHigh
			case scale >= 2:
				severity = analysis.SeverityMedium
			}
		}
		out = append(out, analysis.Insight{
			Category:         analysis.CategoryDistribution,
			Severity:         severity,
			Column:           col.Column,
			Message:          fmt.Sprintf("%s is %s (skewness %.2f)", col.Column, col.SkewLabel, col.Skewness),
			SupportingMetric: col.Skewness,
		})
	}

	for _, col := range distribution.Categorical {
		if col.ModeFrequencyRatio <= 0.8 {
			continue
		}
		out = append(out, analysis.Insight{
			Category:         analysis.CategoryDistribution,
			Severity:         analysis.SeverityLow,
			Column:           col.Column,
			Message:          fmt.Sprintf("%s is heavily dominated by %q (%.0f%% of values)", col.Column, col.Mode, col.ModeFrequencyRatio*100),
			SupportingMetric: col.ModeFrequencyRatio,
		})
	}

	return out
}

func (s *Synthesizer) patternInsights(clusters analysis.ClusterResult) []analysis.Insight {
	if !clusters.Applicable || clusters.ClusterCount <= 1 {
		return nil
	}
	varianceSum := clusters.ExplainedVarianceRatio[0] + clusters.ExplainedVarianceRatio[1]
	if varianceSum <= s.cfg.PatternVarianceFloor {
		return nil
	}

	severity := analysis.SeverityLow
	if varianceSum >= 0.8 {
		severity = analysis.SeverityHigh
	} else if varianceSum >= 0.65 {
		severity = analysis.SeverityMedium
	}
	return []analysis.Insight{{
		Category:         analysis.CategoryPattern,
		Severity:         severity,
		Message:          fmt.Sprintf("Rows separate into %d groups; 2 components retain %.0f%% of variance", clusters.ClusterCount, varianceSum*100),
		SupportingMetric: varianceSum,
	}}
}
