// Package engine wires the analysis pipeline together: infer column roles
// once, fan the five independent analyzers out over the immutable dataset,
// join, then synthesize insights.
package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"datalens/domain/analysis"
	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal"
	"datalens/internal/config"
	"datalens/internal/correlation"
	"datalens/internal/distribution"
	apperrors "datalens/internal/errors"
	"datalens/internal/insights"
	"datalens/internal/outliers"
	"datalens/internal/patterns"
	"datalens/internal/quality"
	"datalens/internal/typeinfer"
)

// Engine runs one analysis invocation end to end. It holds no state across
// runs; every result entity is created fresh per call.
type Engine struct {
	cfg config.AnalysisConfig
	log *internal.Logger

	inferencer   *typeinfer.Inferencer
	profiler     *quality.Profiler
	correlator   *correlation.Analyzer
	detector     *outliers.Detector
	distribution *distribution.Analyzer
	discoverer   *patterns.Discoverer
	synthesizer  *insights.Synthesizer
}

// New validates cfg and builds an Engine.
func New(cfg config.AnalysisConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:          cfg,
		log:          internal.DefaultLogger,
		inferencer:   typeinfer.New(cfg),
		profiler:     quality.NewProfiler(),
		correlator:   correlation.New(cfg),
		detector:     outliers.New(cfg),
		distribution: distribution.New(),
		discoverer:   patterns.New(cfg),
		synthesizer:  insights.New(cfg),
	}, nil
}

// Analyze is the single function boundary of the core. Deterministic given
// dataset and configuration; clustering uses the configured fixed seed.
//
// EmptyInput aborts the whole call. The five analyzers never fail on
// insufficient data; they return empty or not-applicable results and the
// report carries a per-category note instead.
func (e *Engine) Analyze(ctx context.Context, ds *dataset.Dataset) (*analysis.Report, error) {
	if ds == nil || ds.ColumnCount() == 0 {
		return nil, apperrors.EmptyInput("dataset has no columns")
	}
	if ds.RowCount() == 0 {
		return nil, apperrors.EmptyInput("dataset has no rows")
	}

	roles, err := e.inferencer.Infer(ds)
	if err != nil {
		return nil, err
	}

	report := &analysis.Report{
		RunID: core.NewRunID(),
		Roles: roles,
	}

	// The five analyzers are independent: each reads only the immutable
	// dataset and the role map, and writes only its own report field.
	// The group Wait is the join point before synthesis.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Quality = e.profiler.Profile(ds, roles)
		return nil
	})
	g.Go(func() error {
		report.Correlation = e.correlator.Analyze(ds, roles)
		return nil
	})
	g.Go(func() error {
		report.Outliers = e.detector.Detect(ds, roles)
		return nil
	})
	g.Go(func() error {
		report.Distribution = e.distribution.Analyze(ds, roles)
		return nil
	})
	g.Go(func() error {
		report.Clusters = e.discoverer.Discover(ds, roles)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Insights = e.synthesizer.Synthesize(
		report.Quality,
		report.Correlation,
		report.Outliers,
		report.Distribution,
		report.Clusters,
	)
	report.Notes = applicabilityNotes(report)

	e.log.Info("analysis %s complete: %d columns, %d rows, %d insights",
		report.RunID, ds.ColumnCount(), ds.RowCount(), len(report.Insights))

	return report, nil
}

// applicabilityNotes surfaces the not-applicable analyzers so callers can
// present a partial result instead of a hard failure.
func applicabilityNotes(report *analysis.Report) map[analysis.InsightCategory]string {
	notes := make(map[analysis.InsightCategory]string)
	if !report.Correlation.Applicable() && report.Correlation.Note != "" {
		notes[analysis.CategoryCorrelation] = report.Correlation.Note
	}
	if !report.Clusters.Applicable && report.Clusters.Note != "" {
		notes[analysis.CategoryPattern] = report.Clusters.Note
	}
	if len(notes) == 0 {
		return nil
	}
	return notes
}
