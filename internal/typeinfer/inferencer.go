// Package typeinfer classifies dataset columns into semantic roles.
// Inference runs once per dataset load; every downstream analyzer receives
// the resulting role map instead of re-inferring types ad hoc.
package typeinfer

import (
	"strings"
	"time"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal/config"
	"datalens/internal/errors"
)

// booleanPairs are the fixed 2-element vocabularies a boolean column may
// draw from. A column qualifies when its distinct values are a subset of
// one pair.
var booleanPairs = [][2]string{
	{"true", "false"},
	{"yes", "no"},
	{"y", "n"},
	{"1", "0"},
	{"on", "off"},
}

// datetimeFormats are the layouts tried, in order, for datetime detection.
var datetimeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
	"Jan-2006",
}

// Inferencer assigns exactly one ColumnRole per column. Assignment is
// deterministic: the same column values always yield the same role.
type Inferencer struct {
	distinctCap   int
	distinctRatio float64
}

// New creates an Inferencer using the categorical thresholds from cfg.
func New(cfg config.AnalysisConfig) *Inferencer {
	return &Inferencer{
		distinctCap:   cfg.CategoricalDistinctCap,
		distinctRatio: cfg.CategoricalDistinctRatio,
	}
}

// Infer classifies every column of the dataset. It fails only on a dataset
// with zero columns.
func (inf *Inferencer) Infer(ds *dataset.Dataset) (dataset.RoleMap, error) {
	if ds.ColumnCount() == 0 {
		return nil, errors.EmptyInput("dataset has no columns")
	}

	roles := make(dataset.RoleMap, ds.ColumnCount())
	for _, col := range ds.Columns() {
		roles[col.Name] = inf.inferColumn(col)
	}
	return roles, nil
}

// inferColumn resolves one column. Priority on ties:
// boolean > datetime > numeric > categorical > text.
func (inf *Inferencer) inferColumn(col dataset.Column) dataset.ColumnRole {
	nonMissing := col.NonMissing()
	if len(nonMissing) == 0 {
		// Nothing to classify against; the quality profiler will flag
		// the emptiness.
		return dataset.RoleText
	}

	distinct := distinctLowered(nonMissing)

	if isBoolean(distinct) {
		return dataset.RoleBoolean
	}
	if allDatetime(nonMissing) {
		return dataset.RoleDatetime
	}
	if allNumeric(nonMissing) {
		return dataset.RoleNumeric
	}

	distinctRatio := float64(len(distinct)) / float64(len(nonMissing))
	if distinctRatio < inf.distinctRatio || len(distinct) < inf.distinctCap {
		return dataset.RoleCategorical
	}
	return dataset.RoleText
}

func distinctLowered(values []string) map[string]bool {
	distinct := make(map[string]bool, len(values))
	for _, v := range values {
		distinct[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return distinct
}

func isBoolean(distinct map[string]bool) bool {
	if len(distinct) > 2 {
		return false
	}
	for _, pair := range booleanPairs {
		subset := true
		for v := range distinct {
			if v != pair[0] && v != pair[1] {
				subset = false
				break
			}
		}
		if subset {
			return true
		}
	}
	return false
}

func allNumeric(values []string) bool {
	for _, v := range values {
		if _, ok := dataset.ParseNumber(v); !ok {
			return false
		}
	}
	return true
}

func allDatetime(values []string) bool {
	for _, v := range values {
		if !parsesAsDatetime(strings.TrimSpace(v)) {
			return false
		}
	}
	return true
}

func parsesAsDatetime(v string) bool {
	for _, format := range datetimeFormats {
		if _, err := time.Parse(format, v); err == nil {
			return true
		}
	}
	return false
}

// NumericColumns returns the names of numeric-role columns in dataset
// order. Shared by the analyzers that restrict to the numeric subset.
func NumericColumns(ds *dataset.Dataset, roles dataset.RoleMap) []core.ColumnKey {
	var numeric []core.ColumnKey
	for _, col := range ds.Columns() {
		if roles[col.Name] == dataset.RoleNumeric {
			numeric = append(numeric, col.Name)
		}
	}
	return numeric
}
