package correlation

import (
	"fmt"
	"math"
	"testing"

	"datalens/domain/dataset"
	"datalens/internal/config"
)

func TestAnalyze_PerfectLinearPair(t *testing.T) {
	x := make([]string, 20)
	y := make([]string, 20)
	for i := range x {
		x[i] = fmt.Sprintf("%d", i+1)
		y[i] = fmt.Sprintf("%d", 2*(i+1))
	}
	ds, err := dataset.New([]dataset.Column{
		{Name: "x", Values: x},
		{Name: "y", Values: y},
	})
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	roles := dataset.RoleMap{"x": dataset.RoleNumeric, "y": dataset.RoleNumeric}

	result := New(config.DefaultAnalysisConfig()).Analyze(ds, roles)

	if !result.Applicable() {
		t.Fatal("expected applicable result for 2 numeric columns")
	}
	r, ok := result.At("x", "y")
	if !ok {
		t.Fatal("pair (x,y) not present in matrix")
	}
	if math.Abs(r-1.0) > 1e-9 {
		t.Errorf("expected r=1.0 for y=2x, got %f", r)
	}
	if len(result.StrongPairs) != 1 {
		t.Fatalf("expected 1 strong pair, got %d", len(result.StrongPairs))
	}
	pair := result.StrongPairs[0]
	if pair.X == pair.Y {
		t.Error("a column must never be paired with itself")
	}
}

func TestAnalyze_FewerThanTwoNumericColumns(t *testing.T) {
	ds, err := dataset.New([]dataset.Column{
		{Name: "only", Values: []string{"1", "2", "3"}},
		{Name: "label", Values: []string{"a", "b", "a"}},
	})
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	roles := dataset.RoleMap{"only": dataset.RoleNumeric, "label": dataset.RoleCategorical}

	result := New(config.DefaultAnalysisConfig()).Analyze(ds, roles)

	if result.Applicable() {
		t.Error("expected empty result, not an error, for a single numeric column")
	}
	if len(result.StrongPairs) != 0 {
		t.Error("expected no strong pairs")
	}
	if result.Note == "" {
		t.Error("expected an explanatory note")
	}
}

func TestAnalyze_MatrixSymmetricAndBounded(t *testing.T) {
	ds, err := dataset.New([]dataset.Column{
		{Name: "a", Values: []string{"1", "4", "2", "8", "5", "7"}},
		{Name: "b", Values: []string{"3", "1", "4", "1", "5", "9"}},
		{Name: "c", Values: []string{"2", "7", "1", "8", "2", "8"}},
	})
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	roles := dataset.RoleMap{
		"a": dataset.RoleNumeric, "b": dataset.RoleNumeric, "c": dataset.RoleNumeric,
	}

	result := New(config.DefaultAnalysisConfig()).Analyze(ds, roles)

	n := len(result.Columns)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := result.Matrix[i][j]
			if v < -1 || v > 1 {
				t.Errorf("matrix[%d][%d]=%f outside [-1,1]", i, j, v)
			}
			if result.Matrix[i][j] != result.Matrix[j][i] {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
		}
		if result.Matrix[i][i] != 1 {
			t.Errorf("diagonal at %d is %f, expected 1", i, result.Matrix[i][i])
		}
	}
}

func TestAnalyze_PairwiseCompleteDeletion(t *testing.T) {
	// Row 2 is missing in a, row 4 in b: the pair correlates over the
	// remaining jointly-valid rows only.
	ds, err := dataset.New([]dataset.Column{
		{Name: "a", Values: []string{"1", "2", "", "4", "5", "6"}},
		{Name: "b", Values: []string{"2", "4", "6", "8", "", "12"}},
	})
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	roles := dataset.RoleMap{"a": dataset.RoleNumeric, "b": dataset.RoleNumeric}

	result := New(config.DefaultAnalysisConfig()).Analyze(ds, roles)

	r, ok := result.At("a", "b")
	if !ok {
		t.Fatal("pair missing from result")
	}
	if math.Abs(r-1.0) > 1e-9 {
		t.Errorf("expected r=1.0 on jointly-valid rows, got %f", r)
	}
}

func TestAnalyze_TooFewJointRowsExcluded(t *testing.T) {
	// Only two jointly-valid rows; below the default minimum of 3.
	ds, err := dataset.New([]dataset.Column{
		{Name: "a", Values: []string{"1", "2", "", ""}},
		{Name: "b", Values: []string{"5", "6", "7", "8"}},
	})
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	roles := dataset.RoleMap{"a": dataset.RoleNumeric, "b": dataset.RoleNumeric}

	result := New(config.DefaultAnalysisConfig()).Analyze(ds, roles)

	if len(result.ExcludedPairs) != 1 {
		t.Fatalf("expected 1 excluded pair, got %d", len(result.ExcludedPairs))
	}
	if r, _ := result.At("a", "b"); r != 0 {
		t.Errorf("excluded pair should hold a zero cell, got %f", r)
	}
	if len(result.StrongPairs) != 0 {
		t.Error("excluded pair must not reach strong pairs")
	}
}
