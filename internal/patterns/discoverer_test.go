package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/domain/analysis"
	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal/config"
)

// twoBlobColumns holds two tight groups of 10 coincident rows each.
func twoBlobColumns() []dataset.Column {
	colA := make([]string, 20)
	colB := make([]string, 20)
	for i := 0; i < 10; i++ {
		colA[i], colB[i] = "1", "2"
	}
	for i := 10; i < 20; i++ {
		colA[i], colB[i] = "9", "10"
	}
	return []dataset.Column{
		{Name: "a", Values: colA},
		{Name: "b", Values: colB},
	}
}

func twoBlobDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(twoBlobColumns())
	require.NoError(t, err)
	return ds
}

func numericRoles(names ...string) dataset.RoleMap {
	roles := dataset.RoleMap{}
	for _, n := range names {
		roles[core.ColumnKey(n)] = dataset.RoleNumeric
	}
	return roles
}

func TestDiscover_NotApplicableWithOneNumericColumn(t *testing.T) {
	ds, err := dataset.New([]dataset.Column{
		{Name: "x", Values: []string{"1", "2", "3", "4"}},
		{Name: "label", Values: []string{"a", "b", "a", "b"}},
	})
	require.NoError(t, err)
	roles := dataset.RoleMap{"x": dataset.RoleNumeric, "label": dataset.RoleCategorical}

	result := New(config.DefaultAnalysisConfig()).Discover(ds, roles)

	assert.False(t, result.Applicable)
	assert.Contains(t, result.Note, "not applicable")
	assert.Empty(t, result.ClusterLabels)
}

func TestDiscover_TooFewCompleteRows(t *testing.T) {
	ds, err := dataset.New([]dataset.Column{
		{Name: "a", Values: []string{"1", "", "3", ""}},
		{Name: "b", Values: []string{"2", "4", "", "8"}},
	})
	require.NoError(t, err)

	result := New(config.DefaultAnalysisConfig()).Discover(ds, numericRoles("a", "b"))

	assert.False(t, result.Applicable)
	assert.Contains(t, result.Note, "complete rows")
	// Only row 0 has both values.
	assert.Equal(t, []int{1, 2, 3}, result.ExcludedRows)
}

func TestDiscover_ZeroVarianceColumnDropped(t *testing.T) {
	constant := make([]string, 20)
	for i := range constant {
		constant[i] = "7"
	}
	cols := append(twoBlobColumns(), dataset.Column{Name: "fixed", Values: constant})
	ds, err := dataset.New(cols)
	require.NoError(t, err)

	result := New(config.DefaultAnalysisConfig()).Discover(ds, numericRoles("a", "b", "fixed"))

	require.True(t, result.Applicable)
	assert.Equal(t, []core.ColumnKey{"fixed"}, result.DroppedColumns)
}

func TestDiscover_SeparatedGroupsGetDistinctLabels(t *testing.T) {
	ds := twoBlobDataset(t)

	result := New(config.DefaultAnalysisConfig()).Discover(ds, numericRoles("a", "b"))

	require.True(t, result.Applicable)
	assert.Equal(t, 2, result.ClusterCount)
	require.Len(t, result.ClusterLabels, 20)
	require.Len(t, result.ReducedCoordinates, 20)
	require.Len(t, result.RowIndices, 20)

	firstGroup := result.ClusterLabels[0]
	secondGroup := result.ClusterLabels[10]
	assert.NotEqual(t, firstGroup, secondGroup)
	for i := 0; i < 10; i++ {
		assert.Equal(t, firstGroup, result.ClusterLabels[i])
		assert.Equal(t, secondGroup, result.ClusterLabels[10+i])
	}
}

func TestDiscover_Deterministic(t *testing.T) {
	ds := twoBlobDataset(t)
	roles := numericRoles("a", "b")
	d := New(config.DefaultAnalysisConfig())

	first := d.Discover(ds, roles)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, d.Discover(ds, roles))
	}
}

func TestClusterCountFor(t *testing.T) {
	cases := []struct {
		rows, maxK, want int
	}{
		{20, 5, 2},
		{50, 5, 4},
		{200, 5, 5},  // capped by maxK
		{2, 5, 2},    // capped by row count
		{1, 5, 1},    // never exceeds rows
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, clusterCountFor(tc.rows, tc.maxK), "rows=%d maxK=%d", tc.rows, tc.maxK)
	}
}

func TestKMeans_SingleCluster(t *testing.T) {
	points := []analysis.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	labels := kMeans(points, 1, 42)
	assert.Equal(t, []int{0, 0, 0}, labels)
}
