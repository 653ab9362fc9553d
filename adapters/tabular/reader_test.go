package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"datalens/domain/core"
	apperrors "datalens/internal/errors"
)

func TestReadCSV_Basic(t *testing.T) {
	csvData := "name,age,city\nAlice,30,Berlin\nBob,25,Paris\n"

	ds, err := NewReader().Read(strings.NewReader(csvData), "people.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, 3, ds.ColumnCount())
	assert.Equal(t, []core.ColumnKey{"name", "age", "city"}, ds.ColumnNames())

	age, ok := ds.Column("age")
	require.True(t, ok)
	assert.Equal(t, []string{"30", "25"}, age.Values)
}

func TestReadCSV_RaggedRowsArePadded(t *testing.T) {
	csvData := "a,b,c\n1,2\n4,5,6\n"

	ds, err := NewReader().ReadCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	c, ok := ds.Column("c")
	require.True(t, ok)
	assert.Equal(t, []string{"", "6"}, c.Values)
}

func TestReadCSV_CellsAreTrimmed(t *testing.T) {
	csvData := "a,b\n 1 ,  x  \n"

	ds, err := NewReader().ReadCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	a, _ := ds.Column("a")
	b, _ := ds.Column("b")
	assert.Equal(t, []string{"1"}, a.Values)
	assert.Equal(t, []string{"x"}, b.Values)
}

func TestReadCSV_HeaderNormalization(t *testing.T) {
	csvData := "id,,id,id\n1,2,3,4\n"

	ds, err := NewReader().ReadCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, []core.ColumnKey{"id", "column_2", "id_2", "id_3"}, ds.ColumnNames())
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	ds, err := NewReader().ReadCSV(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.RowCount())
	assert.Equal(t, 2, ds.ColumnCount())
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := NewReader().ReadCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, "EMPTY_INPUT", apperrors.GetCode(err))
}

func TestReadExcel_FirstSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"name", "score"},
		{"Alice", 90},
		{"Bob", 85},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, readErr := NewReader().Read(buf, "scores.xlsx")
	require.NoError(t, readErr)

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, []core.ColumnKey{"name", "score"}, ds.ColumnNames())
	score, ok := ds.Column("score")
	require.True(t, ok)
	assert.Equal(t, []string{"90", "85"}, score.Values)
}

func TestRead_UnsupportedExtension(t *testing.T) {
	_, err := NewReader().Read(strings.NewReader("{}"), "data.json")
	require.Error(t, err)
	assert.Equal(t, "INVALID_INPUT", apperrors.GetCode(err))
}
