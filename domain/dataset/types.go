package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"datalens/domain/core"
)

// ColumnRole is the inferred semantic type of a column.
type ColumnRole string

const (
	RoleNumeric     ColumnRole = "numeric"
	RoleCategorical ColumnRole = "categorical"
	RoleDatetime    ColumnRole = "datetime"
	RoleBoolean     ColumnRole = "boolean"
	RoleText        ColumnRole = "text"
)

// RoleMap assigns exactly one role per column name.
type RoleMap map[core.ColumnKey]ColumnRole

// Column is a named column of raw cell values. Missing entries are
// normalized to the empty string by the readers.
type Column struct {
	Name   core.ColumnKey
	Values []string
}

// Dataset is an immutable rectangular table. All analyzers treat it as
// read-only; nothing here mutates after construction.
type Dataset struct {
	columns []Column
	byName  map[core.ColumnKey]int
	rows    int
}

// New builds a Dataset from columns, validating that names are unique and
// non-empty and that every column has the same row count.
func New(columns []Column) (*Dataset, error) {
	byName := make(map[core.ColumnKey]int, len(columns))
	rows := 0
	for i, col := range columns {
		if strings.TrimSpace(string(col.Name)) == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, exists := byName[col.Name]; exists {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if i == 0 {
			rows = len(col.Values)
		} else if len(col.Values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Values), rows)
		}
		byName[col.Name] = i
	}
	return &Dataset{columns: columns, byName: byName, rows: rows}, nil
}

// RowCount returns the uniform row count.
func (d *Dataset) RowCount() int { return d.rows }

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int { return len(d.columns) }

// Columns returns the columns in their original order.
func (d *Dataset) Columns() []Column { return d.columns }

// Column looks a column up by name.
func (d *Dataset) Column(name core.ColumnKey) (Column, bool) {
	idx, ok := d.byName[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[idx], true
}

// ColumnNames returns all column names in order.
func (d *Dataset) ColumnNames() []core.ColumnKey {
	names := make([]core.ColumnKey, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// missingTokens are cell spellings treated as absent values in addition to
// the empty string.
var missingTokens = map[string]bool{
	"na": true, "n/a": true, "null": true, "nan": true, "none": true, "-": true,
}

// IsMissing reports whether a raw cell holds no value.
func IsMissing(cell string) bool {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return true
	}
	return missingTokens[strings.ToLower(trimmed)]
}

// MissingCount counts null/empty entries in the column.
func (c Column) MissingCount() int {
	count := 0
	for _, v := range c.Values {
		if IsMissing(v) {
			count++
		}
	}
	return count
}

// NonMissing returns the non-missing raw values in row order.
func (c Column) NonMissing() []string {
	out := make([]string, 0, len(c.Values))
	for _, v := range c.Values {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// ParseNumber parses a cell as a real number. It tolerates surrounding
// whitespace, thousands separators, currency symbols and percent signs the
// same way the ingestion layer does, and rejects NaN/Inf.
func ParseNumber(cell string) (float64, bool) {
	cleaned := strings.TrimSpace(cell)
	if cleaned == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "("), ")")
		negative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "%"} {
		cleaned = strings.ReplaceAll(cleaned, symbol, "")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	if negative {
		cleaned = "-" + cleaned
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// NumericValues extracts the parseable numeric values of a column together
// with the row indices they came from. Missing and unparseable cells are
// skipped.
func (c Column) NumericValues() (values []float64, rows []int) {
	for i, v := range c.Values {
		if IsMissing(v) {
			continue
		}
		num, ok := ParseNumber(v)
		if !ok {
			continue
		}
		values = append(values, num)
		rows = append(rows, i)
	}
	return values, rows
}
