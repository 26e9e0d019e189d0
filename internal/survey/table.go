package survey

import "strings"

// Side selects which participant's half of a record a cell belongs to.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

const (
	ColumnMatchID   = "match_id"
	ColumnTimestamp = "timestamp"
)

// Column returns the persisted column name of field for side.
func Column(field string, side Side) string {
	return field + "_" + string(side)
}

// OutcomeColumn returns target_nota_A or target_nota_B.
func OutcomeColumn(side Side) string {
	return Column(Outcome.Key, side)
}

var columns = buildColumns()

func buildColumns() []string {
	fields := Fields()
	cols := make([]string, 0, 2*len(fields)+4)
	cols = append(cols, ColumnMatchID)
	for _, side := range []Side{SideA, SideB} {
		for _, f := range fields {
			cols = append(cols, Column(f, side))
		}
		cols = append(cols, OutcomeColumn(side))
	}
	return append(cols, ColumnTimestamp)
}

// Columns returns the fixed persisted column order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// Row maps column names to cell text. A missing or blank cell is unset.
type Row map[string]string

// Get returns the cell for col, or "" when unset.
func (r Row) Get(col string) string {
	return r[col]
}

// Has reports whether col holds a non-blank value.
func (r Row) Has(col string) bool {
	return strings.TrimSpace(r[col]) != ""
}

func (r Row) clone() Row {
	c := make(Row, len(columns))
	for _, col := range columns {
		if v, ok := r[col]; ok {
			c[col] = v
		}
	}
	return c
}

// Table is the in-memory image of the whole store, in row order.
type Table struct {
	Rows []Row
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy restricted to the known columns.
func (t Table) Clone() Table {
	out := Table{Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		out.Rows[i] = r.clone()
	}
	return out
}

// FromGrid builds a table from a header row and data rows as read from a
// spreadsheet. Columns missing from header are synthesized as unset, unknown
// columns are dropped and short rows are padded. Blank lines stay in place as
// empty rows so a later write does not shift the rows below them.
func FromGrid(header []string, data [][]string) Table {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	t := Table{Rows: make([]Row, 0, len(data))}
	for _, cells := range data {
		row := make(Row, len(columns))
		for _, col := range columns {
			i, ok := index[col]
			if !ok || i >= len(cells) {
				row[col] = ""
				continue
			}
			row[col] = cells[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Grid renders the table as a header row followed by one line per row, in the
// fixed column order.
func (t Table) Grid() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, Columns())
	for _, r := range t.Rows {
		line := make([]string, len(columns))
		for i, col := range columns {
			line[i] = r[col]
		}
		out = append(out, line)
	}
	return out
}
