package survey

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnsOrder(t *testing.T) {
	cols := Columns()
	require.Len(t, cols, 36)
	assert.Equal(t, ColumnMatchID, cols[0])
	assert.Equal(t, "sexo_A", cols[1])
	assert.Equal(t, "target_nota_A", cols[17])
	assert.Equal(t, "sexo_B", cols[18])
	assert.Equal(t, "target_nota_B", cols[34])
	assert.Equal(t, ColumnTimestamp, cols[35])

	cols[0] = "mutated"
	assert.Equal(t, ColumnMatchID, Columns()[0], "Columns must return a copy")
}

func TestFromGridNormalizesColumns(t *testing.T) {
	header := []string{"timestamp", "match_id", "legacy_column", "target_nota_A"}
	data := [][]string{
		{"2024-01-01T00:00:00Z", "a1b2c3d4", "junk", "7"},
		{"", "", "", ""},
		{"2024-01-02T00:00:00Z", "e5f6a7b8"},
	}

	tbl := FromGrid(header, data)
	require.Equal(t, 3, tbl.Len(), "blank lines are kept in place")

	first := tbl.Rows[0]
	assert.Equal(t, "a1b2c3d4", first.Get(ColumnMatchID))
	assert.Equal(t, "7", first.Get("target_nota_A"))
	assert.False(t, first.Has("target_nota_B"))
	_, hasLegacy := first["legacy_column"]
	assert.False(t, hasLegacy, "unknown columns are dropped")
	assert.Len(t, first, 36)

	assert.False(t, tbl.Rows[1].Has(ColumnMatchID))
	assert.Len(t, tbl.Rows[1], 36)
	assert.Equal(t, "e5f6a7b8", tbl.Rows[2].Get(ColumnMatchID))
	assert.Equal(t, "", tbl.Rows[2].Get("target_nota_A"), "short rows are padded")
}

func TestGridRoundTripsThroughFromGrid(t *testing.T) {
	tbl := Table{Rows: []Row{
		{ColumnMatchID: "a1b2c3d4", "sexo_A": "1", "target_nota_A": "8"},
		{ColumnMatchID: "e5f6a7b8", "sexo_B": "2", "target_nota_B": "3"},
	}}
	grid := tbl.Grid()
	require.Len(t, grid, 3)

	back := FromGrid(grid[0], grid[1:])
	if diff := cmp.Diff(tbl.Clone().Grid(), back.Grid()); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tbl := Table{Rows: []Row{{ColumnMatchID: "a1b2c3d4"}}}
	c := tbl.Clone()
	c.Rows[0][ColumnMatchID] = "changed"
	assert.Equal(t, "a1b2c3d4", tbl.Rows[0].Get(ColumnMatchID))
}
