package main

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/nexus-form/nexus/internal/survey"
)

func writeCSV(w io.Writer, t survey.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Grid()); err != nil {
		return err
	}
	return cw.Error()
}

// exportRows returns every row with all columns present, blank when unset.
func exportRows(t survey.Table) []map[string]string {
	cols := survey.Columns()
	out := make([]map[string]string, 0, t.Len())
	for _, row := range t.Rows {
		m := make(map[string]string, len(cols))
		for _, c := range cols {
			m[c] = row.Get(c)
		}
		out = append(out, m)
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
