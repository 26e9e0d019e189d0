package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/nexus-form/nexus/internal/survey"
)

func TestWriteCSVUsesFixedHeader(t *testing.T) {
	table := survey.Table{Rows: []survey.Row{{survey.ColumnMatchID: "a1b2c3d4", "sexo_A": "2"}}}

	var buf bytes.Buffer
	if err := writeCSV(&buf, table); err != nil {
		t.Fatalf("writeCSV() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header plus one row", len(records))
	}
	cols := survey.Columns()
	if len(records[0]) != len(cols) || records[0][0] != survey.ColumnMatchID {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][0] != "a1b2c3d4" || records[1][1] != "2" {
		t.Fatalf("row = %v", records[1])
	}
}

func TestExportRowsFillsEveryColumn(t *testing.T) {
	table := survey.Table{Rows: []survey.Row{{survey.ColumnMatchID: "a1b2c3d4"}}}

	var buf bytes.Buffer
	if err := writeJSON(&buf, exportRows(table)); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}
	var rows []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != len(survey.Columns()) {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][survey.OutcomeColumn(survey.SideB)] != "" {
		t.Fatalf("unset outcome should export blank")
	}
}
