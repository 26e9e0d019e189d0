package match

import (
	"strings"

	"github.com/nexus-form/nexus/internal/survey"
)

// IsComplete reports whether some row for id has both outcomes filled.
func IsComplete(t survey.Table, id string) bool {
	for _, i := range matchingRows(t, id) {
		row := t.Rows[i]
		if row.Has(survey.OutcomeColumn(survey.SideA)) && row.Has(survey.OutcomeColumn(survey.SideB)) {
			return true
		}
	}
	return false
}

// matchingRows returns the indices of rows whose match_id equals id, in order.
func matchingRows(t survey.Table, id string) []int {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	var out []int
	for i, row := range t.Rows {
		if strings.TrimSpace(row.Get(survey.ColumnMatchID)) == id {
			out = append(out, i)
		}
	}
	return out
}
