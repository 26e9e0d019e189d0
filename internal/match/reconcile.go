package match

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexus-form/nexus/internal/survey"
)

// Submission is one participant's request-scoped input.
type Submission struct {
	Answers survey.Answers
	Outcome int
}

// Action records what Reconcile did to the table.
type Action string

const (
	// ActionCreated appended a Person A row.
	ActionCreated Action = "created"
	// ActionCompleted filled the B half of a pending row.
	ActionCompleted Action = "completed"
	// ActionOverwritten replaced the B half of the last matching row because
	// none was pending.
	ActionOverwritten Action = "overwritten"
	// ActionOrphaned appended a B-only row for an id with no matching row.
	ActionOrphaned Action = "orphaned"
)

// Result is the reconciled table plus what changed.
type Result struct {
	Table   survey.Table
	MatchID string
	Action  Action
	Row     int
}

const idAttempts = 8

var errNoFreshID = errors.New("could not generate an unused match id")

// Reconciler decides whether a submission appends or updates a row.
type Reconciler struct {
	NewID func() (string, error)
	Now   func() time.Time
}

func NewReconciler() *Reconciler {
	return &Reconciler{NewID: ShortID, Now: time.Now}
}

// ShortID returns the first 8 hex characters of a random UUID.
func ShortID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(u.String(), "-", "")[:8], nil
}

// Reconcile applies sub for role to a copy of t. Exactly one row is added or
// modified; all other rows keep their content and order.
func (r *Reconciler) Reconcile(t survey.Table, role Role, sub Submission) (Result, error) {
	out := t.Clone()
	stamp := r.now().UTC().Format(time.RFC3339Nano)

	if !role.Joining() {
		id, err := r.freshID(out)
		if err != nil {
			return Result{}, err
		}
		row := emptyRow()
		row[survey.ColumnMatchID] = id
		fill(row, survey.SideA, sub)
		row[survey.ColumnTimestamp] = stamp
		out.Rows = append(out.Rows, row)
		return Result{Table: out, MatchID: id, Action: ActionCreated, Row: len(out.Rows) - 1}, nil
	}

	id := strings.TrimSpace(role.MatchID)
	idx, action := pickRow(out, id)
	if idx < 0 {
		row := emptyRow()
		row[survey.ColumnMatchID] = id
		fill(row, survey.SideB, sub)
		row[survey.ColumnTimestamp] = stamp
		out.Rows = append(out.Rows, row)
		return Result{Table: out, MatchID: id, Action: ActionOrphaned, Row: len(out.Rows) - 1}, nil
	}

	row := out.Rows[idx]
	fill(row, survey.SideB, sub)
	row[survey.ColumnTimestamp] = stamp
	return Result{Table: out, MatchID: id, Action: action, Row: idx}, nil
}

// pickRow returns the first matching row still waiting for Person B, or the
// last matching row when none is pending, or -1 when nothing matches.
func pickRow(t survey.Table, id string) (int, Action) {
	rows := matchingRows(t, id)
	if len(rows) == 0 {
		return -1, ActionOrphaned
	}
	for _, i := range rows {
		if !t.Rows[i].Has(survey.OutcomeColumn(survey.SideB)) {
			return i, ActionCompleted
		}
	}
	return rows[len(rows)-1], ActionOverwritten
}

func (r *Reconciler) freshID(t survey.Table) (string, error) {
	gen := r.NewID
	if gen == nil {
		gen = ShortID
	}
	taken := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		taken[strings.TrimSpace(row.Get(survey.ColumnMatchID))] = true
	}
	for i := 0; i < idAttempts; i++ {
		id, err := gen()
		if err != nil {
			return "", fmt.Errorf("generate match id: %w", err)
		}
		if id != "" && !taken[id] {
			return id, nil
		}
	}
	return "", errNoFreshID
}

func (r *Reconciler) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func emptyRow() survey.Row {
	cols := survey.Columns()
	row := make(survey.Row, len(cols))
	for _, c := range cols {
		row[c] = ""
	}
	return row
}

// fill writes one side's answers and outcome into row.
func fill(row survey.Row, side survey.Side, sub Submission) {
	for _, f := range survey.Fields() {
		row[survey.Column(f, side)] = sub.Answers[f]
	}
	row[survey.OutcomeColumn(side)] = strconv.Itoa(sub.Outcome)
}
