package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/nexus-form/nexus/internal/reliability"
	"github.com/nexus-form/nexus/internal/survey"
)

// fakeSheet serves the values endpoints SheetsStore uses, backed by an
// in-memory grid. Updates overwrite cell by cell like the real API, so
// cells outside the written range survive until cleared.
type fakeSheet struct {
	mu      sync.Mutex
	grid    [][]any
	ranges  []string
	failGet int
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	const base = "/v4/spreadsheets/sheet-1/values"
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == base+":batchClear":
		var body struct {
			Ranges []string `json:"ranges"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, rng := range body.Ranges {
			f.ranges = append(f.ranges, "clear "+rng)
			if err := f.clear(rng); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		_, _ = w.Write([]byte(`{}`))
	case !strings.HasPrefix(r.URL.Path, base+"/"):
		http.NotFound(w, r)
	case r.Method == http.MethodGet:
		rng := strings.TrimPrefix(r.URL.Path, base+"/")
		f.ranges = append(f.ranges, "get "+rng)
		if f.failGet != 0 {
			w.WriteHeader(f.failGet)
			_, _ = w.Write([]byte(`{"error":{"code":` + strconv.Itoa(f.failGet) + `,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"range": rng, "majorDimension": "ROWS", "values": f.grid})
	case r.Method == http.MethodPut:
		rng := strings.TrimPrefix(r.URL.Path, base+"/")
		f.ranges = append(f.ranges, "update "+rng)
		var body struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for i, line := range body.Values {
			if i >= len(f.grid) {
				f.grid = append(f.grid, nil)
			}
			for j, cell := range line {
				if j < len(f.grid[i]) {
					f.grid[i][j] = cell
				} else {
					f.grid[i] = append(f.grid[i], cell)
				}
			}
		}
		_, _ = w.Write([]byte(`{}`))
	default:
		http.Error(w, "unexpected request", http.StatusMethodNotAllowed)
	}
}

// clear handles the two shapes SheetsStore sends: "A<row>:ZZZ" drops rows
// from row on, "<col>1:ZZZ" drops cells from col on in every row.
func (f *fakeSheet) clear(rng string) error {
	cells := rng[strings.Index(rng, "!")+1:]
	start := strings.SplitN(cells, ":", 2)[0]
	letters := strings.TrimRight(start, "0123456789")
	row, err := strconv.Atoi(start[len(letters):])
	if err != nil {
		return err
	}
	if letters == "A" {
		if row-1 < len(f.grid) {
			f.grid = f.grid[:row-1]
		}
		return nil
	}
	col := 0
	for _, c := range letters {
		col = col*26 + int(c-'A'+1)
	}
	for i := row - 1; i < len(f.grid); i++ {
		if col-1 < len(f.grid[i]) {
			f.grid[i] = f.grid[i][:col-1]
		}
	}
	return nil
}

func newFakeSheetsStore(t *testing.T, fake *fakeSheet) *SheetsStore {
	t.Helper()
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	s, err := NewSheetsStore(context.Background(), SheetsConfig{
		SpreadsheetID: "sheet-1",
		Worksheet:     "responses",
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(ts.URL + "/"),
			option.WithoutAuthentication(),
		},
	})
	require.NoError(t, err)
	return s
}

func TestSheetsStoreContract(t *testing.T) {
	fake := &fakeSheet{}
	checkStoreContract(t, newFakeSheetsStore(t, fake))

	assert.Contains(t, fake.ranges, "update 'responses'!A1")
	assert.Contains(t, fake.ranges, "clear 'responses'!A2:ZZZ")
	assert.Contains(t, fake.ranges, "clear 'responses'!AK1:ZZZ")
}

func TestSheetsStoreReadsForeignHeaderOrder(t *testing.T) {
	fake := &fakeSheet{grid: [][]any{
		{"timestamp", "match_id", "target_nota_A", "notes"},
		{"2024-03-01T12:00:00Z", "a1b2c3d4", "8", "ignored"},
		{},
		{"", "e5f6a7b8"},
	}}
	s := newFakeSheetsStore(t, fake)

	got, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())
	assert.Equal(t, "8", got.Rows[0].Get(survey.OutcomeColumn(survey.SideA)))
	assert.False(t, got.Rows[1].Has(survey.ColumnMatchID), "blank line kept in place")
	assert.Equal(t, "e5f6a7b8", got.Rows[2].Get(survey.ColumnMatchID))

	require.NoError(t, s.WriteAll(context.Background(), got))
	assert.Equal(t, survey.ColumnMatchID, fake.grid[0][0], "write restores the fixed header")
	assert.Len(t, fake.grid, 4)
}

func TestSheetsStoreClearsCellsRightOfSchema(t *testing.T) {
	wide := make([]any, 40)
	for i := range wide {
		wide[i] = "old"
	}
	fake := &fakeSheet{grid: [][]any{wide, append([]any(nil), wide...), append([]any(nil), wide...)}}
	s := newFakeSheetsStore(t, fake)

	table := survey.Table{Rows: []survey.Row{{survey.ColumnMatchID: "a1b2c3d4"}}}
	require.NoError(t, s.WriteAll(context.Background(), table))

	width := len(survey.Columns())
	require.Len(t, fake.grid, 2)
	for i, line := range fake.grid {
		assert.Len(t, line, width, "row %d keeps cells past the last schema column", i)
	}
	assert.Equal(t, "a1b2c3d4", fake.grid[1][0])
}

func TestColumnLetters(t *testing.T) {
	assert.Equal(t, "A", columnLetters(1))
	assert.Equal(t, "Z", columnLetters(26))
	assert.Equal(t, "AA", columnLetters(27))
	assert.Equal(t, "AJ", columnLetters(36))
	assert.Equal(t, "AK", columnLetters(37))
}

func TestSheetsStoreWrapsAPIErrors(t *testing.T) {
	s := newFakeSheetsStore(t, &fakeSheet{failGet: http.StatusForbidden})

	_, err := s.ReadAll(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, reliability.ConditionPermissionDenied, reliability.Classify(err))
}

func TestSheetsStoreQuotesWorksheet(t *testing.T) {
	s := &SheetsStore{worksheet: "it's"}
	assert.Equal(t, "'it''s'!A1", s.a1("A1"))
	assert.Equal(t, "'it''s'", s.a1(""))
}

func TestNewSheetsStoreRequiresSpreadsheet(t *testing.T) {
	_, err := NewSheetsStore(context.Background(), SheetsConfig{})
	require.Error(t, err)
}
