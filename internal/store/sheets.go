package store

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/nexus-form/nexus/internal/survey"
)

// SheetsConfig locates the worksheet that backs the table.
type SheetsConfig struct {
	SpreadsheetID   string
	Worksheet       string
	CredentialsFile string
	// ClientOptions are appended after the credentials option; tests use them
	// to point the client at a fake endpoint.
	ClientOptions []option.ClientOption
}

// SheetsStore keeps the table in a Google Sheets worksheet, header row first.
type SheetsStore struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	worksheet     string
}

func NewSheetsStore(ctx context.Context, cfg SheetsConfig) (*SheetsStore, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, fmt.Errorf("sheets store: spreadsheet id is required")
	}
	worksheet := strings.TrimSpace(cfg.Worksheet)
	if worksheet == "" {
		worksheet = "responses"
	}

	var opts []option.ClientOption
	if f := strings.TrimSpace(cfg.CredentialsFile); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))
	opts = append(opts, cfg.ClientOptions...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &SheetsStore{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		worksheet:     worksheet,
	}, nil
}

// a1 quotes the worksheet title for use in an A1 range.
func (s *SheetsStore) a1(cells string) string {
	title := "'" + strings.ReplaceAll(s.worksheet, "'", "''") + "'"
	if cells == "" {
		return title
	}
	return title + "!" + cells
}

func (s *SheetsStore) ReadAll(ctx context.Context) (survey.Table, error) {
	resp, err := s.values.Get(s.spreadsheetID, s.a1("")).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return survey.Table{}, fmt.Errorf("%w: read worksheet %q: %w", ErrUnavailable, s.worksheet, err)
	}
	if len(resp.Values) == 0 {
		return survey.Table{}, nil
	}

	header := cellsToStrings(resp.Values[0])
	data := make([][]string, 0, len(resp.Values)-1)
	for _, line := range resp.Values[1:] {
		data = append(data, cellsToStrings(line))
	}
	return survey.FromGrid(header, data), nil
}

// WriteAll overwrites the worksheet from A1, then clears whatever lies below
// the new last row and right of the last schema column. Writing before
// clearing means a failed write never leaves the worksheet empty.
func (s *SheetsStore) WriteAll(ctx context.Context, t survey.Table) error {
	grid := t.Grid()
	values := make([][]any, len(grid))
	for i, line := range grid {
		row := make([]any, len(line))
		for j, cell := range line {
			row[j] = cell
		}
		values[i] = row
	}

	_, err := s.values.Update(s.spreadsheetID, s.a1("A1"), &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: write worksheet %q: %w", ErrUnavailable, s.worksheet, err)
	}

	stale := []string{
		s.a1(fmt.Sprintf("A%d:ZZZ", len(grid)+1)),
		s.a1(columnLetters(len(grid[0])+1) + "1:ZZZ"),
	}
	if _, err := s.values.BatchClear(s.spreadsheetID, &sheets.BatchClearValuesRequest{Ranges: stale}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: clear stale cells in %q: %w", ErrUnavailable, s.worksheet, err)
	}
	return nil
}

// columnLetters returns the A1 column name of the 1-based column n.
func columnLetters(n int) string {
	var out []byte
	for n > 0 {
		n--
		out = append([]byte{byte('A' + n%26)}, out...)
		n /= 26
	}
	return string(out)
}

func (s *SheetsStore) Close() error { return nil }

func cellsToStrings(line []any) []string {
	out := make([]string, len(line))
	for i, v := range line {
		switch c := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = c
		default:
			out[i] = fmt.Sprint(c)
		}
	}
	return out
}
