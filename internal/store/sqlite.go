package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/nexus-form/nexus/internal/survey"
)

const sqliteTable = "nexus_responses"

// SQLiteStore keeps the response table in a single-file SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; SQLite serialises anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err := initSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func initSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (position INTEGER PRIMARY KEY)`, quoteIdent(sqliteTable),
	)); err != nil {
		return fmt.Errorf("init sqlite schema: %w", err)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(sqliteTable)))
	if err != nil {
		return fmt.Errorf("inspect sqlite schema: %w", err)
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			rows.Close()
			return fmt.Errorf("scan sqlite schema: %w", err)
		}
		existing[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate sqlite schema: %w", err)
	}

	for _, col := range survey.Columns() {
		if existing[col] {
			continue
		}
		stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s TEXT NOT NULL DEFAULT ''`, quoteIdent(sqliteTable), quoteIdent(col))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init sqlite schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ReadAll(ctx context.Context) (survey.Table, error) {
	cols := survey.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY position ASC`, strings.Join(quoted, ", "), quoteIdent(sqliteTable),
	))
	if err != nil {
		return survey.Table{}, fmt.Errorf("%w: query responses: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var data [][]string
	for rows.Next() {
		cells := make([]string, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return survey.Table{}, fmt.Errorf("%w: scan response row: %w", ErrUnavailable, err)
		}
		data = append(data, cells)
	}
	if err := rows.Err(); err != nil {
		return survey.Table{}, fmt.Errorf("%w: iterate response rows: %w", ErrUnavailable, err)
	}
	return survey.FromGrid(cols, data), nil
}

func (s *SQLiteStore) WriteAll(ctx context.Context, t survey.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, quoteIdent(sqliteTable))); err != nil {
		return fmt.Errorf("%w: clear responses: %w", ErrUnavailable, err)
	}

	grid := t.Grid()
	quoted := []string{"position"}
	marks := []string{"?"}
	for _, c := range grid[0] {
		quoted = append(quoted, quoteIdent(c))
		marks = append(marks, "?")
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(sqliteTable), strings.Join(quoted, ", "), strings.Join(marks, ", "),
	))
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %w", ErrUnavailable, err)
	}
	defer stmt.Close()

	for i, line := range grid[1:] {
		args := make([]any, 0, len(line)+1)
		args = append(args, i)
		for _, cell := range line {
			args = append(args, cell)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: insert response row %d: %w", ErrUnavailable, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
