package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexus-form/nexus/internal/survey"
)

const postgresTable = "nexus_responses"

// PostgresStore keeps the response table in PostgreSQL, one SQL row per
// table row with a position column preserving order.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initPostgresSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initPostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	table := pgx.Identifier{postgresTable}.Sanitize()
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (position INTEGER PRIMARY KEY);`, table),
	}
	// Columns are added one by one so older tables pick up new schema columns.
	for _, col := range survey.Columns() {
		stmts = append(stmts, fmt.Sprintf(
			`ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s TEXT NOT NULL DEFAULT '';`,
			table, pgx.Identifier{col}.Sanitize(),
		))
	}
	stmts = append(stmts, fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS idx_nexus_responses_match_id ON %s (%s);`,
		table, pgx.Identifier{survey.ColumnMatchID}.Sanitize(),
	))

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) ReadAll(ctx context.Context) (survey.Table, error) {
	cols := survey.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY position ASC`,
		strings.Join(quoted, ", "), pgx.Identifier{postgresTable}.Sanitize(),
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

func (s *PostgresStore) WriteAll(ctx context.Context, t survey.Table) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, pgx.Identifier{postgresTable}.Sanitize())); err != nil {
		return fmt.Errorf("%w: clear responses: %w", ErrUnavailable, err)
	}

	grid := t.Grid()
	columns := append([]string{"position"}, grid[0]...)
	rows := make([][]any, 0, len(grid)-1)
	for i, line := range grid[1:] {
		values := make([]any, 0, len(line)+1)
		values = append(values, i)
		for _, cell := range line {
			values = append(values, cell)
		}
		rows = append(rows, values)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{postgresTable}, columns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("%w: copy responses: %w", ErrUnavailable, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit tx: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
