// Package store persists the response table. Every backend replaces the
// whole table on write; none of them issue partial updates.
package store

import (
	"context"
	"errors"

	"github.com/nexus-form/nexus/internal/survey"
)

// ErrUnavailable wraps every read or write failure of a backend.
var ErrUnavailable = errors.New("store unavailable")

// Store is the read-all/write-all contract of the backing table.
type Store interface {
	// ReadAll returns the full table, or an empty table when nothing is stored.
	ReadAll(ctx context.Context) (survey.Table, error)
	// WriteAll replaces the stored table with t in the fixed column order.
	WriteAll(ctx context.Context, t survey.Table) error
	Close() error
}

// Mode names a backend.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeMemory   Mode = "memory"
	ModePostgres Mode = "postgres"
	ModeSQLite   Mode = "sqlite"
	ModeSheets   Mode = "sheets"
)
