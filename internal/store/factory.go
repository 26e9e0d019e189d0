package store

import (
	"context"
	"fmt"
	"strings"
)

// Config selects and configures a backend.
type Config struct {
	Mode        Mode
	DatabaseURL string
	SQLitePath  string
	Sheets      SheetsConfig
}

// ResolveMode picks the backend for ModeAuto: sheets when a spreadsheet is
// configured, then postgres, then sqlite, otherwise in-memory.
func ResolveMode(cfg Config) Mode {
	mode := Mode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))
	if mode != "" && mode != ModeAuto {
		return mode
	}
	switch {
	case strings.TrimSpace(cfg.Sheets.SpreadsheetID) != "":
		return ModeSheets
	case strings.TrimSpace(cfg.DatabaseURL) != "":
		return ModePostgres
	case strings.TrimSpace(cfg.SQLitePath) != "":
		return ModeSQLite
	default:
		return ModeMemory
	}
}

// New opens the configured backend and reports which one was chosen.
func New(ctx context.Context, cfg Config) (Store, Mode, error) {
	mode := ResolveMode(cfg)
	var (
		s   Store
		err error
	)
	switch mode {
	case ModeMemory:
		s = NewInMemoryStore()
	case ModePostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, mode, fmt.Errorf("store mode postgres requires DATABASE_URL")
		}
		s, err = NewPostgresStore(ctx, cfg.DatabaseURL)
	case ModeSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return nil, mode, fmt.Errorf("store mode sqlite requires SQLITE_PATH")
		}
		s, err = NewSQLiteStore(ctx, cfg.SQLitePath)
	case ModeSheets:
		s, err = NewSheetsStore(ctx, cfg.Sheets)
	default:
		return nil, mode, fmt.Errorf("invalid store mode %q (expected auto|memory|postgres|sqlite|sheets)", cfg.Mode)
	}
	if err != nil {
		return nil, mode, err
	}
	return s, mode, nil
}
