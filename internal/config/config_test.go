package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.Worksheet != "responses" {
		t.Fatalf("Worksheet = %q, want %q", cfg.Worksheet, "responses")
	}
	if cfg.BaseURL != "" {
		t.Fatalf("BaseURL = %q, want empty default", cfg.BaseURL)
	}
	if cfg.StoreMode != "auto" {
		t.Fatalf("StoreMode = %q, want auto", cfg.StoreMode)
	}
}

func TestLoadEnvOverridesAndTrimsBaseURL(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BASE_URL", " https://nexus.example.com/ ")
	t.Setenv("GSHEETS_WORKSHEET", "pares")
	t.Setenv("APP_STORE_TIMEOUT", "3s")
	t.Setenv("NEXUS_STORE", "Memory")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != "https://nexus.example.com" {
		t.Fatalf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.Worksheet != "pares" {
		t.Fatalf("Worksheet = %q, want %q", cfg.Worksheet, "pares")
	}
	if cfg.StoreTimeout != 3*time.Second {
		t.Fatalf("StoreTimeout = %v, want 3s", cfg.StoreTimeout)
	}
	if cfg.StoreMode != "memory" {
		t.Fatalf("StoreMode = %q, want memory", cfg.StoreMode)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	setCoreEnvEmpty(t)
	path := filepath.Join(t.TempDir(), "nexus.yaml")
	body := "bind_addr: \":9090\"\nstore: sqlite\nsqlite_path: /tmp/nexus.db\nshutdown_timeout: 5s\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("APP_BIND_ADDR", ":9191")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":9191" {
		t.Fatalf("BindAddr = %q, want env to win over file", cfg.BindAddr)
	}
	if cfg.StoreMode != "sqlite" || cfg.SQLitePath != "/tmp/nexus.db" {
		t.Fatalf("store settings = %q %q, want file values", cfg.StoreMode, cfg.SQLitePath)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("ShutdownTimeout = %v, want 5s", cfg.ShutdownTimeout)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"NEXUS_STORE":          "excel",
		"APP_STORE_TIMEOUT":    "soon",
		"LOG_FORMAT":           "xml",
		"APP_SUBMIT_BURST":     "many",
		"APP_SHUTDOWN_TIMEOUT": "-",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setCoreEnvEmpty(t)
			t.Setenv(key, value)
			if _, err := Load(""); err == nil {
				t.Fatalf("Load() with %s=%q succeeded, want error", key, value)
			}
		})
	}
}

func TestLoadSheetsRequiresSpreadsheet(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("NEXUS_STORE", "sheets")
	if _, err := Load(""); err == nil {
		t.Fatalf("Load() error = nil, want missing spreadsheet id error")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"NEXUS_CONFIG",
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_STORE_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_BASE_URL",
		"APP_SUBMIT_RATE_PER_MINUTE",
		"APP_SUBMIT_BURST",
		"NEXUS_STORE",
		"DATABASE_URL",
		"SQLITE_PATH",
		"GSHEETS_SPREADSHEET_ID",
		"GSHEETS_WORKSHEET",
		"GSHEETS_CREDENTIALS_FILE",
		"LOG_LEVEL",
		"LOG_FORMAT",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
