package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all runtime settings for the questionnaire service.
type Config struct {
	BindAddr         string        `yaml:"bind_addr"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
	StoreTimeout     time.Duration `yaml:"store_timeout"`
	MetricsNamespace string        `yaml:"metrics_namespace"`

	// BaseURL prefixes share links; empty yields relative links.
	BaseURL string `yaml:"base_url"`

	SubmitRatePerMinute float64 `yaml:"submit_rate_per_minute"`
	SubmitBurst         int     `yaml:"submit_burst"`

	StoreMode   string `yaml:"store"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`

	SpreadsheetID   string `yaml:"gsheets_spreadsheet_id"`
	Worksheet       string `yaml:"gsheets_worksheet"`
	CredentialsFile string `yaml:"gsheets_credentials_file"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the settings used when neither file nor environment set a key.
func Default() Config {
	return Config{
		BindAddr:            ":8080",
		ShutdownTimeout:     15 * time.Second,
		StoreTimeout:        20 * time.Second,
		MetricsNamespace:    "nexus",
		SubmitRatePerMinute: 6,
		SubmitBurst:         3,
		StoreMode:           "auto",
		Worksheet:           "responses",
		LogLevel:            "info",
		LogFormat:           "json",
	}
}

// Load applies defaults, then the YAML file at path (or NEXUS_CONFIG when
// path is empty), then environment variables, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = stringsTrimSpace("NEXUS_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.BindAddr = envOrDefault("APP_BIND_ADDR", cfg.BindAddr)
	cfg.MetricsNamespace = envOrDefault("APP_METRICS_NAMESPACE", cfg.MetricsNamespace)
	cfg.BaseURL = envOrDefault("APP_BASE_URL", cfg.BaseURL)
	cfg.StoreMode = envOrDefault("NEXUS_STORE", cfg.StoreMode)
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.SQLitePath = envOrDefault("SQLITE_PATH", cfg.SQLitePath)
	cfg.SpreadsheetID = envOrDefault("GSHEETS_SPREADSHEET_ID", cfg.SpreadsheetID)
	cfg.Worksheet = envOrDefault("GSHEETS_WORKSHEET", cfg.Worksheet)
	cfg.CredentialsFile = envOrDefault("GSHEETS_CREDENTIALS_FILE", cfg.CredentialsFile)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOrDefault("LOG_FORMAT", cfg.LogFormat)

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.StoreTimeout, err = durationFromEnv("APP_STORE_TIMEOUT", cfg.StoreTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SubmitRatePerMinute, err = floatFromEnv("APP_SUBMIT_RATE_PER_MINUTE", cfg.SubmitRatePerMinute)
	if err != nil {
		return Config{}, err
	}
	cfg.SubmitBurst, err = intFromEnv("APP_SUBMIT_BURST", cfg.SubmitBurst)
	if err != nil {
		return Config{}, err
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.StoreMode = strings.ToLower(strings.TrimSpace(cfg.StoreMode))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreMode {
	case "auto", "memory", "postgres", "sqlite", "sheets":
	default:
		return fmt.Errorf("NEXUS_STORE must be one of auto|memory|postgres|sqlite|sheets, got %q", c.StoreMode)
	}
	if c.StoreMode == "sheets" && strings.TrimSpace(c.SpreadsheetID) == "" {
		return fmt.Errorf("NEXUS_STORE=sheets requires GSHEETS_SPREADSHEET_ID")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("APP_STORE_TIMEOUT must be positive")
	}
	if c.SubmitRatePerMinute < 0 {
		return fmt.Errorf("APP_SUBMIT_RATE_PER_MINUTE must be >= 0")
	}
	if c.SubmitRatePerMinute > 0 && c.SubmitBurst <= 0 {
		return fmt.Errorf("APP_SUBMIT_BURST must be positive when rate limiting is enabled")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}
