package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mallorente/sejusaas/internal/constants"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath        string
	BaseURL       string
	FetcherKind   string // "http" or "browser"
	UserAgent     string
	CheckInterval time.Duration
	FloorInterval time.Duration
	BatchSize     int
	LogLevel      string
	StatusPort    string
	RosterFile    string
	DiagDir       string

	// Google Sheets export; disabled when SpreadsheetID is empty.
	SpreadsheetID   string
	WorksheetName   string
	CredentialsFile string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:          getEnv("DB_PATH", "sejusaas.db"),
		BaseURL:         getEnv("COH3STATS_BASE_URL", "https://coh3stats.com"),
		FetcherKind:     getEnv("FETCHER", "http"),
		UserAgent:       getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0"),
		CheckInterval:   getEnvSeconds("CHECK_INTERVAL", constants.DefaultCheckInterval),
		FloorInterval:   getEnvSeconds("FLOOR_INTERVAL", constants.FloorInterval),
		BatchSize:       getEnvInt("BATCH_SIZE", constants.DefaultBatchSize),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		StatusPort:      getEnv("STATUS_PORT", "8080"),
		RosterFile:      getEnv("ROSTER_FILE", ""),
		DiagDir:         getEnv("DIAG_DIR", "diagnostics"),
		SpreadsheetID:   getEnv("GOOGLE_SHEETS_ID", ""),
		WorksheetName:   getEnv("GOOGLE_SHEETS_WORKSHEET", "Auto Registro"),
		CredentialsFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
	}

	if cfg.FetcherKind != "http" && cfg.FetcherKind != "browser" {
		return nil, fmt.Errorf("FETCHER must be \"http\" or \"browser\", got %q", cfg.FetcherKind)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("base_url", cfg.BaseURL).
		Str("fetcher", cfg.FetcherKind).
		Dur("check_interval", cfg.CheckInterval).
		Int("batch_size", cfg.BatchSize).
		Str("log_level", cfg.LogLevel).
		Str("status_port", cfg.StatusPort).
		Bool("sheets_export", cfg.SpreadsheetID != "").
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
