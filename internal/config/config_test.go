package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_PATH", "COH3STATS_BASE_URL", "FETCHER", "CHECK_INTERVAL",
		"FLOOR_INTERVAL", "BATCH_SIZE", "LOG_LEVEL", "STATUS_PORT",
		"GOOGLE_SHEETS_ID",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "sejusaas.db", cfg.DBPath)
	assert.Equal(t, "https://coh3stats.com", cfg.BaseURL)
	assert.Equal(t, "http", cfg.FetcherKind)
	assert.Equal(t, 15*time.Minute, cfg.CheckInterval)
	assert.Equal(t, time.Minute, cfg.FloorInterval)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.StatusPort)
	assert.Empty(t, cfg.SpreadsheetID)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FETCHER", "browser")
	t.Setenv("CHECK_INTERVAL", "300")
	t.Setenv("BATCH_SIZE", "2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "browser", cfg.FetcherKind)
	assert.Equal(t, 5*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 2, cfg.BatchSize)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsUnknownFetcher(t *testing.T) {
	t.Setenv("FETCHER", "carrier-pigeon")

	_, err := Load(testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCHER")
}

func TestLoadRejectsNonPositiveBatchSize(t *testing.T) {
	t.Setenv("FETCHER", "http")
	t.Setenv("BATCH_SIZE", "0")

	_, err := Load(testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoadIgnoresMalformedInterval(t *testing.T) {
	t.Setenv("FETCHER", "http")
	t.Setenv("CHECK_INTERVAL", "soon")
	t.Setenv("BATCH_SIZE", "")

	cfg, err := Load(testLogger())
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.CheckInterval)
}

func TestLoadRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	content := `players:
  - player_id: "100"
    player_name: alpha
  - player_id: "200"
    player_name: bravo
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	seeds, err := LoadRoster(path)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, RosterSeed{PlayerID: "100", PlayerName: "alpha"}, seeds[0])
	assert.Equal(t, RosterSeed{PlayerID: "200", PlayerName: "bravo"}, seeds[1])
}

func TestLoadRosterRejectsIncompleteEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	content := `players:
  - player_id: "100"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadRoster(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestLoadRosterMissingFile(t *testing.T) {
	_, err := LoadRoster(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
