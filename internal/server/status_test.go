package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mallorente/sejusaas/internal/config"
	"github.com/mallorente/sejusaas/internal/database"
	"github.com/mallorente/sejusaas/internal/logger"
	"github.com/mallorente/sejusaas/internal/repository"
	"github.com/mallorente/sejusaas/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*StatusServer, *repository.PlayerRepository) {
	t.Helper()

	log := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db"), BatchSize: 5}

	db, err := database.New(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	playerRepo := repository.NewPlayerRepository(db, log)
	matchRepo := repository.NewMatchRepository(db, log)
	levels := logger.NewLevelSource("info")
	monitor := service.NewMonitor(playerRepo, matchRepo, nil, nil,
		service.NewScheduler(log), nil, nil, cfg, levels, log)

	return NewStatusServer(playerRepo, matchRepo, monitor, levels, log), playerRepo
}

func TestStatusEndpoint(t *testing.T) {
	srv, players := newTestServer(t)
	require.NoError(t, players.Register(t.Context(), "100", "alpha"))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Cycles         int    `json:"cycles"`
		TrackedPlayers int    `json:"tracked_players"`
		CustomGames    int    `json:"custom_games"`
		AutoMatches    int    `json:"auto_matches"`
		LogLevel       string `json:"log_level"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Cycles)
	assert.Equal(t, 1, resp.TrackedPlayers)
	assert.Equal(t, 0, resp.CustomGames)
	assert.Equal(t, "info", resp.LogLevel)
}

func TestRegisterPlayerEndpoint(t *testing.T) {
	srv, players := newTestServer(t)

	body := bytes.NewBufferString(`{"player_id":"200","player_name":"bravo"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/players", body))

	require.Equal(t, http.StatusCreated, rec.Code)

	p, err := players.Get(t.Context(), "200")
	require.NoError(t, err)
	assert.Equal(t, "bravo", p.PlayerName)
}

func TestRegisterPlayerRequiresFields(t *testing.T) {
	srv, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"player_id":"200"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/players", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPlayersEndpoint(t *testing.T) {
	srv, players := newTestServer(t)
	require.NoError(t, players.Register(t.Context(), "100", "alpha"))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []struct {
		PlayerID   string `json:"player_id"`
		PlayerName string `json:"player_name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "100", resp[0].PlayerID)
}

func TestSetLogLevelEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"level":"debug"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/loglevel", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/loglevel",
		bytes.NewBufferString(`{"level":"shouting"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
