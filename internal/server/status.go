package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mallorente/sejusaas/internal/constants"
	"github.com/mallorente/sejusaas/internal/logger"
	"github.com/mallorente/sejusaas/internal/repository"
	"github.com/mallorente/sejusaas/internal/service"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// StatusServer is the operator surface: roster registration, service
// status, and runtime log verbosity. It carries no discovery logic.
type StatusServer struct {
	playerRepo *repository.PlayerRepository
	matchRepo  *repository.MatchRepository
	monitor    *service.Monitor
	levels     *logger.LevelSource
	logger     zerolog.Logger
}

func NewStatusServer(
	playerRepo *repository.PlayerRepository,
	matchRepo *repository.MatchRepository,
	monitor *service.Monitor,
	levels *logger.LevelSource,
	log zerolog.Logger,
) *StatusServer {
	return &StatusServer{
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		monitor:    monitor,
		levels:     levels,
		logger:     log,
	}
}

func (s *StatusServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /players", s.handleListPlayers)
	mux.HandleFunc("POST /players", s.handleRegisterPlayer)
	mux.HandleFunc("PUT /loglevel", s.handleSetLogLevel)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return requestID(s.logger, c.Handler(mux))
}

type statusResponse struct {
	service.Status
	TrackedPlayers int    `json:"tracked_players"`
	CustomGames    int    `json:"custom_games"`
	AutoMatches    int    `json:"auto_matches"`
	LogLevel       string `json:"log_level"`
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	resp := statusResponse{
		Status:   s.monitor.CurrentStatus(),
		LogLevel: s.levels.Level(),
	}

	players, err := s.playerRepo.FindAll(ctx)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	resp.TrackedPlayers = len(players)

	if resp.CustomGames, err = s.matchRepo.Count(ctx, repository.CustomGames); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if resp.AutoMatches, err = s.matchRepo.Count(ctx, repository.AutoMatches); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

type playerResponse struct {
	PlayerID      string     `json:"player_id"`
	PlayerName    string     `json:"player_name"`
	AddedAt       time.Time  `json:"added_at"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
}

func (s *StatusServer) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	players, err := s.playerRepo.FindAll(ctx)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := make([]playerResponse, 0, len(players))
	for _, p := range players {
		resp = append(resp, playerResponse{
			PlayerID:      p.PlayerID,
			PlayerName:    p.PlayerName,
			AddedAt:       p.AddedAt,
			LastCheckedAt: p.LastCheckedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type registerRequest struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

func (s *StatusServer) handleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.PlayerID == "" || req.PlayerName == "" {
		http.Error(w, "player_id and player_name are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	if err := s.playerRepo.Register(ctx, req.PlayerID, req.PlayerName); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, req)
}

type logLevelRequest struct {
	Level string `json:"level"`
}

func (s *StatusServer) handleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	var req logLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if !s.levels.Set(req.Level) {
		http.Error(w, "unknown log level", http.StatusBadRequest)
		return
	}
	logger.SetGlobalLevel(req.Level)
	s.logger.Info().Str("level", req.Level).Msg("log level changed")
	s.writeJSON(w, http.StatusOK, req)
}

func (s *StatusServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *StatusServer) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Error().Err(err).Msg("request failed")
	http.Error(w, err.Error(), status)
}
