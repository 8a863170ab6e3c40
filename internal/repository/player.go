package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mallorente/sejusaas/internal/domain"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("not found")

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(db *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: db, logger: logger}
}

func (r *PlayerRepository) FindAll(ctx context.Context) ([]domain.TrackedPlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player_id, player_name, added_at, last_checked_at
		 FROM tracked_players ORDER BY added_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked players: %w", err)
	}
	defer rows.Close()

	var players []domain.TrackedPlayer
	for rows.Next() {
		var p domain.TrackedPlayer
		var lastChecked sql.NullTime
		if err := rows.Scan(&p.PlayerID, &p.PlayerName, &p.AddedAt, &lastChecked); err != nil {
			return nil, fmt.Errorf("failed to scan tracked player: %w", err)
		}
		if lastChecked.Valid {
			t := lastChecked.Time
			p.LastCheckedAt = &t
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *PlayerRepository) Get(ctx context.Context, playerID string) (*domain.TrackedPlayer, error) {
	var p domain.TrackedPlayer
	var lastChecked sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT player_id, player_name, added_at, last_checked_at
		 FROM tracked_players WHERE player_id = ?`, playerID).
		Scan(&p.PlayerID, &p.PlayerName, &p.AddedAt, &lastChecked)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked player: %w", err)
	}
	if lastChecked.Valid {
		t := lastChecked.Time
		p.LastCheckedAt = &t
	}
	return &p, nil
}

// Register adds a player to the roster. Registering an already tracked
// player keeps the existing row, including its last_checked_at.
func (r *PlayerRepository) Register(ctx context.Context, playerID, playerName string) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tracked_players (player_id, player_name, added_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (player_id) DO NOTHING`,
		playerID, playerName, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to register player %s: %w", playerID, err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		r.logger.Info().Str("player_id", playerID).Str("player_name", playerName).Msg("player registered")
	}
	return nil
}

func (r *PlayerRepository) UpdateLastChecked(ctx context.Context, playerID string, checkedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tracked_players SET last_checked_at = ? WHERE player_id = ?`,
		checkedAt.UTC(), playerID)
	if err != nil {
		return fmt.Errorf("failed to update last_checked_at for %s: %w", playerID, err)
	}
	return nil
}
