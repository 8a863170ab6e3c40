package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mallorente/sejusaas/internal/domain"
	"github.com/rs/zerolog"
)

// Collection names the two match stores. The fingerprint is the primary key
// of both tables, so a duplicate insert surfaces as a constraint violation.
type Collection string

const (
	CustomGames Collection = "custom_games"
	AutoMatches Collection = "auto_matches"
)

func (c Collection) valid() bool {
	return c == CustomGames || c == AutoMatches
}

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(db *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: db, logger: logger}
}

func (r *MatchRepository) FindByFingerprint(ctx context.Context, col Collection, fingerprint string) (*domain.Match, error) {
	if !col.valid() {
		return nil, fmt.Errorf("unknown collection %q", col)
	}

	row := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT fingerprint, source_match_id, match_date, raw_date, match_type,
		        match_result, map_name, mode, axis_players, allies_players,
		        source, discovered_at
		 FROM %s WHERE fingerprint = ?`, col), fingerprint)

	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find match in %s: %w", col, err)
	}
	return m, nil
}

// InsertNew stores the match unless its fingerprint is already present.
// It reports whether a row was actually written; re-observing a known match
// is a silent no-op.
func (r *MatchRepository) InsertNew(ctx context.Context, col Collection, m *domain.Match) (bool, error) {
	if !col.valid() {
		return false, fmt.Errorf("unknown collection %q", col)
	}

	axis, err := json.Marshal(m.AxisPlayers)
	if err != nil {
		return false, fmt.Errorf("failed to marshal axis roster: %w", err)
	}
	allies, err := json.Marshal(m.AlliesPlayers)
	if err != nil {
		return false, fmt.Errorf("failed to marshal allies roster: %w", err)
	}

	var matchDate any
	if !m.MatchDate.IsZero() {
		matchDate = m.MatchDate.UTC()
	}

	res, err := r.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (fingerprint, source_match_id, match_date, raw_date,
		                 match_type, match_result, map_name, mode,
		                 axis_players, allies_players, source, discovered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (fingerprint) DO NOTHING`, col),
		m.Fingerprint, m.SourceMatchID, matchDate, m.RawDate,
		string(m.MatchType), string(m.MatchResult), m.MapName, m.Mode,
		string(axis), string(allies), m.Source, m.DiscoveredAt.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to insert match into %s: %w", col, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n > 0, nil
}

func (r *MatchRepository) Count(ctx context.Context, col Collection) (int, error) {
	if !col.valid() {
		return 0, fmt.Errorf("unknown collection %q", col)
	}

	var count int
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", col)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", col, err)
	}
	return count, nil
}

// ListSince returns matches discovered at or after the given time, oldest
// first. A zero time returns the whole collection.
func (r *MatchRepository) ListSince(ctx context.Context, col Collection, since time.Time) ([]domain.Match, error) {
	if !col.valid() {
		return nil, fmt.Errorf("unknown collection %q", col)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT fingerprint, source_match_id, match_date, raw_date, match_type,
		        match_result, map_name, mode, axis_players, allies_players,
		        source, discovered_at
		 FROM %s WHERE discovered_at >= ? ORDER BY discovered_at`, col), since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", col, err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match from %s: %w", col, err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*domain.Match, error) {
	var m domain.Match
	var matchDate sql.NullTime
	var matchType, matchResult string
	var axis, allies []byte

	err := row.Scan(&m.Fingerprint, &m.SourceMatchID, &matchDate, &m.RawDate,
		&matchType, &matchResult, &m.MapName, &m.Mode, &axis, &allies,
		&m.Source, &m.DiscoveredAt)
	if err != nil {
		return nil, err
	}

	if matchDate.Valid {
		m.MatchDate = matchDate.Time
	}
	m.MatchType = domain.MatchType(matchType)
	m.MatchResult = domain.MatchResult(matchResult)

	if err := json.Unmarshal(axis, &m.AxisPlayers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal axis roster: %w", err)
	}
	if err := json.Unmarshal(allies, &m.AlliesPlayers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal allies roster: %w", err)
	}
	return &m, nil
}
