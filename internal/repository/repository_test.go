package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mallorente/sejusaas/internal/config"
	"github.com/mallorente/sejusaas/internal/database"
	"github.com/mallorente/sejusaas/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.New(cfg, zerolog.New(os.Stderr).Level(zerolog.Disabled))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleMatch(fingerprint string) *domain.Match {
	return &domain.Match{
		SourceMatchID: "12345",
		MatchDate:     time.Date(2024, 3, 1, 21, 30, 0, 0, time.UTC),
		RawDate:       "2024-03-01 21:30:00",
		MatchType:     domain.MatchTypeCustom,
		MatchResult:   domain.ResultVictory,
		MapName:       "Pachino Farmlands",
		Mode:          "2v2",
		AxisPlayers:   []domain.RosterEntry{{PlayerID: "100", PlayerName: "alpha"}},
		AlliesPlayers: []domain.RosterEntry{{PlayerID: "200", PlayerName: "bravo"}},
		Source:        domain.SourceNextData,
		Fingerprint:   fingerprint,
		DiscoveredAt:  time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestPlayerRegisterAndFindAll(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Register(ctx, "100", "alpha"))
	require.NoError(t, repo.Register(ctx, "200", "bravo"))

	players, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "100", players[0].PlayerID)
	assert.Equal(t, "alpha", players[0].PlayerName)
	assert.Nil(t, players[0].LastCheckedAt)
}

func TestPlayerRegisterIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Register(ctx, "100", "alpha"))
	checked := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastChecked(ctx, "100", checked))

	// Re-registering must not reset the existing row.
	require.NoError(t, repo.Register(ctx, "100", "alpha-renamed"))

	p, err := repo.Get(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "alpha", p.PlayerName)
	require.NotNil(t, p.LastCheckedAt)
	assert.True(t, p.LastCheckedAt.Equal(checked))
}

func TestPlayerGetNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchInsertNewIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()
	m := sampleMatch("fp-custom-1")

	inserted, err := repo.InsertNew(ctx, CustomGames, m)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertNew(ctx, CustomGames, m)
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := repo.Count(ctx, CustomGames)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMatchRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()
	m := sampleMatch("fp-auto-1")
	m.MatchType = domain.MatchTypeAutomatch

	_, err := repo.InsertNew(ctx, AutoMatches, m)
	require.NoError(t, err)

	got, err := repo.FindByFingerprint(ctx, AutoMatches, "fp-auto-1")
	require.NoError(t, err)
	assert.Equal(t, m.SourceMatchID, got.SourceMatchID)
	assert.Equal(t, m.RawDate, got.RawDate)
	assert.Equal(t, domain.MatchTypeAutomatch, got.MatchType)
	assert.Equal(t, m.AxisPlayers, got.AxisPlayers)
	assert.Equal(t, m.AlliesPlayers, got.AlliesPlayers)
	assert.True(t, got.MatchDate.Equal(m.MatchDate))
}

func TestMatchCollectionsAreSeparate(t *testing.T) {
	db := openTestDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()

	_, err := repo.InsertNew(ctx, CustomGames, sampleMatch("fp-1"))
	require.NoError(t, err)

	_, err = repo.FindByFingerprint(ctx, AutoMatches, "fp-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchFindByFingerprintNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())

	_, err := repo.FindByFingerprint(context.Background(), CustomGames, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchListSince(t *testing.T) {
	db := openTestDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()

	old := sampleMatch("fp-old")
	old.DiscoveredAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := sampleMatch("fp-recent")
	recent.DiscoveredAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, m := range []*domain.Match{old, recent} {
		_, err := repo.InsertNew(ctx, CustomGames, m)
		require.NoError(t, err)
	}

	all, err := repo.ListSince(ctx, CustomGames, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "fp-old", all[0].Fingerprint)

	cutoff := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	filtered, err := repo.ListSince(ctx, CustomGames, cutoff)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "fp-recent", filtered[0].Fingerprint)
}

func TestMatchRejectsUnknownCollection(t *testing.T) {
	db := openTestDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())

	_, err := repo.InsertNew(context.Background(), Collection("players"), sampleMatch("fp"))
	assert.Error(t, err)
}
