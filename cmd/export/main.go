// Command export dumps the stored custom games (or auto matches) as CSV or
// JSON for off-system reporting.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mallorente/sejusaas/internal/domain"
	"github.com/mallorente/sejusaas/internal/logger"
	"github.com/mallorente/sejusaas/internal/repository"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/pflag"
)

func main() {
	dbPath := pflag.String("db", "sejusaas.db", "path to the sqlite database")
	collection := pflag.String("collection", "custom", "collection to export: custom or auto")
	format := pflag.String("format", "csv", "output format: csv or json")
	out := pflag.String("out", "", "output file (default stdout)")
	since := pflag.String("since", "", "only matches discovered at or after this RFC3339 time")
	pflag.Parse()

	log := logger.New()

	if err := export(*dbPath, *collection, *format, *out, *since); err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}
}

func export(dbPath, collection, format, out, since string) error {
	var col repository.Collection
	switch collection {
	case "custom":
		col = repository.CustomGames
	case "auto":
		col = repository.AutoMatches
	default:
		return fmt.Errorf("unknown collection %q", collection)
	}

	var sinceTime time.Time
	if since != "" {
		var err error
		sinceTime, err = time.Parse(time.RFC3339, since)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repository.NewMatchRepository(db, logger.New())
	matches, err := repo.ListSince(context.Background(), col, sinceTime)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "csv":
		return writeCSV(w, matches)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeCSV(w io.Writer, matches []domain.Match) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"discovered_at", "match_date", "map", "mode", "result", "axis", "allies", "fingerprint"}); err != nil {
		return err
	}

	for _, m := range matches {
		date := m.RawDate
		if !m.MatchDate.IsZero() {
			date = m.MatchDate.UTC().Format("2006-01-02 15:04:05")
		}
		record := []string{
			m.DiscoveredAt.UTC().Format("2006-01-02 15:04:05"),
			date,
			m.MapName,
			m.Mode,
			string(m.MatchResult),
			rosterCSV(m.AxisPlayers),
			rosterCSV(m.AlliesPlayers),
			m.Fingerprint,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func rosterCSV(roster []domain.RosterEntry) string {
	s := ""
	for i, p := range roster {
		if i > 0 {
			s += "; "
		}
		s += p.PlayerName
	}
	return s
}
