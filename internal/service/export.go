package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mallorente/sejusaas/internal/config"
	"github.com/mallorente/sejusaas/internal/domain"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var exportHeader = []any{
	"Discovered", "Match Date", "Map", "Mode", "Result", "Axis", "Allies", "Fingerprint",
}

// SheetsExporter appends newly discovered custom games to a Google Sheets
// worksheet. Export is best-effort reporting; the monitor only logs a
// warning when it fails.
type SheetsExporter struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
	headerWritten bool
	logger        zerolog.Logger
}

// NewExporter builds the sheets exporter, or a no-op when no spreadsheet is
// configured.
func NewExporter(cfg *config.Config, logger zerolog.Logger) (Exporter, error) {
	if cfg.SpreadsheetID == "" {
		logger.Info().Msg("sheets export disabled")
		return noopExporter{}, nil
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := sheets.NewService(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	logger.Info().Str("spreadsheet_id", cfg.SpreadsheetID).Str("worksheet", cfg.WorksheetName).Msg("sheets export enabled")
	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.WorksheetName,
		logger:        logger,
	}, nil
}

func (e *SheetsExporter) Append(ctx context.Context, matches []domain.Match) error {
	if len(matches) == 0 {
		return nil
	}

	if err := e.ensureHeader(ctx); err != nil {
		return err
	}

	rows := make([][]any, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, matchRow(m))
	}

	_, err := e.svc.Spreadsheets.Values.
		Append(e.spreadsheetID, e.worksheet, &sheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows to %s: %w", e.worksheet, err)
	}
	return nil
}

func (e *SheetsExporter) ensureHeader(ctx context.Context) error {
	if e.headerWritten {
		return nil
	}

	resp, err := e.svc.Spreadsheets.Values.
		Get(e.spreadsheetID, e.worksheet+"!A1:H1").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	if len(resp.Values) == 0 {
		_, err = e.svc.Spreadsheets.Values.
			Update(e.spreadsheetID, e.worksheet+"!A1", &sheets.ValueRange{Values: [][]any{exportHeader}}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write header row: %w", err)
		}
		e.logger.Debug().Str("worksheet", e.worksheet).Msg("header row written")
	}

	e.headerWritten = true
	return nil
}

func matchRow(m domain.Match) []any {
	date := m.RawDate
	if !m.MatchDate.IsZero() {
		date = m.MatchDate.UTC().Format("2006-01-02 15:04:05")
	}
	return []any{
		m.DiscoveredAt.UTC().Format("2006-01-02 15:04:05"),
		date,
		m.MapName,
		m.Mode,
		string(m.MatchResult),
		rosterNames(m.AxisPlayers),
		rosterNames(m.AlliesPlayers),
		m.Fingerprint,
	}
}

func rosterNames(roster []domain.RosterEntry) string {
	names := make([]string, 0, len(roster))
	for _, p := range roster {
		names = append(names, p.PlayerName)
	}
	return strings.Join(names, ", ")
}

type noopExporter struct{}

func (noopExporter) Append(context.Context, []domain.Match) error { return nil }
