package diag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// Sink receives raw page dumps when every extraction strategy came up
// empty. Capture is advisory: failures are logged and swallowed.
type Sink interface {
	SavePage(playerName string, content []byte)
}

type FileSink struct {
	dir    string
	logger zerolog.Logger
}

func NewFileSink(dir string, logger zerolog.Logger) *FileSink {
	return &FileSink{dir: dir, logger: logger}
}

func (s *FileSink) SavePage(playerName string, content []byte) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Warn().Err(err).Str("dir", s.dir).Msg("failed to create diagnostics dir")
		return
	}

	id, err := gonanoid.New()
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to generate diagnostic id")
		return
	}

	name := fmt.Sprintf("page_%s_%s.html", sanitize(playerName), id)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("failed to save page dump")
		return
	}

	s.logger.Warn().Str("player", playerName).Str("path", path).Msg("saved page dump for inspection")
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
