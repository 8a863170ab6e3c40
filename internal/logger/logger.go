package logger

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger
}

// SetGlobalLevel applies a level name to the process-wide log level. Unknown
// names leave the level untouched and report false.
func SetGlobalLevel(level string) bool {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return false
	}
	zerolog.SetGlobalLevel(parsed)
	return true
}

// LevelSource holds the desired log verbosity so it can be changed at
// runtime. The monitor applies it at the start of every cycle; the status
// API writes it.
type LevelSource struct {
	v atomic.Value
}

func NewLevelSource(initial string) *LevelSource {
	s := &LevelSource{}
	if _, err := zerolog.ParseLevel(initial); err != nil {
		initial = "info"
	}
	s.v.Store(initial)
	SetGlobalLevel(initial)
	return s
}

func (s *LevelSource) Level() string {
	return s.v.Load().(string)
}

// Set validates and stores a new level name.
func (s *LevelSource) Set(level string) bool {
	if _, err := zerolog.ParseLevel(level); err != nil {
		return false
	}
	s.v.Store(level)
	return true
}
