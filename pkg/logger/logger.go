package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration
type Config struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	Output io.Writer
}

// ParseLevel converts a config string into a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// New builds a zerolog.Logger from cfg.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "clinic-api").
		Logger()
}

// Setup installs the configured logger as the global zerolog logger. It is
// also the fallback for log.Ctx on contexts without a request logger.
func Setup(cfg Config) zerolog.Logger {
	l := New(cfg)
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	log.Logger = l
	zerolog.DefaultContextLogger = &log.Logger
	return l
}
