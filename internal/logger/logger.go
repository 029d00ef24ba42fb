package logger

import (
	"os"
	"strings"
	"time"

	"github.com/lshigami/assessment-engine/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init installs a console logger at info level. Call it before anything logs.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// Apply reconfigures the global logger from loaded config.
func Apply(cfg *config.Config) {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Log.Level))
	if cfg.Log.Pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "assessment-engine").Logger()
	}
	log.Debug().Str("level", zerolog.GlobalLevel().String()).Msg("Logger configured")
}

// ParseLevel falls back to info on unknown input.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
