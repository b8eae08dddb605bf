package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the service logger. Console output in development, JSON
// elsewhere.
func New(env, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	l := zerolog.New(os.Stdout)
	if env == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return l.Level(lvl).With().Timestamp().Str("service", "insights-service").Logger()
}
