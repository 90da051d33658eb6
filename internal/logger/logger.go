package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Debug mode switches to the
// colored console writer.
func Setup(level string, debug bool) zerolog.Logger {
	var out io.Writer = os.Stdout
	if debug {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return SetupWriter(out, level)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(out io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	l := zerolog.New(out).With().Timestamp().Str("service", "portfolio").Logger()
	log.Logger = l
	return l
}
