package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the application-wide logger.
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures Logger. format "json" writes JSON lines; anything else uses the console writer.
func Init(level, format string) {
	var out io.Writer = os.Stdout
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	Logger = New(out, level)
	Logger.Info().Str("level", Logger.GetLevel().String()).Msg("logger initialised")
}

// New builds a logger writing to w at the given level (default info).
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Caller().Logger().Level(lvl)
}
