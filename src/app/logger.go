package app

import (
	"os"

	"github.com/rs/zerolog"
)

// InitLogger builds the root console logger for the dashboard process
// and sets the global level. Every component logger derives from this
// one through the request context.
func InitLogger(levelStr string) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Human-readable output; this is a single-user dashboard, not a
	// log-aggregated fleet
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		NoColor:    false,
		TimeFormat: "2006-01-02 15:04:05",
	}

	logger := zerolog.New(output).With().
		Timestamp().
		Logger()

	return logger
}
