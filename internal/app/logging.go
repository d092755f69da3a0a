package app

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger.
// Unknown levels fall back to info.
func NewLogger(level string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}
