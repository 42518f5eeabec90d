package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New cria o logger da aplicação. Debug só é emitido quando debugEnabled.
func New(debugEnabled, pretty bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, debugEnabled, pretty)
}

func NewWithWriter(w io.Writer, debugEnabled, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if debugEnabled {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
