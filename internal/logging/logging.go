// Package logging configures the zerolog logger shared by every component.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Setup returns a console logger writing to w. Verbose lowers the level to debug.
func Setup(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Component returns a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
