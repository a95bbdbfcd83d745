package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides optional verbose logging and lightweight timing helpers on
// top of zerolog. The zero value discards everything.
type Logger struct {
	zl      zerolog.Logger
	verbose bool
	enabled bool
}

func New(w io.Writer, verbose bool) Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger().Level(level)
	return Logger{zl: zl, verbose: verbose, enabled: true}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return Logger{}
}

func (l Logger) Infof(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.zl.Info().Msgf(format, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if !l.enabled || !l.verbose {
		return
	}
	l.zl.Debug().Msgf(format, args...)
}

func (l Logger) Errorf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.zl.Error().Msgf(format, args...)
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.enabled || !l.verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		l.zl.Debug().Dur("elapsed", time.Since(start)).Msg(label)
	}
}
