// Package logger configures the process-wide zerolog logger.
package logger

import (
	"os"
	"strings"
	"time"

	"SignalSentinel/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global level and output. pretty selects the console writer,
// otherwise JSON lines go to stderr.
func Init(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).Level(lvl)
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
	}
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
	}
}

// Tracer returns a TraceFunc that writes each stage as a debug event.
func Tracer(component string) model.TraceFunc {
	l := log.With().Str("component", component).Logger()
	return func(stage string, values map[string]float64) {
		ev := l.Debug().Str("stage", stage)
		for k, v := range values {
			ev = ev.Float64(k, v)
		}
		ev.Msg("trace")
	}
}
