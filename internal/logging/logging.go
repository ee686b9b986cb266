// Package logging configures zerolog for the CLI and adapts it to the
// orm.Logger interface used for statement logging.
package logging

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/mickamy/heroes/orm"
)

// New returns a console logger writing to w at the given level. An
// unparsable level falls back to info and the returned error says so.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().Timestamp().
		Logger()
	return logger, err //nolint:wrapcheck // zerolog's message names the bad level
}

// QueryLogger logs every statement at debug level.
type QueryLogger struct {
	Logger zerolog.Logger
}

var _ orm.Logger = QueryLogger{}

func (l QueryLogger) Log(_ context.Context, query string, args ...any) {
	l.Logger.Debug().Str("sql", query).Int("args", len(args)).Msg("query")
}
