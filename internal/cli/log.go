// Package cli implements the cellblend command-line interface.
//
// # Commands
//
//   - play: the game in the terminal (bubbletea)
//   - render: generate a diagram, apply clicks, and write SVG, PNG, JSON or DOT
//   - serve: the game in the browser over HTTP
//   - palette: show the palette colors and their distances
//   - cache: manage the rendered artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels on the CLI struct and through context.Context, so helpers below
// the command layer can reach it with loggerFromContext.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger stamping each line with "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a command step took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 42 cells (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger set by withLogger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
