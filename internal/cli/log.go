// Package cli implements the gridnet command-line interface.
//
// The commands play scenario files against the partition engine, check the
// engine on random graphs and render partitions with Graphviz. The CLI is
// built with cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - simulate: Play a scenario and print the partition after every step
//   - check: Compare the engine with a connected-components oracle
//   - render: Draw the partition after a step as SVG or DOT
//   - cache: Manage the rendered artifact cache
//   - config: Show the configuration in effect
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing timestamps as "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time, rounded to the
// millisecond, appended to keyvals:
//
//	14:32:01.45 INFO Simulated scenario=line steps=9 elapsed=3ms
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey struct{}

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
