// Package cli implements the parttree command-line interface.
//
// This package provides commands for turning InvenTree part hierarchies and
// local BOM files into Mermaid diagrams, Graphviz SVGs and terminal
// outlines, browsing a hierarchy interactively, and serving the hierarchy
// panel over HTTP. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - diagram: Print the Mermaid flowchart of a part
//   - fetch: Save the hierarchy JSON of a part
//   - render: Write diagram artifacts (svg, dot, mermaid, json, outline)
//   - outline: Print the hierarchy as a tree
//   - browse: Walk the hierarchy interactively
//   - bom: Inspect local BOM files
//   - serve: Run the HTTP service
//   - cache: Manage cached hierarchies and diagrams
//
// # Configuration
//
// Settings are read from ~/.config/parttree/config.toml (or --config),
// then PARTTREE_* environment variables, then flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every fetch, cache and HTTP event. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Loaded 42 parts (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
