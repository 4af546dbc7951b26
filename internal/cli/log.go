// Package cli implements the seqtracks command-line interface.
//
// The CLI loads every annotation feed for a UniProtKB accession and shows
// the packed tracks. It is built with cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - render: write the track tree as text, JSON, DOT or SVG
//   - view: browse the tracks interactively, expanding and collapsing leaves
//   - serve: run the HTTP API
//   - sources: list the enabled feeds
//   - cache: manage the feed response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes one line per feed with its outcome and duration.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqtracks/pkg/observability"
)

// newLogger creates a logger writing to w at level, with timestamps formatted
// as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Loaded P05067 (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports feed traffic at debug level.
type logHooks struct {
	observability.NoopCacheHooks
	logger *log.Logger
}

func (h logHooks) OnRequest(context.Context, string, string, string) {}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("feed response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("feed request failed", "method", method, "host", host, "path", path, "error", err)
}

func (h logHooks) OnCacheHit(_ context.Context, namespace string) {
	h.logger.Debug("cache hit", "namespace", namespace)
}
