package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/untangle/pkg/observability"
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

// done logs msg along with the elapsed time since progress was created.
// Example output: "Generated level 3 (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability
// =============================================================================

// logHooks reports observability events as debug logs.
type logHooks struct {
	logger *log.Logger
}

// Sessions log generation and solves themselves; only failures are
// raised here so they show without --verbose.
func (h *logHooks) OnLevelGenerated(levelNumber, _, _, _ int, _ time.Duration, err error) {
	if err != nil {
		h.logger.Warn("level generation failed", "level", levelNumber, "err", err)
	}
}

func (h *logHooks) OnLevelSolved(int, time.Duration) {}

func (h *logHooks) OnLevelRestored(int, int, int) {}

func (h *logHooks) OnStoreOp(_ context.Context, backend, op string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("store op failed", "backend", backend, "op", op, "err", err)
		return
	}
	h.logger.Debug("store op", "backend", backend, "op", op, "bytes", size, "duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnRequest(context.Context, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("request failed", "method", method, "route", route, "status", status)
	}
}

var (
	_ observability.GameHooks  = (*logHooks)(nil)
	_ observability.StoreHooks = (*logHooks)(nil)
	_ observability.HTTPHooks  = (*logHooks)(nil)
)
