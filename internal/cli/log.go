package cli

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat shows hundredths of a second: "14:32:01.45".
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// =============================================================================
// Progress
// =============================================================================

// progress times one render. Its fields (input, formats, ...) are attached
// to every line it logs. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	fields []any
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger, fields ...any) *progress {
	now := time.Now()
	return &progress{logger: l, fields: fields, start: now, last: now}
}

// step logs a finished stage at debug level with the time since the
// previous stage.
func (p *progress) step(stage string) {
	now := time.Now()
	p.logger.Debug(stage, p.with("took", now.Sub(p.last).Round(time.Millisecond))...)
	p.last = now
}

// done logs msg with the total elapsed time.
func (p *progress) done(msg string) {
	p.logger.Info(msg, p.with("elapsed", time.Since(p.start).Round(time.Millisecond))...)
}

func (p *progress) with(kv ...any) []any {
	return slices.Concat(p.fields, kv)
}

// =============================================================================
// Context
// =============================================================================

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext falls back to log.Default() so library calls made
// outside a command still log somewhere.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
