package observability

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/shilpkaar/marketplace-api/internal/sysutil"
)

// LogOptions configure the root logger.
type LogOptions struct {
	Level   string // debug|info|warn|error|fatal|panic
	Pretty  bool   // human-readable console output
	Service string // added to every event as "service"
}

// SetupLogger builds the root logger, applies the global level and installs it
// as zerolog's package logger so log.* calls anywhere pick it up.
func SetupLogger(w io.Writer, opt LogOptions) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	sysutil.SetLogLevel(opt.Level)

	out := w
	if opt.Pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	ctx := zerolog.New(out).With().Timestamp()
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	l := ctx.Logger()
	log.Logger = l
	return l
}

// WithTrace returns l enriched with trace_id and span_id when ctx carries a
// valid span, and l unchanged otherwise.
func WithTrace(ctx context.Context, l zerolog.Logger) zerolog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With().
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()
}
