package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry bundles the logger, tracer and metrics of one razan process.
// A nil *Telemetry is valid: operations on it are silent and untraced.
type Telemetry struct {
	Logger  zerolog.Logger
	Tracer  *Tracer
	Metrics *Metrics
	Config  *Config
}

type telemetryKey struct{}

// NewTelemetry validates cfg and builds each component.
func NewTelemetry(ctx context.Context, cfg *Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tracer, err := NewTracer(ctx, cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		Logger:  NewLogger(cfg.Logging),
		Tracer:  tracer,
		Metrics: NewMetrics(cfg.Metrics),
		Config:  cfg,
	}, nil
}

// WithContext stores t and its logger in ctx.
func (t *Telemetry) WithContext(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, telemetryKey{}, t)
	return t.Logger.WithContext(ctx)
}

// FromContext returns the Telemetry stored by WithContext, or nil.
func FromContext(ctx context.Context) *Telemetry {
	t, _ := ctx.Value(telemetryKey{}).(*Telemetry)
	return t
}

// StartMetricsServer serves metrics when an address is configured. Serve
// failures after startup are logged.
func (t *Telemetry) StartMetricsServer() error {
	return t.Metrics.StartMetricsServer(func(err error) {
		t.Logger.Error().Err(err).Msg("Metrics server stopped")
	})
}

// Shutdown stops the metrics server and flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(
		t.Metrics.Shutdown(ctx),
		t.Tracer.Shutdown(ctx),
	)
}

// Operation is one traced unit of work: a load, a reload or a policy pass.
type Operation struct {
	ctx    context.Context
	span   trace.Span
	logger zerolog.Logger
	start  time.Time
}

// Begin starts an operation. Its logger carries the operation name and,
// when the span is sampled, the trace and span IDs.
func (t *Telemetry) Begin(ctx context.Context, name string, attrs ...attribute.KeyValue) *Operation {
	op := &Operation{
		ctx:    ctx,
		span:   trace.SpanFromContext(context.Background()),
		logger: zerolog.Nop(),
		start:  time.Now(),
	}
	if t == nil {
		return op
	}

	op.ctx, op.span = t.Tracer.Start(ctx, name, attrs...)
	lc := t.Logger.With().Str("operation", name)
	if sc := op.span.SpanContext(); sc.IsValid() {
		lc = lc.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
	}
	op.logger = lc.Logger()
	return op
}

// Context returns the context carrying the operation's span.
func (op *Operation) Context() context.Context { return op.ctx }

// Logger returns the operation's logger.
func (op *Operation) Logger() *zerolog.Logger { return &op.logger }

// Elapsed is the time since Begin.
func (op *Operation) Elapsed() time.Duration { return time.Since(op.start) }

// Set adds attributes to the span.
func (op *Operation) Set(attrs ...attribute.KeyValue) {
	op.span.SetAttributes(attrs...)
}

// End closes the span with an error or ok status and logs the outcome at
// debug level.
func (op *Operation) End(err error) {
	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		op.logger.Debug().Err(err).Dur("elapsed", op.Elapsed()).Msg("Operation failed")
	} else {
		op.span.SetStatus(codes.Ok, "")
		op.logger.Debug().Dur("elapsed", op.Elapsed()).Msg("Operation finished")
	}
	op.span.End()
}
