// Package telemetry provides logging, tracing and metrics for razan tools.
//
// Structured logging uses zerolog, tracing uses OpenTelemetry and metrics are
// exported in Prometheus format. The library packages stay silent unless a
// logger is handed to them; the razan command wires a Telemetry instance in
// at startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.Metrics.ListenAddress = ":9464"
//
//	tel, err := telemetry.NewTelemetry(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	if err := tel.StartMetricsServer(); err != nil {
//	    return err
//	}
//	ctx = tel.WithContext(ctx)
//
// # Operations
//
// Work is wrapped in an Operation from Telemetry.Begin, which pairs a span
// with a logger and a start time. A nil *Telemetry yields silent operations,
// so instrumented code needs no nil checks:
//
//	op := tel.Begin(ctx, telemetry.SpanLoad, telemetry.AttrSource.String(path))
//	doc, err := parse(op.Context(), path)
//	op.End(err)
//
// Span names are razan.load, razan.reload (a watcher reload, parent of its
// load) and razan.policy.evaluate. Exporters: otlp (gRPC), stdout and none.
//
// # Metrics
//
// All metric names are prefixed with the configured namespace (razan by
// default):
//
//   - loads_total{status}
//   - load_duration_seconds
//   - values_evaluated_total{kind}
//   - lines_skipped_total{reason}
//   - sections
//   - reloads_total{status}
//   - policy_violations_total{policy,severity}
package telemetry
