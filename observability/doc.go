// Package observability wires OpenTelemetry tracing and metrics for restkit.
//
// Setup installs global tracer and meter providers exporting over OTLP/HTTP
// and returns a shutdown function. Without Setup the global no-op providers
// stay in place, so the httpclient tracing and metrics middleware cost
// nothing when telemetry is disabled.
//
//	shutdown, err := observability.Setup(ctx, cfg)
//	defer shutdown(context.Background())
package observability
