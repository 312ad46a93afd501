package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/restkit/logger"
)

// InitMeter initializes the OpenTelemetry meter provider exporting over OTLP/HTTP.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp, err := NewMeterProvider(cfg, sdkmetric.NewPeriodicReader(exporter, readerOpts...))
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// NewMeterProvider builds a provider with the service resource reading through reader.
func NewMeterProvider(cfg Config, reader sdkmetric.Reader) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	), nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric instrument names.
const (
	MetricRequestTotal      = "http.client.request.total"
	MetricRequestDuration   = "http.client.request.duration"
	MetricRequestActive     = "http.client.request.active"
	MetricResponseBytes     = "http.client.response.body.size"
	MetricOperationTotal    = "rest.operation.total"
	MetricOperationDuration = "rest.operation.duration"
	MetricErrorTotal        = "rest.error.total"
)

// Metrics holds OpenTelemetry instruments for outgoing requests and facade operations.
type Metrics struct {
	requestTotal      metric.Int64Counter
	requestDuration   metric.Float64Histogram
	requestActive     metric.Int64UpDownCounter
	responseBytes     metric.Int64Histogram
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorTotal        metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter(MetricRequestTotal,
		metric.WithDescription("Total number of outgoing HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRequestTotal, err)
	}

	requestDuration, err := meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Duration of outgoing HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRequestDuration, err)
	}

	requestActive, err := meter.Int64UpDownCounter(MetricRequestActive,
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricRequestActive, err)
	}

	responseBytes, err := meter.Int64Histogram(MetricResponseBytes,
		metric.WithDescription("Size of response bodies"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricResponseBytes, err)
	}

	operationTotal, err := meter.Int64Counter(MetricOperationTotal,
		metric.WithDescription("Total number of REST facade operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricOperationTotal, err)
	}

	operationDuration, err := meter.Float64Histogram(MetricOperationDuration,
		metric.WithDescription("Duration of REST facade operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricOperationDuration, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrorTotal,
		metric.WithDescription("Total errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrorTotal, err)
	}

	return &Metrics{
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestActive:     requestActive,
		responseBytes:     responseBytes,
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		errorTotal:        errorTotal,
	}, nil
}

// RecordRequestStart increments the in-flight request count.
func (m *Metrics) RecordRequestStart(ctx context.Context, transport string) {
	m.requestActive.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrTransport, transport)))
}

// RecordRequestEnd decrements in-flight requests and records the completed request.
// status is the HTTP status code, or 0 when no response was received.
func (m *Metrics) RecordRequestEnd(ctx context.Context, transport, method string, status, bodyBytes int, duration time.Duration) {
	base := []attribute.KeyValue{
		attribute.String(AttrTransport, transport),
		attribute.String(AttrHTTPMethod, method),
	}
	m.requestActive.Add(ctx, -1, metric.WithAttributes(attribute.String(AttrTransport, transport)))
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		append(base, attribute.String(AttrHTTPStatus, statusLabel(status)))...,
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(base...))
	if bodyBytes > 0 {
		m.responseBytes.Record(ctx, int64(bodyBytes), metric.WithAttributes(base...))
	}
}

// RecordOperation records a facade operation.
func (m *Metrics) RecordOperation(ctx context.Context, resource, operation, status string, duration time.Duration) {
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrResource, resource),
		attribute.String(AttrOperationName, operation),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrResource, resource),
		attribute.String(AttrOperationName, operation),
	))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}

func statusLabel(status int) string {
	if status == 0 {
		return "none"
	}
	return strconv.Itoa(status)
}
