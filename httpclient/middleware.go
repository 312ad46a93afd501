package httpclient

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/resilience"
)

// HeaderRequestID carries the request ID set by WithRequestID.
const HeaderRequestID = "X-Request-ID"

// decorated forwards Name to the wrapped transport.
type decorated struct {
	inner Transport
	exec  func(ctx context.Context, req Request) (*Response, error)
}

func (d *decorated) Name() string { return d.inner.Name() }

func (d *decorated) Execute(ctx context.Context, req Request) (*Response, error) {
	return d.exec(ctx, req)
}

func decorate(inner Transport, exec func(ctx context.Context, req Request) (*Response, error)) Transport {
	return &decorated{inner: inner, exec: exec}
}

// withHeader returns req with a header set on a copy of its header map,
// leaving the caller's map untouched.
func withHeader(req Request, key, value string) Request {
	h := req.Options.Headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set(key, value)
	req.Options.Headers = h
	return req
}

// WithRequestID ensures every request carries an X-Request-ID header and that
// the ID is available to loggers through the context. An ID already present
// in the context or the request headers is reused.
func WithRequestID() Middleware {
	return func(inner Transport) Transport {
		return decorate(inner, func(ctx context.Context, req Request) (*Response, error) {
			id := req.Options.Headers.Get(HeaderRequestID)
			if id == "" {
				id = logger.RequestIDFromContext(ctx)
			}
			if id == "" {
				id = uuid.NewString()
			}
			if req.Options.Headers.Get(HeaderRequestID) != id {
				req = withHeader(req, HeaderRequestID, id)
			}
			ctx = logger.ContextWithRequestID(ctx, id)
			return inner.Execute(ctx, req)
		})
	}
}

// WithLogging logs each exchange at debug level and failures at warn level.
func WithLogging(l *logger.Logger) Middleware {
	return func(inner Transport) Transport {
		log := l.WithComponent("httpclient." + inner.Name())
		return decorate(inner, func(ctx context.Context, req Request) (*Response, error) {
			start := time.Now()
			resp, err := inner.Execute(ctx, req)

			fields := logger.Fields(
				logger.FieldMethod, req.Method,
				logger.FieldURL, req.URL,
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			if resp != nil {
				fields[logger.FieldStatus] = resp.StatusCode
				fields[logger.FieldBytes] = len(resp.Body)
			}
			if err != nil {
				log.WithContext(ctx).Warn("request failed", logger.MergeWithError(fields, err))
			} else {
				log.WithContext(ctx).Debug("request completed", fields)
			}
			return resp, err
		})
	}
}

// WithTracing wraps each exchange in a client span and injects the W3C trace
// context into the outgoing headers.
func WithTracing() Middleware {
	return func(inner Transport) Transport {
		return decorate(inner, func(ctx context.Context, req Request) (*Response, error) {
			ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest,
				trace.WithSpanKind(trace.SpanKindClient))
			defer span.End()

			observability.SetSpanAttribute(ctx, observability.AttrTransport, inner.Name())
			observability.SetSpanAttribute(ctx, observability.AttrHTTPMethod, req.Method)
			observability.SetSpanAttribute(ctx, observability.AttrHTTPURL, req.URL)

			h := req.Options.Headers.Clone()
			if h == nil {
				h = http.Header{}
			}
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(h))
			if len(h) > 0 {
				req.Options.Headers = h
			}

			resp, err := inner.Execute(ctx, req)
			if resp != nil {
				observability.SetSpanAttribute(ctx, observability.AttrHTTPStatus, resp.StatusCode)
			}
			if err != nil {
				observability.SetSpanError(ctx, err)
			}
			return resp, err
		})
	}
}

// WithMetrics records request counts, durations, in-flight requests and
// response sizes.
func WithMetrics(m *observability.Metrics) Middleware {
	return func(inner Transport) Transport {
		return decorate(inner, func(ctx context.Context, req Request) (*Response, error) {
			name := inner.Name()
			m.RecordRequestStart(ctx, name)
			start := time.Now()

			resp, err := inner.Execute(ctx, req)

			status, size := 0, 0
			if resp != nil {
				status, size = resp.StatusCode, len(resp.Body)
			}
			m.RecordRequestEnd(ctx, name, req.Method, status, size, time.Since(start))
			return resp, err
		})
	}
}

// idempotent methods may be replayed by WithRetry.
var idempotent = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
}

// WithRetry retries idempotent requests that fail with a retryable *Error.
// POST and PATCH are sent once. A Retry-After delay from the server is
// honoured up to cfg.MaxBackoff. Request bodies given as io.Reader cannot be
// replayed and are sent once, as are forms with a Reader-backed file.
func WithRetry(cfg resilience.RetryConfig) Middleware {
	if cfg.RetryIf == nil {
		cfg.RetryIf = IsRetryable
	}
	if cfg.DelayHint == nil {
		cfg.DelayHint = retryAfterHint
	}
	return func(inner Transport) Transport {
		return decorate(inner, func(ctx context.Context, req Request) (*Response, error) {
			if !replayable(req) {
				return inner.Execute(ctx, req)
			}
			return resilience.Retry(ctx, cfg, func() (*Response, error) {
				return inner.Execute(ctx, req)
			})
		})
	}
}

func replayable(req Request) bool {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	if !idempotent[method] {
		return false
	}
	switch body := req.Body.(type) {
	case nil, []byte, string:
		return true
	case *Form:
		return body.replayable()
	default:
		_, isReader := req.Body.(interface{ Read([]byte) (int, error) })
		return !isReader
	}
}

func retryAfterHint(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}

// WithRateLimit waits for a token from limiter before each request.
func WithRateLimit(limiter *resilience.RateLimiter) Middleware {
	return func(inner Transport) Transport {
		return decorate(inner, func(ctx context.Context, req Request) (*Response, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, classifyTransportError(ctx, err)
			}
			return inner.Execute(ctx, req)
		})
	}
}
