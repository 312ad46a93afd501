package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/restkit/errors"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
)

// Service performs CRUD calls against one resource collection through an
// injected Transport. It is immutable after New and safe for concurrent use.
type Service struct {
	config    Config
	url       string
	transport httpclient.Transport
	log       *logger.Logger
	metrics   *observability.Metrics
	tracing   bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics records operation counts and durations.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracing wraps each operation in a "rest.<operation>" span.
func WithTracing() Option {
	return func(s *Service) { s.tracing = true }
}

// New creates a Service for cfg. Both config fields are required and t
// must not be nil.
func New(cfg Config, t httpclient.Transport, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.MissingField("transport")
	}

	s := &Service{config: cfg, url: cfg.URL(), transport: t}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.GetGlobalLogger()
	}
	s.log = s.log.WithComponent("rest." + cfg.ResourceName)
	return s, nil
}

// URL returns the collection URL.
func (s *Service) URL() string { return s.url }

// Config returns the resource configuration.
func (s *Service) Config() Config { return s.config }

// Transport returns the underlying transport for calls the facade does not cover.
func (s *Service) Transport() httpclient.Transport { return s.transport }

// List fetches the collection with GET.
func List[T any](ctx context.Context, s *Service, opts *Options) (T, error) {
	return do[T](ctx, s, "list", http.MethodGet, ResolveURL(s.url, opts), nil, opts)
}

// Single fetches one entity with GET {url}/{id}.
func Single[T any](ctx context.Context, s *Service, id any, opts *Options) (T, error) {
	return do[T](ctx, s, "single", http.MethodGet, ResolveURL(s.url, opts, fmt.Sprint(id)), nil, opts)
}

// Add creates an entity with POST, sending body.
func Add[T any](ctx context.Context, s *Service, body any, opts *Options) (T, error) {
	return do[T](ctx, s, "add", http.MethodPost, ResolveURL(s.url, opts), body, opts)
}

// Update replaces or patches an entity at {url}/{id}. The verb is
// opts.Method, PUT when empty; any verb other than PUT or PATCH fails
// without a request being sent.
func Update[T any](ctx context.Context, s *Service, id, body any, opts *UpdateOptions) (T, error) {
	method := http.MethodPut
	if opts != nil && opts.Method != "" {
		method = strings.ToUpper(opts.Method)
	}
	if method != http.MethodPut && method != http.MethodPatch {
		var zero T
		return zero, errors.InvalidInput("method", fmt.Sprintf("update supports PUT or PATCH, got %q", opts.Method))
	}

	o := opts.options()
	return do[T](ctx, s, "update", method, ResolveURL(s.url, o, fmt.Sprint(id)), body, o)
}

// Delete removes an entity with DELETE {url}/{id}.
func Delete[T any](ctx context.Context, s *Service, id any, opts *Options) (T, error) {
	return do[T](ctx, s, "delete", http.MethodDelete, ResolveURL(s.url, opts, fmt.Sprint(id)), nil, opts)
}

// do issues exactly one transport call and converts its outcome.
func do[T any](ctx context.Context, s *Service, op, method, url string, body any, opts *Options) (T, error) {
	if s.tracing {
		var end func()
		ctx, end = s.startSpan(ctx, op, method, url)
		defer end()
	}

	log := s.log.WithContext(ctx)
	fields := logger.Fields(
		logger.FieldOperation, op,
		logger.FieldMethod, method,
		logger.FieldURL, url,
	)
	log.Debug("rest call", fields)

	start := time.Now()
	resp, err := s.transport.Execute(ctx, httpclient.Request{
		Method:  method,
		URL:     url,
		Options: ExtractRequestOptions(opts),
		Body:    body,
	})

	var out T
	if err == nil {
		out, err = mapResponse[T](opts)(resp)
	}
	duration := time.Since(start)
	fields[logger.FieldDuration] = duration.Milliseconds()

	if err != nil {
		err = translateError(op, method, url, err)
		if s.tracing {
			observability.SetSpanError(ctx, err)
		}
		if s.metrics != nil {
			s.metrics.RecordOperation(ctx, s.config.ResourceName, op, "error", duration)
			s.metrics.RecordError(ctx, string(errorCode(err)), "rest")
		}
		if opts != nil && opts.ErrorMsg != "" {
			log.Error(opts.ErrorMsg, logger.MergeWithError(fields, err))
		} else {
			log.Debug("rest call failed", logger.MergeWithError(fields, err))
		}
		var zero T
		return zero, err
	}

	if s.metrics != nil {
		s.metrics.RecordOperation(ctx, s.config.ResourceName, op, "success", duration)
	}
	if opts != nil && opts.SuccessMsg != "" {
		log.Info(opts.SuccessMsg, fields)
	}
	return out, nil
}

func (s *Service) startSpan(ctx context.Context, op, method, url string) (context.Context, func()) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRestPrefix+op)
	observability.SetSpanAttribute(ctx, observability.AttrResource, s.config.ResourceName)
	observability.SetSpanAttribute(ctx, observability.AttrOperationName, op)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPMethod, method)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPURL, url)
	return ctx, func() { span.End() }
}

func errorCode(err error) errors.ErrorCode {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Code
	}
	return errors.ErrCodeInternal
}
