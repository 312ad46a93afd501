package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/kbukum/restkit/logger"
)

// defaultAccept is sent for JSON responses when the caller sets no Accept header.
const defaultAccept = "application/json, text/plain, */*"

// Adapter is the net/http Transport. It resolves URLs against BaseURL,
// applies default headers, auth and TLS, and classifies status codes.
type Adapter struct {
	httpClient *http.Client
	config     Config
	jar        http.CookieJar
	log        *logger.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the underlying *http.Client. Its cookie jar, if any,
// is kept separate from the adapter jar used for WithCredentials.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// WithLogger sets the logger used for progress and debug output.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("httpclient: cookie jar: %w", err)
	}

	a := &Adapter{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
		jar:    jar,
		log:    logger.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithComponent("httpclient." + cfg.Name)

	return a, nil
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// Execute sends the request and reads the whole response body.
// Non-2xx responses are returned together with a classified *Error.
func (a *Adapter) Execute(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.Options.Progress() && httpReq.ContentLength > 0 {
		a.log.WithContext(ctx).Debug("upload", logger.Fields(
			logger.FieldMethod, httpReq.Method,
			logger.FieldURL, httpReq.URL.String(),
			logger.FieldBytes, httpReq.ContentLength,
		))
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if req.Options.Credentials() {
		if rc := resp.Cookies(); len(rc) > 0 {
			a.jar.SetCookies(httpReq.URL, rc)
		}
	}

	var src io.Reader = resp.Body
	if req.Options.Progress() {
		src = &progressReader{r: resp.Body, total: resp.ContentLength, report: a.progressFunc(ctx, httpReq)}
	}
	body, err := io.ReadAll(src)
	if err != nil {
		return nil, classifyTransportError(ctx, fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		classErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
		return result, classErr
	}
	return result, nil
}

// Close releases idle connections.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

// Jar returns the cookie jar used for requests sent with credentials.
func (a *Adapter) Jar() http.CookieJar {
	return a.jar
}

// Config returns the adapter configuration.
func (a *Adapter) Config() Config {
	return a.config
}

// ResolveURL joins a relative URL to BaseURL. Absolute URLs pass through.
func (a *Adapter) ResolveURL(u string) string {
	if a.config.BaseURL == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(u, "/")
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, a.ResolveURL(req.URL), body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Options.Params) > 0 {
		q := httpReq.URL.Query()
		for k, vs := range req.Options.Params {
			q.Del(k)
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, vs := range req.Options.Headers {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("Accept") == "" && (req.Options.ResponseType == "" || req.Options.ResponseType == ResponseJSON) {
		httpReq.Header.Set("Accept", defaultAccept)
	}

	if req.Options.Credentials() {
		for _, c := range a.jar.Cookies(httpReq.URL) {
			httpReq.AddCookie(c)
		}
	}

	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// classifyTransportError maps a failed round trip to a typed *Error.
func classifyTransportError(ctx context.Context, err error) *Error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return NewCanceledError(err)
	case ctx.Err() != nil:
		return NewTimeoutError(err)
	}
	var te interface{ Timeout() bool }
	if errors.As(err, &te) && te.Timeout() {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *Form:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case json.RawMessage:
		return bytes.NewReader(v), "application/json", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

func (a *Adapter) progressFunc(ctx context.Context, req *http.Request) func(read, total int64) {
	l := a.log.WithContext(ctx)
	return func(read, total int64) {
		l.Debug("download", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL.String(),
			logger.FieldBytes, read,
			"total", total,
		))
	}
}

// progressReader reports cumulative byte counts while a body is read.
type progressReader struct {
	r      io.Reader
	read   int64
	total  int64
	report func(read, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report(p.read, p.total)
	}
	return n, err
}
