package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/pem"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/restkit/logger"
)

func newAdapter(t *testing.T, cfg Config, opts ...Option) *Adapter {
	t.Helper()
	a, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestAdapter_RelativeURLHeadersAndParams(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))
	defer srv.Close()

	a := newAdapter(t, Config{
		Name:    "items",
		BaseURL: srv.URL + "/api/",
		Headers: map[string]string{"X-Default": "d", "X-Override": "default"},
	})

	resp, err := a.Execute(context.Background(), Request{
		Method: "get",
		URL:    "/items?fixed=1",
		Options: RequestOptions{
			Headers: http.Header{"X-Override": {"request"}, "X-Multi": {"a", "b"}},
			Params:  url.Values{"page": {"2"}, "tag": {"x", "y"}, "fixed": {"2"}},
		},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.StatusCode != 200 || string(resp.Body) != `[{"id":1}]` {
		t.Errorf("unexpected response: %d %s", resp.StatusCode, resp.Body)
	}
	if resp.Header("content-type") != "application/json" {
		t.Errorf("expected case-insensitive header lookup, got %q", resp.Header("content-type"))
	}

	if got.Method != http.MethodGet || got.URL.Path != "/api/items" {
		t.Errorf("expected GET /api/items, got %s %s", got.Method, got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("page") != "2" || len(q["tag"]) != 2 || q.Get("fixed") != "2" || len(q["fixed"]) != 1 {
		t.Errorf("unexpected query: %v", q)
	}
	if got.Header.Get("X-Default") != "d" || got.Header.Get("X-Override") != "request" {
		t.Errorf("unexpected headers: %v", got.Header)
	}
	if len(got.Header.Values("X-Multi")) != 2 {
		t.Errorf("expected multi-value header, got %v", got.Header.Values("X-Multi"))
	}
	if got.Header.Get("Accept") != defaultAccept {
		t.Errorf("expected default Accept, got %q", got.Header.Get("Accept"))
	}
	if a.Name() != "items" {
		t.Errorf("expected name 'items', got %q", a.Name())
	}
}

func TestAdapter_AcceptHeader(t *testing.T) {
	var accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
	}))
	defer srv.Close()
	a := newAdapter(t, Config{})

	_, _ = a.Execute(context.Background(), Request{URL: srv.URL, Options: RequestOptions{ResponseType: ResponseText}})
	if accept != "" {
		t.Errorf("expected no default Accept for text, got %q", accept)
	}

	_, _ = a.Execute(context.Background(), Request{URL: srv.URL, Options: RequestOptions{
		Headers: http.Header{"Accept": {"application/xml"}},
	}})
	if accept != "application/xml" {
		t.Errorf("expected caller Accept preserved, got %q", accept)
	}
}

func TestAdapter_BodyEncoding(t *testing.T) {
	type seen struct {
		contentType string
		body        string
	}
	var last seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		last = seen{r.Header.Get("Content-Type"), string(b)}
	}))
	defer srv.Close()
	a := newAdapter(t, Config{})

	tests := []struct {
		name     string
		body     any
		wantType string
		wantBody string
	}{
		{"struct", map[string]int{"a": 1}, "application/json", `{"a":1}`},
		{"raw json", json.RawMessage(`{"b":2}`), "application/json", `{"b":2}`},
		{"string", "hello", "text/plain", "hello"},
		{"bytes", []byte("raw"), "", "raw"},
		{"reader", strings.NewReader("stream"), "", "stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Execute(context.Background(), Request{Method: "POST", URL: srv.URL, Body: tt.body}); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if last.contentType != tt.wantType || last.body != tt.wantBody {
				t.Errorf("got %q %q, want %q %q", last.contentType, last.body, tt.wantType, tt.wantBody)
			}
		})
	}

	if _, err := a.Execute(context.Background(), Request{Method: "POST", URL: srv.URL, Body: make(chan int)}); !IsValidation(err) {
		t.Errorf("expected validation error for unencodable body, got %v", err)
	}
}

func TestAdapter_ErrorStatusReturnsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`slow down`))
	}))
	defer srv.Close()
	a := newAdapter(t, Config{})

	resp, err := a.Execute(context.Background(), Request{URL: srv.URL})
	if !IsRateLimit(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if resp == nil || resp.StatusCode != 429 || string(resp.Body) != "slow down" {
		t.Errorf("expected response alongside error, got %+v", resp)
	}
	var e *Error
	if ok := errors.As(err, &e); !ok || e.RetryAfter != 2*time.Second {
		t.Errorf("expected RetryAfter 2s, got %+v", e)
	}
}

func TestAdapter_Credentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
			return
		}
		if c, err := r.Cookie("session"); err == nil {
			_, _ = w.Write([]byte(c.Value))
		}
	}))
	defer srv.Close()
	a := newAdapter(t, Config{BaseURL: srv.URL})
	with := RequestOptions{WithCredentials: Bool(true)}

	if _, err := a.Execute(context.Background(), Request{URL: "/login", Options: with}); err != nil {
		t.Fatalf("login: %v", err)
	}

	resp, _ := a.Execute(context.Background(), Request{URL: "/me"})
	if len(resp.Body) != 0 {
		t.Errorf("expected no cookie without credentials, got %q", resp.Body)
	}

	resp, _ = a.Execute(context.Background(), Request{URL: "/me", Options: with})
	if string(resp.Body) != "s1" {
		t.Errorf("expected session cookie with credentials, got %q", resp.Body)
	}
}

func TestAdapter_CookiesNotStoredWithoutCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
	}))
	defer srv.Close()
	a := newAdapter(t, Config{})

	_, _ = a.Execute(context.Background(), Request{URL: srv.URL})
	u, _ := url.Parse(srv.URL)
	if n := len(a.Jar().Cookies(u)); n != 0 {
		t.Errorf("expected empty jar, got %d cookies", n)
	}
}

func TestAdapter_ReportProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 1024))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	l := logger.NewWithWriter(&logs, &logger.Config{Level: "debug", Format: "json"}, "test")
	a := newAdapter(t, Config{}, WithLogger(l))

	_, err := a.Execute(context.Background(), Request{
		Method:  "POST",
		URL:     srv.URL,
		Body:    "payload",
		Options: RequestOptions{ReportProgress: Bool(true)},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, `"message":"upload"`) || !strings.Contains(out, `"message":"download"`) {
		t.Errorf("expected upload and download progress logs, got %s", out)
	}
	if !strings.Contains(out, `"bytes":1024`) {
		t.Errorf("expected final byte count, got %s", out)
	}
}

func TestAdapter_NoProgressByDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	l := logger.NewWithWriter(&logs, &logger.Config{Level: "debug", Format: "json"}, "test")
	a := newAdapter(t, Config{}, WithLogger(l))

	_, _ = a.Execute(context.Background(), Request{URL: srv.URL})
	if logs.Len() != 0 {
		t.Errorf("expected no logs, got %s", logs.String())
	}
}

func TestAdapter_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)
	a := newAdapter(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := a.Execute(ctx, Request{URL: srv.URL})
	if !IsCanceled(err) {
		t.Errorf("expected canceled error, got %v", err)
	}
}

func TestAdapter_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)
	a := newAdapter(t, Config{Timeout: 30 * time.Millisecond})

	_, err := a.Execute(context.Background(), Request{URL: srv.URL})
	if !IsTimeout(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("expected timeout to be retryable")
	}
}

func TestAdapter_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	a := newAdapter(t, Config{})
	_, err := a.Execute(context.Background(), Request{URL: addr})
	if !IsConnection(err) {
		t.Errorf("expected connection error, got %v", err)
	}
}

func TestAdapter_TLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("secure"))
	}))
	defer srv.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(caFile, pemBytes, 0o600); err != nil {
		t.Fatalf("write CA: %v", err)
	}

	a := newAdapter(t, Config{TLS: &TLSConfig{CAFile: caFile}})
	resp, err := a.Execute(context.Background(), Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("Execute over TLS: %v", err)
	}
	if string(resp.Body) != "secure" {
		t.Errorf("unexpected body %q", resp.Body)
	}

	plain := newAdapter(t, Config{})
	if _, err := plain.Execute(context.Background(), Request{URL: srv.URL}); !IsConnection(err) {
		t.Errorf("expected unknown authority to fail as connection error, got %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{BaseURL: "not-absolute"}); err == nil {
		t.Error("expected error for relative base url")
	}
	if _, err := New(Config{TLS: &TLSConfig{CAFile: "/nonexistent/ca.pem"}}); err == nil {
		t.Error("expected error for missing CA file")
	}
}

func TestAdapter_ResolveURL(t *testing.T) {
	a := newAdapter(t, Config{BaseURL: "https://api.example.com/v1/"})
	tests := map[string]string{
		"items":                  "https://api.example.com/v1/items",
		"/items/5":               "https://api.example.com/v1/items/5",
		"http://other.test/x":    "http://other.test/x",
		"https://other.test/y/z": "https://other.test/y/z",
	}
	for in, want := range tests {
		if got := a.ResolveURL(in); got != want {
			t.Errorf("ResolveURL(%q) = %q, want %q", in, got, want)
		}
	}
}
