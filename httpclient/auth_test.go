package httpclient

import (
	"net/http"
	"testing"
)

func TestAuthApply(t *testing.T) {
	tests := []struct {
		name  string
		auth  *AuthConfig
		check func(t *testing.T, r *http.Request)
	}{
		{
			name: "bearer",
			auth: BearerAuth("my-token"),
			check: func(t *testing.T, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer my-token" {
					t.Errorf("expected bearer header, got %q", got)
				}
			},
		},
		{
			name: "basic",
			auth: BasicAuth("user", "pass"),
			check: func(t *testing.T, r *http.Request) {
				if u, p, ok := r.BasicAuth(); !ok || u != "user" || p != "pass" {
					t.Errorf("basic auth not set correctly: user=%q pass=%q ok=%v", u, p, ok)
				}
			},
		},
		{
			name: "api key default header",
			auth: APIKeyAuth("secret-key"),
			check: func(t *testing.T, r *http.Request) {
				if got := r.Header.Get("X-API-Key"); got != "secret-key" {
					t.Errorf("expected X-API-Key, got %q", got)
				}
			},
		},
		{
			name: "api key custom header",
			auth: &AuthConfig{Type: "API-Key", Key: "secret-key", Name: "X-Custom-Key"},
			check: func(t *testing.T, r *http.Request) {
				if got := r.Header.Get("X-Custom-Key"); got != "secret-key" {
					t.Errorf("expected X-Custom-Key, got %q", got)
				}
			},
		},
		{
			name: "api key query",
			auth: &AuthConfig{Type: "apikey", Key: "secret-key", In: "Query", Name: "api_key"},
			check: func(t *testing.T, r *http.Request) {
				if got := r.URL.Query().Get("api_key"); got != "secret-key" {
					t.Errorf("expected query key, got %q", got)
				}
				if r.Header.Get("X-API-Key") != "" {
					t.Error("expected no header for query api key")
				}
			},
		},
		{
			name: "custom",
			auth: CustomAuth(func(req *http.Request) { req.Header.Set("X-Custom", "value") }),
			check: func(t *testing.T, r *http.Request) {
				if got := r.Header.Get("X-Custom"); got != "value" {
					t.Errorf("expected custom header, got %q", got)
				}
			},
		},
		{
			name: "none",
			auth: &AuthConfig{Type: AuthNone, Token: "ignored"},
			check: func(t *testing.T, r *http.Request) {
				if r.Header.Get("Authorization") != "" {
					t.Error("expected no Authorization header")
				}
			},
		},
		{
			name: "nil",
			auth: nil,
			check: func(t *testing.T, r *http.Request) {
				if len(r.Header) != 0 {
					t.Errorf("expected untouched request, got %v", r.Header)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "http://example.com/path", nil)
			tt.auth.apply(req)
			tt.check(t, req)
		})
	}
}

func TestAuthValidate(t *testing.T) {
	tests := []struct {
		name    string
		auth    *AuthConfig
		wantErr bool
	}{
		{"nil", nil, false},
		{"empty type", &AuthConfig{}, false},
		{"none", &AuthConfig{Type: "NONE"}, false},
		{"bearer", &AuthConfig{Type: "Bearer", Token: "t0k"}, false},
		{"bearer without token", &AuthConfig{Type: "bearer"}, true},
		{"basic", BasicAuth("u", ""), false},
		{"basic without user", &AuthConfig{Type: "basic"}, true},
		{"api key", &AuthConfig{Type: "api_key", Key: "k", In: "header"}, false},
		{"api key without key", &AuthConfig{Type: "api_key"}, true},
		{"api key bad placement", &AuthConfig{Type: "api_key", Key: "k", In: "cookie"}, true},
		{"custom", CustomAuth(func(*http.Request) {}), false},
		{"custom without func", &AuthConfig{Type: "custom"}, true},
		{"unknown", &AuthConfig{Type: "oauth"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.auth.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigValidateChecksAuth(t *testing.T) {
	cfg := Config{Timeout: defaultTimeout, Auth: &AuthConfig{Type: "bearer"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing bearer token to fail config validation")
	}
	if _, err := New(Config{Auth: &AuthConfig{Type: "oauth"}}); err == nil {
		t.Error("expected New to reject unknown auth type")
	}
}
