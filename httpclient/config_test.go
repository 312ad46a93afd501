package httpclient

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != defaultTimeout {
		t.Errorf("expected timeout %v, got %v", defaultTimeout, cfg.Timeout)
	}
	if cfg.Name != "http" {
		t.Errorf("expected name 'http', got %q", cfg.Name)
	}
}

func TestConfig_ApplyDefaults_PreservesExisting(t *testing.T) {
	cfg := Config{Name: "items-api", Timeout: 5 * time.Second}
	cfg.ApplyDefaults()
	if cfg.Timeout != 5*time.Second || cfg.Name != "items-api" {
		t.Errorf("expected values preserved, got %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{Timeout: time.Second}, ""},
		{"valid base url", Config{Timeout: time.Second, BaseURL: "https://api.example.com/v1"}, ""},
		{"invalid timeout", Config{}, "timeout must be positive"},
		{"relative base url", Config{Timeout: time.Second, BaseURL: "/api"}, "base_url must be an absolute URL"},
		{"tls cert without key", Config{Timeout: time.Second, TLS: &TLSConfig{CertFile: "c.pem"}}, "cert_file and key_file"},
		{"tls bad version", Config{Timeout: time.Second, TLS: &TLSConfig{MinVersion: "1.0"}}, "unsupported min_version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
