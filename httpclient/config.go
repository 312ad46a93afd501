package httpclient

import (
	"fmt"
	"net/url"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	defaultName    = "http"
)

// Config configures the net/http Adapter.
type Config struct {
	// Name identifies the adapter in logs, spans and metrics. Defaults to "http".
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to relative request URLs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a whole exchange. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// TLS configures the transport TLS settings.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth is applied to every request unless the request carries its own.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("httpclient: base_url must be an absolute URL (got: %s)", c.BaseURL)
		}
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.TLS.Validate()
}
