package main

import (
	"fmt"
	"maps"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/restkit/config"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/httpclient/rest"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/resilience"
)

// Config is the restctl configuration file (restctl.yml):
//
//	name: restctl
//	logging:
//	  level: warn
//	resources:
//	  items:
//	    base_url: https://api.example.com/v1
//	    resource_name: items
//	    http:
//	      timeout: 10s
//	    auth:
//	      type: bearer
//	      token: secret
//	    options:
//	      headers:
//	        x-api-version: "2"
//	      withCredentials: true
//	    retry:
//	      max_attempts: 3
//	    rate_limit:
//	      rate: 5
type Config struct {
	config.ServiceConfig `mapstructure:",squash"`

	Observability observability.Config        `yaml:"observability" mapstructure:"observability"`
	Resources     map[string]ResourceConfig `yaml:"resources" mapstructure:"resources"`
}

// ResourceConfig describes one REST resource and how to reach it.
type ResourceConfig struct {
	rest.Config `mapstructure:",squash"`

	HTTP httpclient.Config      `yaml:"http" mapstructure:"http"`
	Auth *httpclient.AuthConfig `yaml:"auth" mapstructure:"auth"`

	// Options are default request options, read with rest.ExtractRequestOptions.
	Options map[string]any `yaml:"options" mapstructure:"options"`

	Retry     *resilience.RetryConfig       `yaml:"retry" mapstructure:"retry"`
	RateLimit *resilience.RateLimiterConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// loadConfig reads the configuration and applies flag overrides for the
// selected resource.
func loadConfig(f *globalFlags) (*Config, ResourceConfig, error) {
	var (
		cfg   = &Config{}
		files config.ResolvedFiles
	)
	opts := []config.LoaderOption{config.WithDefault("name", "restctl"), config.WithResolvedFiles(&files)}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	if err := config.LoadConfig("restctl", cfg, opts...); err != nil {
		return nil, ResourceConfig{}, err
	}

	cfg.ApplyDefaults()
	if err := cfg.ServiceConfig.Validate(); err != nil {
		return nil, ResourceConfig{}, err
	}

	name := f.resource
	if name == "" {
		if len(cfg.Resources) != 1 {
			return nil, ResourceConfig{}, fmt.Errorf("--resource is required; configured resources: %s", resourceNames(cfg.Resources))
		}
		for k := range cfg.Resources {
			name = k
		}
	}

	rc := cfg.Resources[name]
	if files.ConfigFile != "" {
		raw, err := rawOptions(files.ConfigFile, name)
		if err != nil {
			return nil, ResourceConfig{}, err
		}
		if raw != nil {
			rc.Options = raw
		}
	}
	if f.baseURL != "" {
		rc.BaseURL = f.baseURL
	}
	if rc.ResourceName == "" {
		rc.ResourceName = name
	}
	if rc.HTTP.Name == "" {
		rc.HTTP.Name = name
	}
	if err := rc.Config.Validate(); err != nil {
		return nil, ResourceConfig{}, err
	}

	cfg.Observability.ServiceName = cfg.Name
	cfg.Observability.Environment = cfg.Environment
	cfg.Observability.ApplyDefaults()
	if err := cfg.Observability.Validate(); err != nil {
		return nil, ResourceConfig{}, err
	}
	return cfg, rc, nil
}

// rawOptions reads resources.<name>.options from a YAML or JSON config file
// with key case intact. viper lower-cases map keys, and query parameter
// names are case-sensitive. Other formats return nil.
func rawOptions(path, resource string) (map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml", ".json":
	default:
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var doc struct {
		Resources map[string]struct {
			Options map[string]any `yaml:"options"`
		} `yaml:"resources"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	for key, res := range doc.Resources {
		if strings.EqualFold(key, resource) {
			return res.Options, nil
		}
	}
	return nil, nil
}

func resourceNames(m map[string]ResourceConfig) string {
	if len(m) == 0 {
		return "none"
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// requestOptions merges configured options with --header and --param flags.
// Flags replace configured values for the same key.
func requestOptions(rc ResourceConfig, f *globalFlags) (*rest.Options, error) {
	base := rest.ExtractRequestOptions(rc.Options)

	if len(f.headers) > 0 {
		h := base.Headers.Clone()
		if h == nil {
			h = http.Header{}
		}
		for _, kv := range f.headers {
			k, v, err := splitPair(kv, "--header")
			if err != nil {
				return nil, err
			}
			h.Set(k, v)
		}
		base.Headers = h
	}

	if len(f.params) > 0 {
		p := maps.Clone(base.Params)
		if p == nil {
			p = map[string][]string{}
		}
		for _, kv := range f.params {
			k, v, err := splitPair(kv, "--param")
			if err != nil {
				return nil, err
			}
			p[k] = []string{v}
		}
		base.Params = p
	}

	return &rest.Options{RequestOptions: base, URL: f.url, URLPostfix: f.postfix}, nil
}

func splitPair(kv, flag string) (string, string, error) {
	k, v, ok := strings.Cut(kv, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("%s expects key=value, got %q", flag, kv)
	}
	return k, v, nil
}
