package rest

import "github.com/kbukum/restkit/validation"

// Config identifies the resource collection a Service talks to.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.example.com/v1".
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required"`
	// ResourceName is the collection path under BaseURL, e.g. "items".
	ResourceName string `yaml:"resource_name" mapstructure:"resource_name" validate:"required"`
}

// URL returns the collection URL: BaseURL + "/" + ResourceName.
// No trimming or escaping is done.
func (c Config) URL() string {
	return c.BaseURL + "/" + c.ResourceName
}

// Validate checks that both fields are set.
func (c Config) Validate() error {
	return validation.Validate(c)
}
