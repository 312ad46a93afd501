package httpclient

import (
	"fmt"
	"net/http"
	"strings"
)

// AuthType names an authentication scheme. Values match the "type" key of
// an auth block in config files; matching is case-insensitive.
type AuthType string

const (
	AuthNone   AuthType = "none"
	AuthBearer AuthType = "bearer"
	AuthBasic  AuthType = "basic"
	AuthAPIKey AuthType = "api_key"
	AuthCustom AuthType = "custom"
)

const defaultAPIKeyName = "X-API-Key"

// AuthConfig describes how requests are authenticated. It is either decoded
// from config or built with the constructors below:
//
//	auth:
//	  type: api_key
//	  key: ${API_KEY}
//	  in: query
//	  name: token
type AuthConfig struct {
	Type     AuthType `yaml:"type" mapstructure:"type"`
	Token    string   `yaml:"token" mapstructure:"token"`
	Username string   `yaml:"username" mapstructure:"username"`
	Password string   `yaml:"password" mapstructure:"password"`
	Key      string   `yaml:"key" mapstructure:"key"`

	// In places an API key in the "header" (default) or the "query".
	In string `yaml:"in" mapstructure:"in"`
	// Name is the API key header or query parameter. Defaults to X-API-Key.
	Name string `yaml:"name" mapstructure:"name"`

	// Apply modifies each request for AuthCustom.
	Apply func(*http.Request) `yaml:"-" mapstructure:"-"`
}

// BearerAuth sends "Authorization: Bearer <token>".
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth sends HTTP Basic credentials.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth sends key in the X-API-Key header. Set In and Name on the
// result to move it elsewhere.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key}
}

// CustomAuth runs fn on every outgoing request.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

func (a *AuthConfig) scheme() AuthType {
	switch t := AuthType(strings.ToLower(strings.ReplaceAll(string(a.Type), "-", "_"))); t {
	case "":
		return AuthNone
	case "apikey":
		return AuthAPIKey
	default:
		return t
	}
}

// Validate reports missing credentials for the configured scheme. A nil
// config is valid and disables auth.
func (a *AuthConfig) Validate() error {
	if a == nil {
		return nil
	}
	switch a.scheme() {
	case AuthNone:
	case AuthBearer:
		if a.Token == "" {
			return fmt.Errorf("httpclient: bearer auth requires token")
		}
	case AuthBasic:
		if a.Username == "" {
			return fmt.Errorf("httpclient: basic auth requires username")
		}
	case AuthAPIKey:
		if a.Key == "" {
			return fmt.Errorf("httpclient: api key auth requires key")
		}
		if a.In != "" && !strings.EqualFold(a.In, "header") && !strings.EqualFold(a.In, "query") {
			return fmt.Errorf("httpclient: api key auth: in must be header or query (got: %s)", a.In)
		}
	case AuthCustom:
		if a.Apply == nil {
			return fmt.Errorf("httpclient: custom auth requires an Apply func")
		}
	default:
		return fmt.Errorf("httpclient: unknown auth type %q", a.Type)
	}
	return nil
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.scheme() {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = defaultAPIKeyName
		}
		if strings.EqualFold(a.In, "query") {
			q := req.URL.Query()
			q.Set(name, a.Key)
			req.URL.RawQuery = q.Encode()
		} else {
			req.Header.Set(name, a.Key)
		}
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
}
