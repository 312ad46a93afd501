package httpclient

import (
	"net/http"
	"net/url"
)

// Observe selects which part of the exchange the caller is interested in.
type Observe string

const (
	ObserveBody     Observe = "body"
	ObserveResponse Observe = "response"
	ObserveEvents   Observe = "events"
)

// ResponseType is the expected representation of the response body.
type ResponseType string

const (
	ResponseJSON        ResponseType = "json"
	ResponseText        ResponseType = "text"
	ResponseBlob        ResponseType = "blob"
	ResponseArrayBuffer ResponseType = "arraybuffer"
)

// RequestOptions are the per-request settings a Transport understands.
// Unset fields leave the transport defaults in place.
type RequestOptions struct {
	Headers         http.Header
	Params          url.Values
	Observe         Observe
	ReportProgress  *bool
	ResponseType    ResponseType
	WithCredentials *bool
}

// TransportOptions returns a copy of o holding only the fields that are set.
// Header and param maps are shared, not cloned, including empty ones. Structs embedding
// RequestOptions inherit this method.
func (o RequestOptions) TransportOptions() RequestOptions {
	var out RequestOptions
	if o.Headers != nil {
		out.Headers = o.Headers
	}
	if o.Params != nil {
		out.Params = o.Params
	}
	if o.Observe != "" {
		out.Observe = o.Observe
	}
	if o.ReportProgress != nil {
		out.ReportProgress = o.ReportProgress
	}
	if o.ResponseType != "" {
		out.ResponseType = o.ResponseType
	}
	if o.WithCredentials != nil {
		out.WithCredentials = o.WithCredentials
	}
	return out
}

// IsZero reports whether no option is set.
func (o RequestOptions) IsZero() bool {
	return len(o.Headers) == 0 && len(o.Params) == 0 && o.Observe == "" &&
		o.ReportProgress == nil && o.ResponseType == "" && o.WithCredentials == nil
}

// Progress reports whether progress reporting was requested.
func (o RequestOptions) Progress() bool {
	return o.ReportProgress != nil && *o.ReportProgress
}

// Credentials reports whether cookies should be sent and stored.
func (o RequestOptions) Credentials() bool {
	return o.WithCredentials != nil && *o.WithCredentials
}

// Bool returns a pointer to b, for the optional flags above.
func Bool(b bool) *bool { return &b }

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// URL is absolute, or relative to the adapter BaseURL.
	URL string
	// Options carries headers, query params and response handling hints.
	Options RequestOptions
	// Body accepts io.Reader, []byte, string, or any value that will be JSON-encoded.
	Body any
	// Auth overrides the adapter-level auth for this request.
	Auth *AuthConfig
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, first value per key.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Header returns a response header value, matching the name case-insensitively.
func (r *Response) Header(name string) string {
	if v, ok := r.Headers[http.CanonicalHeaderKey(name)]; ok {
		return v
	}
	return r.Headers[name]
}
