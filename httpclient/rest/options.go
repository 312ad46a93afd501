package rest

import "github.com/kbukum/restkit/httpclient"

// MapFunc converts a raw response into the value returned by an operation.
// Its result must be assignable to the operation's type parameter.
type MapFunc func(resp *httpclient.Response) (any, error)

// Options configures a single facade call. A nil *Options is valid.
//
// Only the embedded transport options reach the Transport; the other
// fields shape the call inside the facade.
type Options struct {
	httpclient.RequestOptions

	// URL replaces the computed URL entirely.
	URL string
	// URLPostfix is appended after the path segments.
	URLPostfix string
	// MapResponse replaces the default decoding.
	MapResponse MapFunc
	// SuccessMsg is logged at info level when the call succeeds.
	SuccessMsg string
	// ErrorMsg is logged at error level when the call fails.
	ErrorMsg string
}

// UpdateOptions adds the update verb to Options. Method is PUT or PATCH,
// defaulting to PUT.
type UpdateOptions struct {
	Options

	Method string
}

func (o *UpdateOptions) options() *Options {
	if o == nil {
		return nil
	}
	return &o.Options
}
