package rest

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/restkit/httpclient"
)

// mapResponse returns the conversion applied to the raw response of an
// operation. opts.MapResponse, when set, is called exactly once and its
// result asserted to T. Otherwise the response is decoded into T:
//   - *httpclient.Response receives the raw response
//   - []byte and json.RawMessage receive the body
//   - string receives the body unless the response type is json
//   - anything else is JSON decoded; an empty body yields the zero T
func mapResponse[T any](opts *Options) func(*httpclient.Response) (T, error) {
	var (
		fn           MapFunc
		responseType httpclient.ResponseType
	)
	if opts != nil {
		fn, responseType = opts.MapResponse, opts.ResponseType
	}

	return func(resp *httpclient.Response) (T, error) {
		var zero T
		if fn == nil {
			return decode[T](resp, responseType)
		}
		v, err := fn(resp)
		if err != nil || v == nil {
			return zero, err
		}
		out, ok := v.(T)
		if !ok {
			return zero, fmt.Errorf("rest: response mapper returned %T, expected %T", v, zero)
		}
		return out, nil
	}
}

func decode[T any](resp *httpclient.Response, responseType httpclient.ResponseType) (T, error) {
	var out T
	var body []byte
	if resp != nil {
		body = resp.Body
	}

	switch p := any(&out).(type) {
	case **httpclient.Response:
		*p = resp
		return out, nil
	case *[]byte:
		*p = body
		return out, nil
	case *json.RawMessage:
		*p = body
		return out, nil
	case *string:
		if responseType != "" && responseType != httpclient.ResponseJSON {
			*p = string(body)
			return out, nil
		}
	}

	if len(body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("rest: decode response: %w", err)
	}
	return out, nil
}

// MapJSON builds a MapFunc that decodes the body into R and applies fn.
func MapJSON[R any](fn func(R) (any, error)) MapFunc {
	return func(resp *httpclient.Response) (any, error) {
		var in R
		if resp != nil && len(resp.Body) > 0 {
			if err := json.Unmarshal(resp.Body, &in); err != nil {
				return nil, fmt.Errorf("rest: decode response: %w", err)
			}
		}
		return fn(in)
	}
}
