package rest

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/kbukum/restkit/httpclient"
)

// transportOptioner is implemented by every struct embedding
// httpclient.RequestOptions.
type transportOptioner interface {
	TransportOptions() httpclient.RequestOptions
}

// ExtractRequestOptions returns the transport options carried by cfg.
//
// Structs embedding httpclient.RequestOptions (Options, UpdateOptions, or
// RequestOptions itself) are projected field by field, keeping header and
// param maps by reference. A map[string]any, as decoded from a config file,
// contributes the keys headers, params, observe, reportProgress,
// responseType and withCredentials, matched case-insensitively and with
// underscores ignored. Everything else is dropped without error; nil
// yields the zero value.
func ExtractRequestOptions(cfg any) httpclient.RequestOptions {
	if isNil(cfg) {
		return httpclient.RequestOptions{}
	}
	switch v := cfg.(type) {
	case transportOptioner:
		return v.TransportOptions()
	case map[string]any:
		return fromMap(v)
	default:
		return httpclient.RequestOptions{}
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func fromMap(m map[string]any) httpclient.RequestOptions {
	var out httpclient.RequestOptions
	for key, value := range m {
		switch strings.ToLower(strings.ReplaceAll(key, "_", "")) {
		case "headers":
			if h := toHeader(value); h != nil {
				out.Headers = h
			}
		case "params":
			if p := toValues(value); p != nil {
				out.Params = p
			}
		case "observe":
			if s, ok := toString(value); ok && s != "" {
				out.Observe = httpclient.Observe(s)
			}
		case "responsetype":
			if s, ok := toString(value); ok && s != "" {
				out.ResponseType = httpclient.ResponseType(s)
			}
		case "reportprogress":
			out.ReportProgress = toBool(value)
		case "withcredentials":
			out.WithCredentials = toBool(value)
		}
	}
	return out
}

func toHeader(v any) http.Header {
	switch h := v.(type) {
	case http.Header:
		return h
	case map[string][]string:
		return http.Header(h)
	}
	values := toMultiMap(v)
	if values == nil {
		return nil
	}
	h := make(http.Header, len(values))
	for k, vs := range values {
		for _, s := range vs {
			h.Add(k, s)
		}
	}
	return h
}

func toValues(v any) url.Values {
	switch p := v.(type) {
	case url.Values:
		return p
	case map[string][]string:
		return url.Values(p)
	}
	return toMultiMap(v)
}

// toMultiMap converts string-keyed maps of scalars or scalar lists.
func toMultiMap(v any) map[string][]string {
	out := map[string][]string{}
	switch m := v.(type) {
	case map[string]string:
		for k, s := range m {
			out[k] = []string{s}
		}
	case map[string]any:
		for k, raw := range m {
			out[k] = toStrings(raw)
		}
	default:
		return nil
	}
	return out
}

func toStrings(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case httpclient.Observe:
		return string(s), true
	case httpclient.ResponseType:
		return string(s), true
	}
	return "", false
}

func toBool(v any) *bool {
	switch b := v.(type) {
	case bool:
		return &b
	case *bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return &parsed
		}
	}
	return nil
}
