package rest

import "strings"

// ResolveURL computes a request URL. A non-empty opts.URL is returned as is.
// Otherwise segments are appended to baseURL, each preceded by "/", and
// opts.URLPostfix is appended last. Inputs are not validated or escaped.
func ResolveURL(baseURL string, opts *Options, segments ...string) string {
	if opts != nil && opts.URL != "" {
		return opts.URL
	}

	var b strings.Builder
	b.WriteString(baseURL)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(s)
	}
	if opts != nil && opts.URLPostfix != "" {
		b.WriteByte('/')
		b.WriteString(opts.URLPostfix)
	}
	return b.String()
}
