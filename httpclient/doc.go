// Package httpclient is the transport layer under the REST facade.
//
// Transport is the single-method collaborator the facade depends on.
// Adapter implements it over net/http with default headers, auth, TLS,
// a cookie jar for requests sent with credentials, progress logging, and
// classification of failures into *Error. Middleware decorates any
// Transport:
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Auth:    httpclient.BearerAuth(token),
//	})
//	t := httpclient.Wrap(adapter,
//	    httpclient.WithRequestID(),
//	    httpclient.WithTracing(),
//	    httpclient.WithLogging(log),
//	)
//
//	resp, err := t.Execute(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    URL:    "/users/123",
//	})
package httpclient
