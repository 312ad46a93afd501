package httpclient

import "context"

// Transport issues a single HTTP exchange. Implementations must be safe for
// concurrent use. A non-2xx response is returned together with a *Error.
type Transport interface {
	Name() string
	Execute(ctx context.Context, req Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Request) (*Response, error)

// Name returns "func".
func (f TransportFunc) Name() string { return "func" }

// Execute calls f.
func (f TransportFunc) Execute(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Middleware decorates a Transport with cross-cutting behavior.
type Middleware func(Transport) Transport

// Chain composes middlewares. The first middleware is outermost:
// Chain(a, b, c)(t) is equivalent to a(b(c(t))).
func Chain(middlewares ...Middleware) Middleware {
	return func(inner Transport) Transport {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// Wrap applies middlewares to t; see Chain for ordering.
func Wrap(t Transport, middlewares ...Middleware) Transport {
	return Chain(middlewares...)(t)
}
