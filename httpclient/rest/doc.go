// Package rest is a generic facade for CRUD calls against one REST
// resource collection.
//
// A Service is bound to a base URL and resource name and issues requests
// through an injected httpclient.Transport:
//
//	svc, err := rest.New(rest.Config{
//	    BaseURL:      "https://api.example.com/v1",
//	    ResourceName: "items",
//	}, adapter)
//
//	items, err := rest.List[[]Item](ctx, svc, nil)
//	item, err := rest.Single[Item](ctx, svc, 5, nil)
//	created, err := rest.Add[Item](ctx, svc, newItem, &rest.Options{URLPostfix: "bulk"})
//	patched, err := rest.Update[Item](ctx, svc, 5, diff, &rest.UpdateOptions{Method: "PATCH"})
//
// Every call resolves its URL (an explicit Options.URL wins, otherwise
// {base}/{resource}[/{id}][/{postfix}]), forwards only the transport
// options, sends exactly one request, converts the response (MapResponse
// or decoding into T) and turns failures into *errors.AppError.
//
// Retries, rate limiting, auth and tracing of the HTTP exchange belong to
// the transport; see the httpclient middlewares.
package rest
