package rest

import "context"

// Resource binds a Service to one entity type, so callers do not repeat
// the type parameter:
//
//	users := rest.NewResource[User](svc)
//	u, err := users.Single(ctx, 42, nil)
//
// Operations returning something other than T, or the raw response, use
// the package functions on Service().
type Resource[T any] struct {
	svc *Service
}

// NewResource wraps svc.
func NewResource[T any](svc *Service) *Resource[T] {
	return &Resource[T]{svc: svc}
}

// Service returns the wrapped Service.
func (r *Resource[T]) Service() *Service { return r.svc }

// URL returns the collection URL.
func (r *Resource[T]) URL() string { return r.svc.URL() }

// List fetches the collection.
func (r *Resource[T]) List(ctx context.Context, opts *Options) ([]T, error) {
	return List[[]T](ctx, r.svc, opts)
}

// Single fetches one entity.
func (r *Resource[T]) Single(ctx context.Context, id any, opts *Options) (T, error) {
	return Single[T](ctx, r.svc, id, opts)
}

// Add creates an entity and returns the created representation.
func (r *Resource[T]) Add(ctx context.Context, body T, opts *Options) (T, error) {
	return Add[T](ctx, r.svc, body, opts)
}

// Update replaces or patches an entity. body is any so PATCH can send a
// partial document.
func (r *Resource[T]) Update(ctx context.Context, id, body any, opts *UpdateOptions) (T, error) {
	return Update[T](ctx, r.svc, id, body, opts)
}

// Delete removes an entity. The response body is discarded.
func (r *Resource[T]) Delete(ctx context.Context, id any, opts *Options) error {
	_, err := Delete[[]byte](ctx, r.svc, id, opts)
	return err
}
