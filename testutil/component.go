package testutil

import (
	"context"
	"testing"
)

// TestComponent is a test double with a lifecycle and resettable state.
type TestComponent interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state. The returned value can be passed
	// to Restore.
	Snapshot(ctx context.Context) (any, error)

	// Restore returns the component to a state captured by Snapshot.
	Restore(ctx context.Context, snapshot any) error
}

// CleanupFunc stops a component started with Setup.
type CleanupFunc func() error

// Setup starts a component and returns a function that stops it.
func Setup(ctx context.Context, component TestComponent) (CleanupFunc, error) {
	if err := component.Start(ctx); err != nil {
		return nil, err
	}
	return func() error { return component.Stop(ctx) }, nil
}

// THelper binds component lifecycle calls to a test, failing it on error.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps a test for component helpers.
func T(t testing.TB) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets the context passed to the component.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts a component and stops it when the test ends.
func (h *THelper) Setup(component TestComponent) {
	h.t.Helper()
	if err := component.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start component %s: %v", component.Name(), err)
	}
	h.t.Cleanup(func() {
		if err := component.Stop(h.ctx); err != nil {
			h.t.Errorf("failed to stop component %s: %v", component.Name(), err)
		}
	})
}

// Reset resets a component to its initial state.
func (h *THelper) Reset(component TestComponent) {
	h.t.Helper()
	if err := component.Reset(h.ctx); err != nil {
		h.t.Fatalf("failed to reset component %s: %v", component.Name(), err)
	}
}

// Snapshot captures the current state of a component.
func (h *THelper) Snapshot(component TestComponent) any {
	h.t.Helper()
	snapshot, err := component.Snapshot(h.ctx)
	if err != nil {
		h.t.Fatalf("failed to snapshot component %s: %v", component.Name(), err)
	}
	return snapshot
}

// Restore returns a component to a previously captured state.
func (h *THelper) Restore(component TestComponent, snapshot any) {
	h.t.Helper()
	if err := component.Restore(h.ctx, snapshot); err != nil {
		h.t.Fatalf("failed to restore component %s: %v", component.Name(), err)
	}
}
