package rest

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/kbukum/restkit/errors"
	"github.com/kbukum/restkit/httpclient"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      errors.ErrorCode
		status    int
		retryable bool
	}{
		{"not found", httpclient.ClassifyStatusCode(404, []byte("gone")), errors.ErrCodeNotFound, 404, false},
		{"unauthorized", httpclient.ClassifyStatusCode(401, nil), errors.ErrCodeUnauthorized, 401, false},
		{"forbidden", httpclient.ClassifyStatusCode(403, nil), errors.ErrCodeForbidden, 403, false},
		{"conflict", httpclient.ClassifyStatusCode(409, nil), errors.ErrCodeConflict, 409, false},
		{"rate limit", httpclient.ClassifyStatusCode(429, nil), errors.ErrCodeRateLimited, 429, true},
		{"bad request", httpclient.ClassifyStatusCode(400, nil), errors.ErrCodeInvalidInput, 400, false},
		{"server", httpclient.ClassifyStatusCode(503, nil), errors.ErrCodeServiceUnavailable, 503, true},
		{"not implemented", httpclient.ClassifyStatusCode(501, nil), errors.ErrCodeServiceUnavailable, 501, false},
		{"timeout", httpclient.NewTimeoutError(context.DeadlineExceeded), errors.ErrCodeTimeout, 0, true},
		{"connection", httpclient.NewConnectionError(stderrors.New("refused")), errors.ErrCodeConnectionFailed, 0, true},
		{"canceled", httpclient.NewCanceledError(context.Canceled), errors.ErrCodeCanceled, 0, false},
		{"bare context", fmt.Errorf("wrapped: %w", context.Canceled), errors.ErrCodeCanceled, 0, false},
		{"decode", stderrors.New("rest: decode response: bad"), errors.ErrCodeInternal, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError("single", "GET", "api/items/5", tt.err)
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, appErr.Code)
			}
			if appErr.HTTPStatus != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, appErr.HTTPStatus)
			}
			if appErr.Retryable != tt.retryable {
				t.Errorf("expected retryable %v, got %v", tt.retryable, appErr.Retryable)
			}
			if appErr.Message != tt.err.Error() {
				t.Errorf("expected original message %q, got %q", tt.err.Error(), appErr.Message)
			}
			if !stderrors.Is(err, tt.err) {
				t.Error("expected original error in the chain")
			}
			if appErr.Details["operation"] != "single" || appErr.Details["url"] != "api/items/5" || appErr.Details["method"] != "GET" {
				t.Errorf("unexpected details: %v", appErr.Details)
			}
		})
	}
}

func TestTranslateError_PassThrough(t *testing.T) {
	if translateError("list", "GET", "x", nil) != nil {
		t.Error("expected nil for nil error")
	}

	orig := errors.InvalidInput("method", "bad")
	if got := translateError("update", "DELETE", "x", orig); got != orig {
		t.Errorf("expected AppError unchanged, got %v", got)
	}
}

func TestTranslateError_Helpers(t *testing.T) {
	err := translateError("single", "GET", "x", httpclient.ClassifyStatusCode(404, nil))
	if !IsNotFound(err) || !httpclient.IsNotFound(err) {
		t.Error("expected not found through both helpers")
	}
	if IsUnauthorized(err) || IsRetryable(err) {
		t.Error("unexpected classification")
	}

	err = translateError("list", "GET", "x", httpclient.ClassifyStatusCode(403, nil))
	if !IsUnauthorized(err) {
		t.Error("expected 403 to count as unauthorized")
	}
	err = translateError("list", "GET", "x", httpclient.ClassifyStatusCode(502, nil))
	if !IsRetryable(err) || !httpclient.IsServerError(err) {
		t.Error("expected retryable server error")
	}
}
