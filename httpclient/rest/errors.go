package rest

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/restkit/errors"
	"github.com/kbukum/restkit/httpclient"
)

// translateError normalizes a failed call into an *errors.AppError whose
// message is the original error text and whose cause is err, so
// httpclient.IsNotFound and friends keep working on the result.
func translateError(op, method, url string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	appErr := errors.New(codeFor(err), err.Error(), httpclient.StatusCode(err))
	var httpErr *httpclient.Error
	if stderrors.As(err, &httpErr) {
		appErr.Retryable = httpErr.Retryable
	}
	return appErr.WithCause(err).WithDetails(map[string]any{
		"operation": op,
		"method":    method,
		"url":       url,
	})
}

func codeFor(err error) errors.ErrorCode {
	var httpErr *httpclient.Error
	if !stderrors.As(err, &httpErr) {
		switch {
		case stderrors.Is(err, context.Canceled):
			return errors.ErrCodeCanceled
		case stderrors.Is(err, context.DeadlineExceeded):
			return errors.ErrCodeTimeout
		}
		return errors.ErrCodeInternal
	}

	switch httpErr.Code {
	case httpclient.ErrCodeTimeout:
		return errors.ErrCodeTimeout
	case httpclient.ErrCodeConnection:
		return errors.ErrCodeConnectionFailed
	case httpclient.ErrCodeAuth:
		if httpErr.StatusCode == 403 {
			return errors.ErrCodeForbidden
		}
		return errors.ErrCodeUnauthorized
	case httpclient.ErrCodeNotFound:
		return errors.ErrCodeNotFound
	case httpclient.ErrCodeConflict:
		return errors.ErrCodeConflict
	case httpclient.ErrCodeRateLimit:
		return errors.ErrCodeRateLimited
	case httpclient.ErrCodeValidation:
		return errors.ErrCodeInvalidInput
	case httpclient.ErrCodeCanceled:
		return errors.ErrCodeCanceled
	default:
		return errors.ErrCodeServiceUnavailable
	}
}

// IsNotFound checks if the error is a 404 Not Found.
func IsNotFound(err error) bool { return errors.Is(err, errors.ErrCodeNotFound) }

// IsUnauthorized checks if the error is a 401 or 403.
func IsUnauthorized(err error) bool {
	return errors.Is(err, errors.ErrCodeUnauthorized) || errors.Is(err, errors.ErrCodeForbidden)
}

// IsRetryable checks if the error can be retried by the caller.
func IsRetryable(err error) bool {
	appErr, ok := errors.AsAppError(err)
	return ok && appErr.Retryable
}
