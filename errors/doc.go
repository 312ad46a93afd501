// Package errors provides the unified failure type surfaced by restkit.
//
// Every failure that leaves a REST operation is an *AppError: a
// machine-readable code, the original human-readable message, the HTTP
// status that produced it (when there was one), a retryable hint and the
// underlying cause. Callers can keep using errors.As / errors.Is on the
// cause chain.
package errors
