// Package common defines shared constants and sentinel errors used across
// client and server layers of gophdrive. Callers should use errors.Is to
// match these values; transport boundaries map them to and from gRPC codes.
package common

import "errors"

var (
	// Request validation errors (malformed chunk metadata, empty filename).
	ErrInvalidArgument = errors.New("invalid argument")

	// Path errors raised by the sandbox guard.
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")

	// Resource contention: a path is locked by another upload, or the
	// client holds no connection.
	ErrUnavailable = errors.New("unavailable")

	// Unexpected I/O or filesystem failures.
	ErrInternal = errors.New("internal error")

	// Transport-level connect failure.
	ErrConnection = errors.New("connection error")
)
