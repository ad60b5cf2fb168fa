package common

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the engine-wide taxonomy. Services wrap these
// with context via Wrap; handlers map them to HTTP status codes with
// errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
	ErrInvalid   = errors.New("invalid")
	ErrTransient = errors.New("transient")
)

// Wrap attaches a human-readable message to a taxonomy sentinel.
func Wrap(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}

// IsRetryable reports whether an operation that returned err may be
// retried safely with the same idempotency token.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}
