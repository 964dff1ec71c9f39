package task

import "errors"

// ErrConfiguration is returned when a required setting is missing. Raised
// before any stage runs; never retried.
var ErrConfiguration = errors.New("configuration error")

// ErrValidation is returned for malformed or incomplete payloads at any stage.
// Repeating the work cannot fix the payload, so it is never retried.
var ErrValidation = errors.New("validation error")

// ErrTransient is returned for network, timeout, and connection failures.
// Retried per the stage's policy.
var ErrTransient = errors.New("transient i/o error")

// ErrPersistence is returned for file write/read failures. Retried per the
// stage's policy.
var ErrPersistence = errors.New("persistence error")

// IsRetryable reports whether the runner may retry after err. Classification
// is by error kind, never by message inspection.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrPersistence)
}
