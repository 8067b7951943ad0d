package client

import "errors"

// Classified backend failures. The gateway maps these to HTTP statuses and
// never forwards the underlying error text to the client.
var (
	// ErrUnavailable means the runtime could not be reached at all.
	ErrUnavailable = errors.New("model backend unavailable")

	// ErrTimeout means the generation call exceeded its deadline.
	ErrTimeout = errors.New("model backend timed out")

	// ErrGeneration means the runtime answered but generation failed.
	ErrGeneration = errors.New("model backend generation failed")
)
