package endpoint

import "errors"

// Request errors returned by Execute before any command runs.
var (
	// ErrInvalidSecret means the endpoint has a secret and the request's
	// signature or token did not match it.
	ErrInvalidSecret = errors.New("invalid secret")

	// ErrBodyDecode means the request body is not valid UTF-8.
	ErrBodyDecode = errors.New("request body is not valid UTF-8")
)
