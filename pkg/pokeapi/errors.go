package pokeapi

import (
	"errors"
	"fmt"
)

// Sentinel errors used for simple equality-style checks.
var (
	// ErrNotFound indicates the API answered 404 for the requested resource.
	ErrNotFound = errors.New("pokeapi: not found")

	// ErrStatus indicates the API answered with a non-2xx status other than 404.
	ErrStatus = errors.New("pokeapi: unexpected status")
)

// StatusError is a typed error that carries the response status and the
// request URL for callers that need richer diagnostic information.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d (%s)", e.Code, e.URL)
}

func (e *StatusError) Is(target error) bool {
	if target == ErrStatus {
		return true
	}
	return target == ErrNotFound && e.Code == 404
}

// NewStatusError constructs a typed StatusError.
func NewStatusError(code int, url string) error {
	return &StatusError{Code: code, URL: url}
}

// IsNotFound reports whether err is (or wraps) a not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
