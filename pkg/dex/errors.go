package dex

import "errors"

var (
	// ErrNotInitialized is returned by triggers called before a successful Init.
	ErrNotInitialized = errors.New("national dex not initialized")

	// ErrTypeLimit is returned when selecting another type would exceed the
	// configured maximum.
	ErrTypeLimit = errors.New("type selection limit reached")

	// ErrInvalidPageSize is returned for page sizes outside PageSizes.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrUnknownGeneration and ErrUnknownType reject filter values no entry
	// can match.
	ErrUnknownGeneration = errors.New("unknown generation")
	ErrUnknownType       = errors.New("unknown type")

	// ErrStaleQuery is returned for a Query whose Revision is older than one
	// already applied.
	ErrStaleQuery = errors.New("stale query")
)

// User-visible messages.
const (
	MsgInitFailed = "Failed to initialize National Pokédex."
	MsgLoadFailed = "Failed to load National Pokédex."
)
