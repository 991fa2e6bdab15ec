package catalog

import (
	"errors"
)

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("empty query")

// User-visible messages.
const (
	MsgNotFound      = "Pokémon not found."
	MsgRandomFailed  = "Failed to load random Pokémon."
	MsgProfileFailed = "Failed to load Pokémon details."
)

// UserError pairs a message fit for display with the underlying cause.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() error { return e.Err }

// UserMessage returns the display message carried by err, or "" when err
// carries none.
func UserMessage(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return ""
}

func userError(msg string, err error) error {
	return &UserError{Message: msg, Err: err}
}
