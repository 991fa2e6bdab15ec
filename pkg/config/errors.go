package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// InvalidConfigError names the offending field and why it was rejected.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewInvalidConfigError constructs a typed InvalidConfigError.
func NewInvalidConfigError(field, reason string) error {
	return &InvalidConfigError{Field: field, Reason: reason}
}
