package cli

import (
	"errors"
	"strings"

	"github.com/jlrickert/dexview/pkg/catalog"
)

func renderUserError(err error, deps *Deps) string {
	if err == nil {
		return ""
	}

	var userErr *catalog.UserError
	if errors.As(err, &userErr) {
		if isDebugLogLevel(deps) && userErr.Err != nil {
			return userErr.Message + " (" + userErr.Err.Error() + ")"
		}
		return userErr.Message
	}

	return err.Error()
}

// userFacing attaches a display message to err.
func userFacing(msg string, err error) error {
	return &catalog.UserError{Message: msg, Err: err}
}

func isDebugLogLevel(deps *Deps) bool {
	if deps == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(deps.LogLevel), "debug")
}
