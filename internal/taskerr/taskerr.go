// Package taskerr defines the error kinds every boundary operation reports.
// Nothing crosses the service boundary as an unstructured fault: failures are
// wrapped into one of these sentinels before returning to the caller.
package taskerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized means no valid identity could be resolved for the caller.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation means the input was malformed (e.g. empty task label).
	ErrValidation = errors.New("validation failed")

	// ErrNotFoundOrForbidden means the target id is absent or owned by someone
	// else. The two cases are deliberately indistinguishable so a caller cannot
	// probe for the existence of another user's records.
	ErrNotFoundOrForbidden = errors.New("todo not found")

	// ErrStore means the record store rejected or failed the operation.
	ErrStore = errors.New("store error")
)

// Validation wraps a human-readable reason into a ValidationError.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Store wraps an underlying store failure, preserving its message.
func Store(err error) error {
	return fmt.Errorf("%w: %v", ErrStore, err)
}

// Message returns the short user-facing text for err. The sentinel prefix is
// stripped from wrapped validation and store errors so the caller sees only
// the reason; anything unrecognized collapses to a generic message.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrNotFoundOrForbidden):
		return "Todo not found"
	case errors.Is(err, ErrValidation):
		return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
	case errors.Is(err, ErrStore):
		return strings.TrimPrefix(err.Error(), ErrStore.Error()+": ")
	default:
		return "Internal server error"
	}
}
