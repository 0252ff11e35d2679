package services

import (
	"errors"
	"fmt"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/validation"
)

// Sentinel errors of the ledger core. All are per-request and
// recoverable; none is fatal to the process.
var (
	// ErrNotFound: the entry, category or invite id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate: a category name collision.
	ErrDuplicate = errors.New("duplicate name")
	// ErrEmailTaken: registration with an email already in use.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidInvite: the token is unknown, already used or expired.
	ErrInvalidInvite = errors.New("invalid or expired invite")
)

// ValidationError carries the per-field violations of a rejected
// input. It is detected before any persistence write.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", map[string]string(e.Violations))
}

// AsValidation unwraps a *ValidationError if err is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
