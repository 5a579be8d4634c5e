package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested user id is not present in the store.
	ErrNotFound = errors.New("user not found")
	// ErrEmailConflict indicates another live record already holds the email.
	ErrEmailConflict = errors.New("email already exists")
)

// ValidationError carries one message per invalid field so callers can
// report all problems at once.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// AsValidationError unwraps err into a *ValidationError, if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
