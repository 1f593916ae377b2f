package repositories

import (
	"errors"
	"strings"

	"github.com/usergraph/backend/internal/models"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError reports that a store refused to write a record. It carries the
// record as it was attempted together with that record's own messages.
type ValidationError struct {
	Record   models.User
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Messages, ", ")
}

// AsValidationError unwraps a ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
