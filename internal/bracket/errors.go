package bracket

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Failure kinds shared by the engine, the services and the HTTP mapping.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrPermission = errors.New("permission denied")
	ErrConflict   = errors.New("conflict")
)

// PrecededMatchIncompleteError is returned when a match is scored before both
// of its feeder matches are decided.
type PrecededMatchIncompleteError struct {
	MatchID     string
	Round       int
	MatchNumber int
}

func (e *PrecededMatchIncompleteError) Error() string {
	return fmt.Sprintf("preceding match round %d match %d is not decided yet", e.Round, e.MatchNumber)
}

func validationf(format string, args ...any) error {
	return errors.Wrapf(ErrValidation, format, args...)
}
