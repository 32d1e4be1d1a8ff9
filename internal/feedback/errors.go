package feedback

import "errors"

// ErrRateLimited is returned when a fingerprint hit its daily ceiling.
var ErrRateLimited = errors.New("daily submission limit reached")

// ValidationError carries the human-readable reason shown to the
// visitor. Handlers map it to a 400 response.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
