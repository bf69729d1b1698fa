package predict

import (
	"errors"
)

var (
	// ErrMissingField is returned when a required form field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidNumber is returned when a form field does not parse as the
	// declared numeric type.
	ErrInvalidNumber = errors.New("invalid number")
)

// ValidationError is the client-side failure of a prediction: bad input or
// input the fitted model cannot encode. Field is empty when the failure came
// from the preprocessor or classifier rather than a single form field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
