package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrForbidden   = errors.New("forbidden")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Required builds the ValidationError used when one or more fields are absent.
func Required(msg string) error {
	return ValidationError{Message: msg}
}

// IsValidation reports whether err should be answered with a 400.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidDate)
}
