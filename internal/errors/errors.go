package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types for the parking client
var (
	// Session errors
	ErrNoToken      = errors.New("no access token")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")

	// Transport errors
	ErrRequestFailed  = errors.New("request failed")
	ErrNonJSON        = errors.New("server returned non-JSON response")
	ErrInvalidRequest = errors.New("invalid request")
)

// APIError is a non-2xx response from the backend. Cause is set when the
// request never got a response.
type APIError struct {
	Status  int
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// NewAPIError creates a new APIError with the given status and message.
func NewAPIError(status int, message string) *APIError {
	return &APIError{
		Status:  status,
		Message: message,
	}
}

// IsUnauthorized reports whether err is an APIError carrying 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
