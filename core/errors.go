package core

import "github.com/pkg/errors"

// FieldError pins a validation message to a specific struct field. The API
// error handler renders these as a field -> message map.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a business-rule violation on user-provided data, such as
// a coupon code that does not exist or a duplicate course slug. Handlers map
// it to a 400 response.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals that the service cannot keep running, e.g. the cart store
// directory became unwritable. It bubbles up to the server's error handler
// which triggers a graceful stop.
type shutdown struct {
	message string
}

// NewShutdownError wraps msg as an unrecoverable error.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err, at its cause, is unrecoverable.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
