// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	ErrNoFetcher       = errors.New("page fetch capability is not available")
	ErrNoExtractor     = errors.New("no extract function supplied")
	ErrMissingUsername = errors.New("Please enter both usernames.")
	ErrSameUsername    = errors.New("Usernames cannot be the same.")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeConfiguration   ErrorCode = "CONFIGURATION"
	ErrCodeSubjectNotFound ErrorCode = "SUBJECT_NOT_FOUND"
	ErrCodeFetchFailed     ErrorCode = "FETCH_FAILED"
	ErrCodeTransientPage   ErrorCode = "TRANSIENT_PAGE"
	ErrCodeValidation      ErrorCode = "VALIDATION"
	ErrCodeParseError      ErrorCode = "PARSE_ERROR"
)

// EngineError wraps errors with the subject and status they relate to
type EngineError struct {
	Code       ErrorCode
	Message    string
	Subject    string
	Status     int
	URL        string
	Underlying error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

// WithSubject records which user the error concerns
func (e *EngineError) WithSubject(subject string) *EngineError {
	e.Subject = subject
	return e
}

// WithStatus records the HTTP status and URL of a failed fetch
func (e *EngineError) WithStatus(status int, url string) *EngineError {
	e.Status = status
	e.URL = url
	return e
}

// NotFoundError is returned when a user's listing root answers 404
func NotFoundError(subject string) *EngineError {
	msg := fmt.Sprintf("Could not find Letterboxd user '%s'. Please check the username and try again.", subject)
	return NewEngineError(ErrCodeSubjectNotFound, msg, nil).WithSubject(subject)
}

// ValidationError wraps one of the input validation sentinels
func ValidationError(err error) *EngineError {
	return NewEngineError(ErrCodeValidation, err.Error(), err)
}

// UserMessage returns the human-readable part of err for display.
// Errors that are not EngineErrors are returned as is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		if ee.Code == ErrCodeFetchFailed && ee.Underlying != nil {
			return fmt.Sprintf("%s: %v", ee.Message, ee.Underlying)
		}
		return ee.Message
	}
	return err.Error()
}

// HasCode reports whether err is an EngineError with the given code
func HasCode(err error, code ErrorCode) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == code
}

// IsNotFound reports whether err means a user does not exist
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodeSubjectNotFound)
}

// IsValidation reports whether err was raised before any network activity
func IsValidation(err error) bool {
	return HasCode(err, ErrCodeValidation)
}
