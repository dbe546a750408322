package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConfig       = errors.New("configuration error")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError marks errors that must block evaluation before it starts:
// unreadable rule tables, unresolved column mappings, bad manifests.
func NewConfigError(message string, cause error) *AppError {
	return &AppError{Code: "CONFIG_ERROR", Message: message, Cause: cause}
}

// IsConfigError reports whether err is a configuration-class AppError.
func IsConfigError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Code == "CONFIG_ERROR"
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
