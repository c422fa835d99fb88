package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Startup errors
	ErrTargetNotFound ErrorCode = "TARGET_NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Pipeline errors
	ErrScanFailed    ErrorCode = "SCAN_FAILED"
	ErrArchiveCreate ErrorCode = "ARCHIVE_CREATE"
	ErrArchiveWrite  ErrorCode = "ARCHIVE_WRITE"
	ErrRemoveFailed  ErrorCode = "REMOVE_FAILED"
)

// TarpackError represents a structured error with code and wrapped cause
type TarpackError struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

// Error implements the error interface
func (e *TarpackError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TarpackError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TarpackError) Is(target error) bool {
	var targetErr *TarpackError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TarpackError with the given code and message
func New(code ErrorCode, message string) *TarpackError {
	return &TarpackError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new TarpackError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TarpackError {
	return &TarpackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with a TarpackError
func Wrap(err error, code ErrorCode, message string) *TarpackError {
	if err == nil {
		return nil
	}
	return &TarpackError{
		Code:    code,
		Message: message,
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TarpackError {
	if err == nil {
		return nil
	}
	return &TarpackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Wrapped: err,
	}
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var tarpackErr *TarpackError
	if errors.As(err, &tarpackErr) {
		return tarpackErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TarpackError
func GetErrorCode(err error) ErrorCode {
	var tarpackErr *TarpackError
	if errors.As(err, &tarpackErr) {
		return tarpackErr.Code
	}
	return ErrUnknown
}
