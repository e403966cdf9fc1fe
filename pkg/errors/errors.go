// Package errors defines the failure taxonomy shared by the search engine and
// its collaborators. Every validation failure wraps one of the sentinels below
// so callers can branch with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfRange      = errors.New("out of range")
)

// Codes returned by Code.
const (
	CodeInvalidArgument = "invalid_argument"
	CodeOutOfRange      = "out_of_range"
	CodeInternal        = "internal"
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// Code maps err to a stable label for metrics and exit statuses.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, ErrOutOfRange):
		return CodeOutOfRange
	default:
		return CodeInternal
	}
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}
