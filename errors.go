package twtw

import (
	"github.com/akeil/twtw/internal/errors"
)

// ErrorKind classifies the errors returned when reading or writing books.
type ErrorKind = errors.Kind

const (
	// UnknownError is used for failures that fit no other kind.
	UnknownError = errors.Unknown
	// FileError means a file could not be opened, created or written.
	FileError = errors.File
	// ParamError means an argument was missing or invalid.
	ParamError = errors.Param
	// InvalidFormatError means the data is not a valid book.
	InvalidFormatError = errors.InvalidFormat
)

// Wrap wraps an error by prepending additional text.
// The text can contain formatting parameters; the kind is kept.
func Wrap(err error, msg string, v ...interface{}) error {
	return errors.Wrap(err, msg, v...)
}

// NewValidationError creates an error from the given format string.
func NewValidationError(msg string, v ...interface{}) error {
	return errors.NewValidationError(msg, v...)
}

// KindOf returns the kind of an error returned by this package.
func KindOf(err error) ErrorKind {
	return errors.KindOf(err)
}

// IsInvalidFormat checks if the given error is an InvalidFormat error.
func IsInvalidFormat(err error) bool {
	return errors.IsInvalidFormat(err)
}

// IsFileError checks if the given error is a File error.
func IsFileError(err error) bool {
	return errors.IsFileError(err)
}

// IsParamError checks if the given error is a Param error.
func IsParamError(err error) bool {
	return errors.IsParamError(err)
}
