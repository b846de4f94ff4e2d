// Package errors holds the error taxonomy used across the book codecs.
//
// Every error that crosses a package boundary carries one of four kinds.
// The numeric values are stable status codes which may be shown to users
// or used as process exit codes.
package errors

import (
	e "errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	// None is the kind of a nil error.
	None Kind = 0
	// Unknown is used for failures that fit no other kind.
	Unknown Kind = -10
	// File means the underlying file or transport could not be opened or created.
	File Kind = -43
	// Param means an argument was missing or invalid.
	Param Kind = -50
	// InvalidFormat means the data does not match the expected layout.
	InvalidFormat Kind = -100
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Unknown:
		return "unknown error"
	case File:
		return "file error"
	case Param:
		return "parameter error"
	case InvalidFormat:
		return "invalid format"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type kindError struct {
	kind    Kind
	message string
	cause   error
}

func (k *kindError) Error() string {
	if k.cause != nil {
		return fmt.Sprintf("%v: %v", k.message, k.cause)
	}
	return k.message
}

func (k *kindError) Unwrap() error {
	return k.cause
}

func newKind(kind Kind, cause error, msg string, v ...interface{}) error {
	return &kindError{
		kind:    kind,
		message: fmt.Sprintf(msg, v...),
		cause:   cause,
	}
}

// NewInvalidFormat creates an InvalidFormat error from the given format string.
func NewInvalidFormat(msg string, v ...interface{}) error {
	return newKind(InvalidFormat, nil, msg, v...)
}

// NewParamError creates a Param error from the given format string.
func NewParamError(msg string, v ...interface{}) error {
	return newKind(Param, nil, msg, v...)
}

// NewValidationError reports invalid model data; it is a Param error.
func NewValidationError(msg string, v ...interface{}) error {
	return newKind(Param, nil, msg, v...)
}

// NewFileError wraps an I/O error as a File error.
func NewFileError(err error, msg string, v ...interface{}) error {
	return newKind(File, err, msg, v...)
}

// NewUnknown wraps err as an Unknown error.
func NewUnknown(err error, msg string, v ...interface{}) error {
	return newKind(Unknown, err, msg, v...)
}

// AsInvalidFormat converts any error to an InvalidFormat error,
// keeping the original as the cause.
func AsInvalidFormat(err error, msg string, v ...interface{}) error {
	if err == nil {
		return nil
	}
	return newKind(InvalidFormat, err, msg, v...)
}

// Wrap prepends additional text to an error.
// The kind of the wrapped error is preserved.
func Wrap(err error, msg string, v ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%v: %w", fmt.Sprintf(msg, v...), err)
}

// KindOf returns the kind of the given error.
// Errors without a kind are Unknown.
func KindOf(err error) Kind {
	if err == nil {
		return None
	}
	var k *kindError
	if e.As(err, &k) {
		return k.kind
	}
	return Unknown
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsInvalidFormat checks if the given error is an InvalidFormat error.
func IsInvalidFormat(err error) bool {
	return Is(err, InvalidFormat)
}

// IsParamError checks if the given error is a Param error.
func IsParamError(err error) bool {
	return Is(err, Param)
}

// IsFileError checks if the given error is a File error.
func IsFileError(err error) bool {
	return Is(err, File)
}
