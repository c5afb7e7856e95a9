package shbin

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes assembly failures.
type ErrorKind uint8

const (
	// ErrSourceSyntax indicates the front end could not assemble the source.
	ErrSourceSyntax ErrorKind = iota

	// ErrRelocation indicates program-internal addresses could not be resolved.
	ErrRelocation

	// ErrFileAccess indicates the input file could not be read.
	ErrFileAccess

	// ErrValidation indicates the assembled result failed validation.
	// Only reported when validation is enabled.
	ErrValidation
)

// Topics passed to the ErrorHandler for each kind.
const (
	TopicSourceSyntax = "Error when Assembling Code"
	TopicRelocation   = "Error when Relocating Product"
	TopicFileAccess   = "error:"
	TopicValidation   = "Error when Validating Product"
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrSourceSyntax:
		return "SourceSyntax"
	case ErrRelocation:
		return "Relocation"
	case ErrFileAccess:
		return "FileAccess"
	case ErrValidation:
		return "Validation"
	default:
		return "Unknown"
	}
}

// Topic returns the handler topic for the kind.
func (k ErrorKind) Topic() string {
	switch k {
	case ErrSourceSyntax:
		return TopicSourceSyntax
	case ErrRelocation:
		return TopicRelocation
	case ErrValidation:
		return TopicValidation
	default:
		return TopicFileAccess
	}
}

// Error represents an assembly failure.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("shbin %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new error wrapping err. The message is taken from err.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: err.Error(),
		Err:     err,
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
