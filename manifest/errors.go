package manifest

import "fmt"

// SyntaxError reports a manifest that cannot be decoded or that describes
// something a shader binary cannot hold.
type SyntaxError struct {
	// Line and Column locate the error when the decoder reports a position.
	Line   int
	Column int

	Message string
	Err     error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

// Unwrap returns the decoder error, if any.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func syntaxErrorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...)}
}

// RelocationError reports an entry point reference that cannot be resolved.
type RelocationError struct {
	Program int
	Ref     string
	Message string
}

// Error implements the error interface.
func (e *RelocationError) Error() string {
	return fmt.Sprintf("program %d: %q: %s", e.Program, e.Ref, e.Message)
}
