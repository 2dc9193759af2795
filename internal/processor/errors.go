package processor

import (
	"errors"
	"fmt"
)

// ErrProcessingFailed matches every error returned by ProcessStandardEnv.
var ErrProcessingFailed = errors.New("environment processing failed")

// MissingVariableError occurs when a variable is unset or empty.
type MissingVariableError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing required environment variable: %s", e.Name)
}

// ErrorKind classifies a processing failure.
type ErrorKind string

// Processing failure kinds.
const (
	KindFileRead         ErrorKind = "file_read"
	KindMalformedContent ErrorKind = "malformed_content"
	KindTransformation   ErrorKind = "transformation"
)

// ProcessingError is returned by ProcessStandardEnv. Its message is always
// the same; the underlying failure is available through Kind and Unwrap.
type ProcessingError struct {
	Kind  ErrorKind
	Cause error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	return ErrProcessingFailed.Error()
}

// Unwrap returns the underlying failure.
func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrProcessingFailed.
func (e *ProcessingError) Is(target error) bool {
	return target == ErrProcessingFailed
}
