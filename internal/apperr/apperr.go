// Package apperr defines the two caller-facing error kinds of the adapter.
// Unresolved mappings and failed validation are results, not errors.
package apperr

import (
	"errors"
	"fmt"
)

// InvalidArgumentError reports a missing or malformed request input.
type InvalidArgumentError struct {
	msg string
}

func (e *InvalidArgumentError) Error() string { return e.msg }

// NewInvalidArgument returns an InvalidArgumentError with msg.
func NewInvalidArgument(msg string) error { return &InvalidArgumentError{msg: msg} }

// InvalidArgumentf formats an InvalidArgumentError.
func InvalidArgumentf(format string, args ...any) error {
	return &InvalidArgumentError{msg: fmt.Sprintf(format, args...)}
}

// IsInvalidArgument reports whether err wraps an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

// SchemaConfigurationError reports a target schema that is structurally
// invalid or uses an unsupported construct.
type SchemaConfigurationError struct {
	msg string
	err error
}

func (e *SchemaConfigurationError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}

	return e.msg
}

func (e *SchemaConfigurationError) Unwrap() error { return e.err }

// NewSchemaConfiguration returns a SchemaConfigurationError with msg.
func NewSchemaConfiguration(msg string) error { return &SchemaConfigurationError{msg: msg} }

// SchemaConfigurationf formats a SchemaConfigurationError.
func SchemaConfigurationf(format string, args ...any) error {
	return &SchemaConfigurationError{msg: fmt.Sprintf(format, args...)}
}

// WrapSchemaConfiguration wraps cause as a SchemaConfigurationError.
func WrapSchemaConfiguration(cause error, msg string) error {
	return &SchemaConfigurationError{msg: msg, err: cause}
}

// IsSchemaConfiguration reports whether err wraps a SchemaConfigurationError.
func IsSchemaConfiguration(err error) bool {
	var target *SchemaConfigurationError
	return errors.As(err, &target)
}

// Kind names the kind of err for transport payloads: "InvalidArgument",
// "SchemaConfigurationError", or "Internal".
func Kind(err error) string {
	switch {
	case IsInvalidArgument(err):
		return "InvalidArgument"
	case IsSchemaConfiguration(err):
		return "SchemaConfigurationError"
	default:
		return "Internal"
	}
}
