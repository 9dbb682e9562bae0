package domain

import (
	"errors"
	"fmt"
)

// StandardError is the canonical error value produced by the Factory.
// Code, Description and HTTPStatus are safe to show to callers;
// OriginalMessage, the cause and ExternalDetails are operator-only
// diagnostics. Instances are immutable: all accessors return copies.
type StandardError struct {
	code            string
	description     string
	httpStatus      int
	originalMessage string
	cause           error
	details         map[string]any
	externalDetails []map[string]any
}

// newStandardError builds a StandardError from a config entry.
// The details map is cloned so later caller mutation cannot leak in;
// a nil map becomes an empty one (details are never nil).
func newStandardError(entry ConfigEntry, opts standardErrorOpts) *StandardError {
	details := make(map[string]any, len(opts.details))
	for k, v := range opts.details {
		details[k] = v
	}

	description := entry.Description
	if opts.message != "" {
		description = opts.message
	}

	return &StandardError{
		code:            entry.Code,
		description:     description,
		httpStatus:      entry.HTTPStatus,
		originalMessage: opts.originalMessage,
		cause:           opts.cause,
		details:         details,
		externalDetails: cloneDetailRecords(opts.externalDetails),
	}
}

// standardErrorOpts carries the optional fields of a StandardError
// during construction.
type standardErrorOpts struct {
	message         string
	originalMessage string
	cause           error
	details         map[string]any
	externalDetails []map[string]any
}

// Error implements the error interface.
func (e *StandardError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.cause != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.code, e.httpStatus, e.description, e.cause)
	}

	return fmt.Sprintf("%s (%d): %s", e.code, e.httpStatus, e.description)
}

// Unwrap exposes the internal cause for errors.Is/As chains.
// The cause is diagnostic only and is never serialized.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Code returns the public-facing internal code (e.g. "MC003").
func (e *StandardError) Code() string {
	return e.code
}

// Description returns the human-readable message shown to callers.
func (e *StandardError) Description() string {
	return e.description
}

// HTTPStatus returns the status the response should carry.
func (e *StandardError) HTTPStatus() int {
	return e.httpStatus
}

// OriginalMessage returns the message of the underlying failure,
// empty when there was none.
func (e *StandardError) OriginalMessage() string {
	return e.originalMessage
}

// Details returns a copy of the diagnostic detail mapping.
// The result is never nil.
func (e *StandardError) Details() map[string]any {
	out := make(map[string]any, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}

	return out
}

// ExternalDetails returns a copy of the detail records reported by the
// external service, in their original order.
func (e *StandardError) ExternalDetails() []map[string]any {
	return cloneDetailRecords(e.externalDetails)
}

// AsStandard extracts a StandardError from an error chain.
func AsStandard(err error) (*StandardError, bool) {
	var std *StandardError
	if errors.As(err, &std) {
		return std, true
	}

	return nil, false
}

// Unrecognized wraps a failure that reached the response boundary
// without being a StandardError. The result carries the built-in
// default entry; the original message survives only in diagnostics.
func Unrecognized(cause error) *StandardError {
	opts := standardErrorOpts{cause: cause}
	if cause != nil {
		opts.originalMessage = cause.Error()
	}

	return newStandardError(builtinUnexpected, opts)
}

func cloneDetailRecords(in []map[string]any) []map[string]any {
	if len(in) == 0 {
		return nil
	}

	out := make([]map[string]any, len(in))
	for i, rec := range in {
		cp := make(map[string]any, len(rec))
		for k, v := range rec {
			cp[k] = v
		}

		out[i] = cp
	}

	return out
}
