// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/mktcore/sales-gateway/internal/domain"
)

// ErrorResponse is the single error envelope every failed request
// renders to. Its field names are part of the public API contract and
// never change with internal refactors.
type ErrorResponse struct {
	// Error is the stable internal code (e.g. "MC004").
	Error string `json:"error"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Timestamp is the render time in RFC 3339.
	Timestamp string `json:"timestamp"`

	// TraceID is a fresh identifier minted per rendered response, for
	// support correlation. It is unrelated to the OpenTelemetry trace.
	TraceID string `json:"traceId"`

	// Details carries diagnostics when present, omitted when empty.
	Details map[string]any `json:"details,omitempty"`
}

// NewErrorResponse renders a StandardError to the wire envelope.
// Each call mints a new trace ID and timestamp; rendering the same
// error twice produces two distinct envelopes.
func NewErrorResponse(std *domain.StandardError) *ErrorResponse {
	details := std.Details()

	if original := std.OriginalMessage(); original != "" {
		details["originalError"] = original
	}

	if external := std.ExternalDetails(); len(external) > 0 {
		details["externalDetails"] = external
	}

	if len(details) == 0 {
		details = nil
	}

	return &ErrorResponse{
		Error:     std.Code(),
		Message:   std.Description(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		TraceID:   uuid.NewString(),
		Details:   details,
	}
}
