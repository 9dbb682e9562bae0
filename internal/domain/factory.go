package domain

import (
	"log/slog"
	"net/http"
)

// ExternalPayload is the normalized error body received from a peer
// service, prior to translation. The adapter layer owns the wire names;
// this type carries the parsed values only.
type ExternalPayload struct {
	// Code is the peer's own error code (e.g. "PS012").
	Code string

	// Component names the peer service that reported the failure.
	Component string

	// Message is the peer's error text.
	Message string

	// HTTPCode is the status the peer reported in its body, as sent on
	// the wire. Informational only; the transport status is authoritative.
	HTTPCode string

	// Details holds the peer's nested detail records, in order.
	Details []map[string]any
}

// DetailKeyExternalService is the fixed details key under which the
// reporting peer's name is preserved on translated errors.
const DetailKeyExternalService = "externalService"

// Factory builds StandardError values from the four failure shapes a
// request can encounter: a known catalog key, a key with a cause, a
// structured peer payload, and a bare HTTP status. Every method is
// total: it always terminates with a valid StandardError, degrading
// through the configuration fallback chain instead of failing. The
// factory never raises an error while constructing one.
//
// All methods are pure over the immutable tables; the only side effect
// is diagnostic logging when a fallback is taken.
type Factory struct {
	tables *Tables
	logger *slog.Logger
}

// NewFactory creates a factory over the given tables.
func NewFactory(tables *Tables, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}

	return &Factory{
		tables: tables,
		logger: logger.With(slog.String("component", "domain.Factory")),
	}
}

// FromCatalog builds an error for a known catalog key. A non-empty
// message overrides the configured description; details may be nil.
func (f *Factory) FromCatalog(key Key, message string, details map[string]any) *StandardError {
	entry := f.tables.Lookup(key)

	return newStandardError(entry, standardErrorOpts{
		message: message,
		details: details,
	})
}

// FromCause builds an error for a known catalog key, retaining cause
// for internal diagnostics. OriginalMessage is the cause's text.
func (f *Factory) FromCause(key Key, cause error) *StandardError {
	entry := f.tables.Lookup(key)

	opts := standardErrorOpts{cause: cause}
	if cause != nil {
		opts.originalMessage = cause.Error()
	}

	return newStandardError(entry, opts)
}

// FromExternal translates a structured peer error payload. The
// (component, code) pair resolves through the service resolver; absent
// pairs fall back to UNEXPECTED. The peer's message and detail records
// are preserved as diagnostics, never as the caller-visible code.
func (f *Factory) FromExternal(payload ExternalPayload) *StandardError {
	key, ok := f.tables.ResolveService(payload.Component, payload.Code)
	if !ok {
		f.logger.Warn("no resolver entry for external error, substituting UNEXPECTED",
			slog.String("service", payload.Component),
			slog.String("external_code", payload.Code),
		)

		key = KeyUnexpected
	}

	entry := f.tables.Lookup(key)

	return newStandardError(entry, standardErrorOpts{
		originalMessage: payload.Message,
		details:         map[string]any{DetailKeyExternalService: payload.Component},
		externalDetails: payload.Details,
	})
}

// FromHTTPStatus builds an error for a raw status with no usable body.
// The configured status resolver is consulted first; unresolved
// statuses follow the default policy below.
func (f *Factory) FromHTTPStatus(status int) *StandardError {
	entry := f.tables.Lookup(f.statusKey(status))

	return newStandardError(entry, standardErrorOpts{})
}

// FromUnstructured builds an error for a peer failure whose body could
// not be parsed as the shared contract. The key resolves from the
// transport status, exactly as FromHTTPStatus would, while the raw body
// text and reporting service survive as diagnostics.
func (f *Factory) FromUnstructured(status int, rawBody, component string) *StandardError {
	entry := f.tables.Lookup(f.statusKey(status))

	return newStandardError(entry, standardErrorOpts{
		originalMessage: rawBody,
		details:         map[string]any{DetailKeyExternalService: component},
	})
}

// statusKey resolves a transport status to a catalog key, consulting
// the configured status resolver before the default policy.
func (f *Factory) statusKey(status int) Key {
	if key, ok := f.tables.ResolveStatus(status); ok {
		return key
	}

	return defaultKeyForStatus(status)
}

// defaultKeyForStatus is the default status policy for statuses absent
// from the resolver. Any 5xx other than 503 collapses to UNEXPECTED;
// everything unlisted maps to BAD_REQUEST.
func defaultKeyForStatus(status int) Key {
	switch status {
	case http.StatusUnauthorized:
		return KeyUnauthorized
	case http.StatusForbidden:
		return KeyForbidden
	case http.StatusNotFound:
		return KeyNotFound
	case http.StatusServiceUnavailable:
		return KeyServiceUnavailable
	default:
		if status >= http.StatusInternalServerError {
			return KeyUnexpected
		}

		return KeyBadRequest
	}
}
