package acl

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/mktcore/sales-gateway/internal/domain"
)

// maxErrorBodyBytes caps how much of a peer error body is read.
// Peer error payloads are small; anything larger is hostile or broken.
const maxErrorBodyBytes = 64 << 10

// defaultComponent names the reporting service when the caller did not
// identify the peer.
const defaultComponent = "external-service"

// externalErrorBody is the error contract shared by the marketplace
// services. The wire names are fixed by that contract and never change
// here, whatever the internal names do.
type externalErrorBody struct {
	Code      string           `json:"code"`
	Component string           `json:"componente"`
	Message   string           `json:"error"`
	HTTPCode  string           `json:"httpcode"`
	Details   []map[string]any `json:"details"`
}

// Translator converts failed peer HTTP responses into standard errors.
// It is total: every response, however malformed, yields a usable
// *domain.StandardError.
type Translator struct {
	factory *domain.Factory
	logger  *slog.Logger
}

// NewTranslator creates a translator over the given factory.
func NewTranslator(factory *domain.Factory, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Translator{
		factory: factory,
		logger:  logger.With(slog.String("component", "acl.Translator")),
	}
}

// TranslateResponse normalizes a non-2xx peer response. It reads at
// most maxErrorBodyBytes and does not close the body; the caller owns
// the response.
//
// Degradation order:
//   - structured JSON body: resolved through the service resolver
//   - unreadable body: resolved from the transport status alone
//   - unparseable body: resolved from the transport status, keeping
//     the raw text as the diagnostic message
func (t *Translator) TranslateResponse(resp *http.Response, service string) *domain.StandardError {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		t.logger.Warn("failed to read peer error body",
			slog.String("service", service),
			slog.Int("status", resp.StatusCode),
			slog.Any("error", err),
		)

		return t.factory.FromHTTPStatus(resp.StatusCode)
	}

	return t.Translate(resp.StatusCode, body, service)
}

// Translate normalizes a peer error from its status and raw body.
func (t *Translator) Translate(status int, body []byte, service string) *domain.StandardError {
	if service == "" {
		service = defaultComponent
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return t.factory.FromHTTPStatus(status)
	}

	var external externalErrorBody
	if err := json.Unmarshal(trimmed, &external); err != nil || external.Code == "" {
		// The peer broke its own contract. Keep the raw text as the
		// diagnostic message and resolve from the status.
		t.logger.Warn("unparseable peer error body",
			slog.String("service", service),
			slog.Int("status", status),
		)

		return t.factory.FromUnstructured(status, string(trimmed), service)
	}

	component := external.Component
	if component == "" {
		component = service
	}

	return t.factory.FromExternal(domain.ExternalPayload{
		Code:      external.Code,
		Component: component,
		Message:   external.Message,
		HTTPCode:  external.HTTPCode,
		Details:   external.Details,
	})
}

// TransportFailure normalizes a failure that never produced a peer
// response (connection refused, timeout, DNS).
func (t *Translator) TransportFailure(cause error) *domain.StandardError {
	return t.factory.FromCause(domain.KeyServiceUnavailable, cause)
}

// DecodeFailure normalizes a malformed success body from a peer.
func (t *Translator) DecodeFailure(cause error) *domain.StandardError {
	return t.factory.FromCause(domain.KeyUnexpected, cause)
}
