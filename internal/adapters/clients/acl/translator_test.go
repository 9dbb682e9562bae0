package acl

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mktcore/sales-gateway/internal/domain"
)

func newTestFactory(t *testing.T) *domain.Factory {
	t.Helper()

	entries := map[domain.Key]domain.ConfigEntry{
		domain.KeyUnauthorized:       {Code: "MC001", Description: "Access denied", HTTPStatus: 401},
		domain.KeyUnexpected:         {Code: "MC003", Description: "Unexpected error", HTTPStatus: 500},
		domain.KeyNotFound:           {Code: "MC004", Description: "Resource not found", HTTPStatus: 404},
		domain.KeyBadRequest:         {Code: "MC005", Description: "Bad request", HTTPStatus: 400},
		domain.KeyServiceUnavailable: {Code: "MC007", Description: "Service unavailable", HTTPStatus: 503},
		domain.KeyInsufficientStock:  {Code: "MC008", Description: "Insufficient stock", HTTPStatus: 422},
	}
	services := map[string]map[string]domain.Key{
		"product-service": {
			"PS012": domain.KeyInsufficientStock,
		},
		"session-service": {
			"SS001": domain.KeyUnauthorized,
		},
	}
	statuses := map[string]domain.Key{
		"404": domain.KeyNotFound,
	}

	tables, err := domain.NewTables(entries, services, statuses, slog.Default())
	require.NoError(t, err)

	return domain.NewFactory(tables, slog.Default())
}

func newTestTranslator(t *testing.T) *Translator {
	t.Helper()

	return NewTranslator(newTestFactory(t), slog.Default())
}

func TestTranslate_StructuredBody(t *testing.T) {
	translator := newTestTranslator(t)

	body := `{
		"code": "PS012",
		"componente": "product-service",
		"error": "only 2 units left",
		"httpcode": "422",
		"details": [{"productId": "p-9"}]
	}`

	std := translator.Translate(http.StatusUnprocessableEntity, []byte(body), "product-service")

	assert.Equal(t, "MC008", std.Code())
	assert.Equal(t, "Insufficient stock", std.Description())
	assert.Equal(t, 422, std.HTTPStatus())
	assert.Equal(t, "only 2 units left", std.OriginalMessage())
	assert.Equal(t, "product-service", std.Details()[domain.DetailKeyExternalService])

	require.Len(t, std.ExternalDetails(), 1)
	assert.Equal(t, "p-9", std.ExternalDetails()[0]["productId"])
}

func TestTranslate_ComponentDefaultsToCaller(t *testing.T) {
	translator := newTestTranslator(t)

	body := `{"code": "SS001", "error": "token expired"}`

	std := translator.Translate(http.StatusUnauthorized, []byte(body), "session-service")

	assert.Equal(t, "MC001", std.Code())
	assert.Equal(t, "session-service", std.Details()[domain.DetailKeyExternalService])
}

func TestTranslate_UnnamedCallerGetsGenericComponent(t *testing.T) {
	translator := newTestTranslator(t)

	std := translator.Translate(http.StatusBadGateway, []byte("not json"), "")

	assert.Equal(t, "external-service", std.Details()[domain.DetailKeyExternalService])
}

func TestTranslate_UnresolvedPair(t *testing.T) {
	translator := newTestTranslator(t)

	body := `{"code": "ZZ999", "componente": "unknown-service", "error": "boom"}`

	// A structured payload with an unmapped code is UNEXPECTED, never a
	// status-derived key. The transport status does not leak through.
	std := translator.Translate(http.StatusConflict, []byte(body), "product-service")

	assert.Equal(t, "MC003", std.Code())
	assert.Equal(t, 500, std.HTTPStatus())
	assert.Equal(t, "boom", std.OriginalMessage())
	assert.Equal(t, "unknown-service", std.Details()[domain.DetailKeyExternalService])
}

func TestTranslate_EmptyBody(t *testing.T) {
	translator := newTestTranslator(t)

	tests := []struct {
		name       string
		status     int
		wantCode   string
		wantStatus int
	}{
		{name: "resolved by status table", status: 404, wantCode: "MC004", wantStatus: 404},
		{name: "default policy 401", status: 401, wantCode: "MC001", wantStatus: 401},
		{name: "default policy 503", status: 503, wantCode: "MC007", wantStatus: 503},
		{name: "default policy 500", status: 500, wantCode: "MC003", wantStatus: 500},
		{name: "default policy other 4xx", status: 418, wantCode: "MC005", wantStatus: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			std := translator.Translate(tt.status, nil, "product-service")

			assert.Equal(t, tt.wantCode, std.Code())
			assert.Equal(t, tt.wantStatus, std.HTTPStatus())
		})
	}
}

func TestTranslate_WhitespaceBodyIsEmpty(t *testing.T) {
	translator := newTestTranslator(t)

	std := translator.Translate(404, []byte("  \n\t"), "product-service")

	assert.Equal(t, "MC004", std.Code())
}

func TestTranslate_UnparseableBody(t *testing.T) {
	translator := newTestTranslator(t)

	// HTML error pages and plain text must still normalize. The raw body
	// is preserved as the diagnostic message.
	std := translator.Translate(http.StatusBadGateway, []byte("<html>Bad Gateway</html>"), "sale-service")

	assert.Equal(t, "MC003", std.Code())
	assert.Equal(t, 500, std.HTTPStatus())
	assert.Equal(t, "<html>Bad Gateway</html>", std.OriginalMessage())
	assert.Equal(t, "sale-service", std.Details()[domain.DetailKeyExternalService])
}

func TestTranslate_UnparseableBodyResolvesLikeBareStatus(t *testing.T) {
	translator := newTestTranslator(t)

	bare := translator.Translate(http.StatusServiceUnavailable, nil, "sale-service")
	textual := translator.Translate(http.StatusServiceUnavailable, []byte("gateway timeout"), "sale-service")

	assert.Equal(t, bare.Code(), textual.Code())
	assert.Equal(t, bare.HTTPStatus(), textual.HTTPStatus())
	assert.Equal(t, "gateway timeout", textual.OriginalMessage())
	assert.Equal(t, "sale-service", textual.Details()[domain.DetailKeyExternalService])
}

func TestTranslate_JSONWithoutCode(t *testing.T) {
	translator := newTestTranslator(t)

	// Valid JSON that is not the shared error contract degrades the same
	// way as non-JSON bodies.
	std := translator.Translate(http.StatusInternalServerError, []byte(`{"message":"oops"}`), "client-service")

	assert.Equal(t, "MC003", std.Code())
	assert.Equal(t, `{"message":"oops"}`, std.OriginalMessage())
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
func (failingBody) Close() error             { return nil }

func TestTranslateResponse_BodyReadFailure(t *testing.T) {
	translator := newTestTranslator(t)

	resp := &http.Response{
		StatusCode: http.StatusServiceUnavailable,
		Body:       failingBody{},
	}

	std := translator.TranslateResponse(resp, "product-service")

	assert.Equal(t, "MC007", std.Code())
	assert.Equal(t, 503, std.HTTPStatus())
}

func TestTranslateResponse_ReadsBody(t *testing.T) {
	translator := newTestTranslator(t)

	resp := &http.Response{
		StatusCode: http.StatusUnprocessableEntity,
		Body:       io.NopCloser(strings.NewReader(`{"code":"PS012","componente":"product-service","error":"no stock"}`)),
	}

	std := translator.TranslateResponse(resp, "product-service")

	assert.Equal(t, "MC008", std.Code())
	assert.Equal(t, "no stock", std.OriginalMessage())
}

func TestTransportFailure(t *testing.T) {
	translator := newTestTranslator(t)

	std := translator.TransportFailure(io.ErrUnexpectedEOF)

	assert.Equal(t, "MC007", std.Code())
	assert.Equal(t, 503, std.HTTPStatus())
	assert.ErrorIs(t, std, io.ErrUnexpectedEOF)
}

func TestDecodeFailure(t *testing.T) {
	translator := newTestTranslator(t)

	std := translator.DecodeFailure(io.ErrUnexpectedEOF)

	assert.Equal(t, "MC003", std.Code())
	assert.Equal(t, 500, std.HTTPStatus())
}
