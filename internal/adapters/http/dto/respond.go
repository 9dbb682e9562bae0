package dto

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/logging"
)

// normalize coerces any failure into a StandardError. Errors that
// escaped the factory are wrapped with the built-in default entry so
// the caller still sees the uniform envelope.
func normalize(c *gin.Context, err error) *domain.StandardError {
	if std, ok := domain.AsStandard(err); ok {
		return std
	}

	logger := logging.FromContext(c.Request.Context())
	logger.Error("unrecognized error reached response boundary",
		slog.String("path", c.FullPath()),
		slog.Any("error", err),
	)

	return domain.Unrecognized(err)
}

// HandleError writes the uniform error envelope for any failure.
// The transport status always comes from the normalized error, never
// from the peer response or the handler.
func HandleError(c *gin.Context, err error) {
	std := normalize(c, err)

	if std.HTTPStatus() >= http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error("request failed",
			slog.String("code", std.Code()),
			slog.Int("status", std.HTTPStatus()),
			slog.String("original_message", std.OriginalMessage()),
		)
	}

	c.JSON(std.HTTPStatus(), NewErrorResponse(std))
}

// AbortWithError aborts the request chain and writes the error envelope.
// Use this in middleware when further processing must stop.
func AbortWithError(c *gin.Context, err error) {
	std := normalize(c, err)

	c.AbortWithStatusJSON(std.HTTPStatus(), NewErrorResponse(std))
}
