package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mktcore/sales-gateway/internal/adapters/http/dto"
	"github.com/mktcore/sales-gateway/internal/app"
	"github.com/mktcore/sales-gateway/internal/domain"
)

// ClientHandler handles client-related HTTP endpoints.
type ClientHandler struct {
	service *app.ClientService
	factory *domain.Factory
}

// NewClientHandler creates a new client handler.
func NewClientHandler(service *app.ClientService, factory *domain.Factory) *ClientHandler {
	return &ClientHandler{
		service: service,
		factory: factory,
	}
}

// ClientResponse is the HTTP response structure for a client.
type ClientResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// toClientResponse converts a domain Client to an HTTP response.
func toClientResponse(client *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:     client.ID,
		Name:   client.Name,
		Email:  client.Email,
		Status: string(client.Status),
	}
}

// GetClient handles GET /api/v1/clients/:id
// Returns a single client from the client service.
//
// @Summary Get a client by ID
// @Description Fetches a client from the client service
// @Tags clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} ClientResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		dto.HandleError(c, h.factory.FromCatalog(domain.KeyBadRequest, "client ID is required", nil))
		return
	}

	client, err := h.service.GetClient(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toClientResponse(client))
}

// RegisterClientRoutes registers client routes on the given router group.
func (h *ClientHandler) RegisterClientRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	clients.GET("/:id", h.GetClient)
}
