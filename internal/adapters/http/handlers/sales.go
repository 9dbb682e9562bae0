package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mktcore/sales-gateway/internal/adapters/http/dto"
	"github.com/mktcore/sales-gateway/internal/app"
	"github.com/mktcore/sales-gateway/internal/domain"
)

// SaleHandler handles sale-related HTTP endpoints.
type SaleHandler struct {
	service *app.SaleService
	factory *domain.Factory
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(service *app.SaleService, factory *domain.Factory) *SaleHandler {
	return &SaleHandler{
		service: service,
		factory: factory,
	}
}

// SaleItemRequest is one requested line in a sale.
type SaleItemRequest struct {
	ProductID string `json:"productId" validate:"required,notempty"`
	Quantity  int    `json:"quantity"  validate:"required,gt=0"`
}

// CreateSaleRequest is the HTTP request body for opening a sale.
type CreateSaleRequest struct {
	ClientID string            `json:"clientId" validate:"required,notempty"`
	Items    []SaleItemRequest `json:"items"    validate:"required,min=1,dive"`
}

// SaleItemResponse is one confirmed line of a sale.
type SaleItemResponse struct {
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

// SaleResponse is the HTTP response structure for a sale.
type SaleResponse struct {
	ID         string             `json:"id"`
	ClientID   string             `json:"clientId"`
	Items      []SaleItemResponse `json:"items"`
	TotalCents int64              `json:"totalCents"`
	Status     string             `json:"status"`
	CreatedAt  string             `json:"createdAt,omitempty"`
}

// toSaleResponse converts a domain Sale to an HTTP response.
func toSaleResponse(s *domain.Sale) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}

	resp := &SaleResponse{
		ID:         s.ID,
		ClientID:   s.ClientID,
		Items:      items,
		TotalCents: s.TotalCents,
		Status:     s.Status,
	}

	if !s.CreatedAt.IsZero() {
		resp.CreatedAt = s.CreatedAt.UTC().Format(time.RFC3339)
	}

	return resp
}

// CreateSale handles POST /api/v1/sales
// Opens a sale for the requested client and items.
//
// @Summary Create a sale
// @Description Validates the client and stock, then opens the sale
// @Tags sales
// @Accept json
// @Produce json
// @Success 201 {object} SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/v1/sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req CreateSaleRequest

	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, h.bindError(err))
		return
	}

	items := make([]app.CreateSaleItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, app.CreateSaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	sale, err := h.service.CreateSale(c.Request.Context(), app.CreateSaleInput{
		ClientID: req.ClientID,
		Items:    items,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSaleResponse(sale))
}

// bindError maps binding and validation failures onto catalog errors.
// Field-level failures carry per-field messages in details; malformed
// JSON maps to a plain bad request.
func (h *SaleHandler) bindError(err error) error {
	if dto.IsValidationError(err) {
		details := make(map[string]any)
		for field, message := range dto.ValidationErrors(err) {
			details[field] = message
		}

		return h.factory.FromCatalog(domain.KeyValidationError, "", details)
	}

	if errors.Is(err, dto.ErrBinding) {
		return h.factory.FromCatalog(domain.KeyBadRequest, "request body is not valid JSON", nil)
	}

	return h.factory.FromCatalog(domain.KeyValidationError, "", nil)
}

// RegisterSaleRoutes registers sale routes on the given router group.
func (h *SaleHandler) RegisterSaleRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	sales.POST("", h.CreateSale)
}
