package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mktcore/sales-gateway/internal/adapters/http/dto"
	"github.com/mktcore/sales-gateway/internal/app"
	"github.com/mktcore/sales-gateway/internal/domain"
)

// ProductHandler handles product-related HTTP endpoints.
type ProductHandler struct {
	service *app.ProductService
	factory *domain.Factory
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service *app.ProductService, factory *domain.Factory) *ProductHandler {
	return &ProductHandler{
		service: service,
		factory: factory,
	}
}

// ProductResponse is the HTTP response structure for a product.
type ProductResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Stock      int    `json:"stock"`
}

// toProductResponse converts a domain Product to an HTTP response.
func toProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
	}
}

// GetProduct handles GET /api/v1/products/:id
// Returns a single product, served from cache when fresh.
//
// @Summary Get a product by ID
// @Description Fetches a product from the product service
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		dto.HandleError(c, h.factory.FromCatalog(domain.KeyBadRequest, "product ID is required", nil))
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// ListProducts handles GET /api/v1/products
// Returns a page of the product catalog.
//
// @Summary List products
// @Description Lists products from the product service with cursor pagination
// @Tags products
// @Produce json
// @Param cursor query string false "Opaque page cursor"
// @Param limit query int false "Page size (1-100, default 20)"
// @Success 200 {object} dto.PaginatedResponse[ProductResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var pagination dto.PaginationRequest

	if err := dto.BindQueryAndValidate(c, &pagination); err != nil {
		dto.HandleError(c, h.factory.FromCatalog(domain.KeyBadRequest, "invalid pagination parameters", nil))
		return
	}

	page, err := h.service.ListProducts(c.Request.Context(), pagination.Cursor, pagination.GetLimit())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := make([]*ProductResponse, 0, len(page.Items))
	for _, product := range page.Items {
		items = append(items, toProductResponse(product))
	}

	c.JSON(http.StatusOK, &dto.PaginatedResponse[*ProductResponse]{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// RegisterProductRoutes registers product routes on the given router group.
func (h *ProductHandler) RegisterProductRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.ListProducts)
	products.GET("/:id", h.GetProduct)
}
