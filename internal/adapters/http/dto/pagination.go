package dto

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 100

// PaginationRequest represents pagination parameters from the request.
// The cursor is opaque to the gateway; it is produced by the product
// service and passed back verbatim.
type PaginationRequest struct {
	// Cursor is an opaque string from a previous response's NextCursor.
	Cursor string `form:"cursor"`

	// Limit is the maximum number of items to return (1-100, default 20).
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	if p.Limit > MaxLimit {
		return MaxLimit
	}

	return p.Limit
}

// PaginatedResponse is a generic paginated response structure.
type PaginatedResponse[T any] struct {
	// Items is the array of items for this page.
	Items []T `json:"items"`

	// NextCursor is the cursor to use for the next page.
	// Empty if there are no more items.
	NextCursor string `json:"nextCursor,omitempty"`

	// HasMore indicates whether there are more items after this page.
	HasMore bool `json:"hasMore"`
}
