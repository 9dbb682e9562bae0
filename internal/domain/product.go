package domain

// Product is a sellable item, owned by the product service.
// Prices are integer cents to avoid float drift across services.
type Product struct {
	ID         string
	Name       string
	PriceCents int64
	Stock      int
}

// HasStock reports whether quantity units can be sold.
func (p *Product) HasStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items      []*Product
	NextCursor string
	HasMore    bool
}
