package domain

import "time"

// SaleItem is one product line within a sale.
type SaleItem struct {
	ProductID  string
	Quantity   int
	PriceCents int64
}

// Sale is a purchase order, owned by the sale service once created.
type Sale struct {
	ID         string
	ClientID   string
	Items      []SaleItem
	TotalCents int64
	Status     string
	CreatedAt  time.Time
}

// Total computes the sale total from its lines.
func (s *Sale) Total() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.PriceCents * int64(item.Quantity)
	}

	return total
}
