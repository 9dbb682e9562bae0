package domain

// ClientStatus is the lifecycle state of a marketplace client.
type ClientStatus string

const (
	// ClientActive clients may purchase.
	ClientActive ClientStatus = "ACTIVE"

	// ClientBlocked clients are barred from new sales.
	ClientBlocked ClientStatus = "BLOCKED"
)

// Client is a purchasing account, owned by the client service.
type Client struct {
	ID     string
	Name   string
	Email  string
	Status ClientStatus
}

// CanPurchase reports whether the client may open a new sale.
func (c *Client) CanPurchase() bool {
	return c.Status == ClientActive
}
