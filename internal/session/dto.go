package session

import (
	"github.com/shopspring/decimal"

	"github.com/elkisser/the-cookie-box/internal/cart"
	"github.com/elkisser/the-cookie-box/internal/notification"
)

// AddItemRequest carries the product snapshot the cart denormalizes at
// add time. The client sends the catalog record it rendered; the cart
// never re-reads the catalog.
type AddItemRequest struct {
	ID       string          `json:"id" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items      []cart.LineItem `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	TotalItems int             `json:"totalItems"`
}

type NotificationResponse struct {
	ID         string            `json:"id"`
	Message    string            `json:"message"`
	Kind       notification.Kind `json:"kind"`
	DurationMs int64             `json:"durationMs"`
}

func newCartResponse(s *Session) CartResponse {
	items := s.Cart.Items()
	if items == nil {
		items = []cart.LineItem{}
	}
	return CartResponse{
		Items:      items,
		TotalPrice: s.Cart.TotalPrice(),
		TotalItems: s.Cart.TotalItemCount(),
	}
}
