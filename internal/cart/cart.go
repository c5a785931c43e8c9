package cart

import (
	"github.com/shopspring/decimal"
)

// Product is the slice of a catalog record the cart cares about. The
// cart keeps a denormalized copy taken at add time and never refreshes
// it, so later catalog edits don't touch existing carts.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

// LineItem is one product in the cart with its requested quantity.
// Quantity is always >= 1; a request that would drop it to zero removes
// the item instead.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price times quantity. Prices are major currency units.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
