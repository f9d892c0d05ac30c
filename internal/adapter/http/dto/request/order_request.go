package request

import (
	"strings"

	"payments_adapter/internal/domain/entities"
)

// CreateOrderRequest is the body accepted by POST /api/orders.
type CreateOrderRequest struct {
	Cart *entities.Cart `json:"cart"`
}

// ResolveCart returns a copy of the cart with the currency normalised, or nil when absent.
func (r CreateOrderRequest) ResolveCart() *entities.Cart {
	if r.Cart == nil {
		return nil
	}
	cart := *r.Cart
	cart.Currency = strings.ToUpper(strings.TrimSpace(cart.Currency))
	return &cart
}
