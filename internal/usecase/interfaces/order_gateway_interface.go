package interfaces

import (
	"context"

	"payments_adapter/internal/domain/entities"
)

//go:generate mockgen -source=order_gateway_interface.go -destination=mocks/mock_order_gateway.go -package=mock_interfaces

// IOrderGateway abstracts the external payment provider (PayPal, Mercado Pago, mock).
//
// Implementations return the provider status code and raw body untouched, and report
// failures as *entities.ProviderError or *entities.TransportError.
type IOrderGateway interface {
	CreateOrder(ctx context.Context, req entities.OrderRequest) (entities.ProviderResponse, error)
	CaptureOrder(ctx context.Context, orderID string) (entities.ProviderResponse, error)
}
