package payments

import (
	"context"
	"fmt"
	"log"

	"payments_adapter/internal/config"
	"payments_adapter/internal/usecase/interfaces"
)

// NewGateway builds the instrumented gateway for the configured provider.
func NewGateway(ctx context.Context, cfg config.Config) (interfaces.IOrderGateway, error) {
	var (
		gw  interfaces.IOrderGateway
		err error
	)
	switch cfg.Provider {
	case config.ProviderPayPal:
		apiBase, baseErr := PayPalAPIBase(cfg.PayPalEnvironment)
		if baseErr != nil {
			return nil, baseErr
		}
		log.Printf("[order][gateway] using paypal environment=%s", cfg.PayPalEnvironment)
		gw, err = NewPayPalGateway(ctx, cfg.PayPalClientID, cfg.PayPalClientSecret, apiBase, cfg.ProviderTimeout)
	case config.ProviderMercadoPago:
		log.Printf("[order][gateway] using mercadopago")
		gw, err = NewMercadoPagoGateway(cfg.MercadoPagoAccessToken)
	case config.ProviderMock:
		gw = NewMockGateway()
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(cfg.Provider, gw), nil
}
