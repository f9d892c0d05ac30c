package payments

import (
	"context"
	"errors"
	"log"
	"time"

	"payments_adapter/internal/domain/entities"
	"payments_adapter/internal/infrastructure/metrics"
	"payments_adapter/internal/usecase/interfaces"
)

const (
	outcomeSuccess        = "success"
	outcomeInvalidInput   = "invalid_input"
	outcomeProviderError  = "provider_error"
	outcomeTransportError = "transport_error"
	outcomeUnknownError   = "error"
)

// InstrumentedGateway logs every call and records call counts and latency for the wrapped gateway.
type InstrumentedGateway struct {
	next     interfaces.IOrderGateway
	provider string
}

var _ interfaces.IOrderGateway = (*InstrumentedGateway)(nil)

func Instrument(provider string, next interfaces.IOrderGateway) *InstrumentedGateway {
	return &InstrumentedGateway{next: next, provider: provider}
}

func (g *InstrumentedGateway) CreateOrder(ctx context.Context, req entities.OrderRequest) (entities.ProviderResponse, error) {
	start := time.Now()
	resp, err := g.next.CreateOrder(ctx, req)
	g.observe("create", start, err)
	return resp, err
}

func (g *InstrumentedGateway) CaptureOrder(ctx context.Context, orderID string) (entities.ProviderResponse, error) {
	start := time.Now()
	resp, err := g.next.CaptureOrder(ctx, orderID)
	g.observe("capture", start, err)
	return resp, err
}

func (g *InstrumentedGateway) observe(op string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := callOutcome(err)
	log.Printf("[order][gateway] op=%s provider=%s outcome=%s duration=%s", op, g.provider, outcome, elapsed)
	metrics.IncProviderCall(g.provider, op, outcome)
	metrics.ObserveProviderDuration(g.provider, op, elapsed.Seconds())
}

func callOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, entities.ErrInvalidInput):
		return outcomeInvalidInput
	case errors.Is(err, entities.ErrProviderRequestFailed):
		return outcomeProviderError
	case errors.Is(err, entities.ErrTransportFailure):
		return outcomeTransportError
	default:
		return outcomeUnknownError
	}
}
