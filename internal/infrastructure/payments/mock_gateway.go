package payments

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"payments_adapter/internal/config"
	"payments_adapter/internal/domain/entities"
	"payments_adapter/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// MockGateway stands in for the payment provider during local development.
//
// It owns provider-side order state the way the real provider does: orders move
// CREATED -> CAPTURED once, unknown ids are not found, and a repeated PayPal-Request-Id
// returns the order created the first time.
type MockGateway struct {
	mu         sync.Mutex
	orders     map[string]*mockOrder
	byRequest  map[string]string
	newOrderID func() string
}

type mockOrder struct {
	id     string
	status entities.OrderStatus
	unit   entities.PurchaseUnit
}

var _ interfaces.IOrderGateway = (*MockGateway)(nil)

func NewMockGateway() *MockGateway {
	log.Printf("[order][mock] mock provider enabled")
	return &MockGateway{
		orders:     map[string]*mockOrder{},
		byRequest:  map[string]string{},
		newOrderID: uuid.NewString,
	}
}

type mockMoney struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type mockCapture struct {
	ID     string    `json:"id"`
	Status string    `json:"status"`
	Amount mockMoney `json:"amount"`
}

type mockPurchaseUnit struct {
	ReferenceID string    `json:"reference_id,omitempty"`
	Amount      mockMoney `json:"amount"`
	Payments    *struct {
		Captures []mockCapture `json:"captures"`
	} `json:"payments,omitempty"`
}

type mockOrderBody struct {
	ID            string               `json:"id"`
	Status        entities.OrderStatus `json:"status"`
	Intent        string               `json:"intent,omitempty"`
	PurchaseUnits []mockPurchaseUnit   `json:"purchase_units"`
}

func (g *MockGateway) CreateOrder(ctx context.Context, req entities.OrderRequest) (entities.ProviderResponse, error) {
	if err := ctx.Err(); err != nil {
		return entities.ProviderResponse{}, &entities.TransportError{Provider: config.ProviderMock, Op: "create", Err: err}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.byRequest[req.RequestID]; ok && req.RequestID != "" {
		log.Printf("[order][mock] create replay request_id=%s order_id=%s", req.RequestID, id)
		return g.render(http.StatusOK, g.orders[id], string(req.Intent))
	}

	o := &mockOrder{id: g.newOrderID(), status: entities.OrderStatusCreated, unit: req.PurchaseUnit}
	g.orders[o.id] = o
	if req.RequestID != "" {
		g.byRequest[req.RequestID] = o.id
	}
	log.Printf("[order][mock] create success order_id=%s amount=%s", o.id, req.PurchaseUnit.Amount)
	return g.render(http.StatusCreated, o, string(req.Intent))
}

func (g *MockGateway) CaptureOrder(ctx context.Context, orderID string) (entities.ProviderResponse, error) {
	if err := ctx.Err(); err != nil {
		return entities.ProviderResponse{}, &entities.TransportError{Provider: config.ProviderMock, Op: "capture", Err: err}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	o, ok := g.orders[orderID]
	if !ok {
		log.Printf("[order][mock] capture unknown order_id=%s", orderID)
		return entities.ProviderResponse{}, &entities.ProviderError{
			Provider:   config.ProviderMock,
			StatusCode: http.StatusNotFound,
			Name:       "RESOURCE_NOT_FOUND",
			Message:    "The specified resource does not exist.",
			Details:    []entities.ProviderErrorDetail{{Issue: "INVALID_RESOURCE_ID", Description: "Specified resource ID does not exist."}},
		}
	}
	if o.status != entities.OrderStatusCreated {
		log.Printf("[order][mock] capture rejected order_id=%s status=%s", orderID, o.status)
		return entities.ProviderResponse{}, &entities.ProviderError{
			Provider:   config.ProviderMock,
			StatusCode: http.StatusUnprocessableEntity,
			Name:       "UNPROCESSABLE_ENTITY",
			Message:    "The requested action could not be performed, semantically incorrect, or failed business validation.",
			Details:    []entities.ProviderErrorDetail{{Issue: "ORDER_ALREADY_CAPTURED", Description: "Order already captured."}},
		}
	}

	o.status = entities.OrderStatusCaptured
	log.Printf("[order][mock] capture success order_id=%s", orderID)
	return g.render(http.StatusCreated, o, "")
}

func (g *MockGateway) render(statusCode int, o *mockOrder, intent string) (entities.ProviderResponse, error) {
	amount := mockMoney{CurrencyCode: o.unit.Amount.Currency, Value: o.unit.Amount.FormatAmount()}
	unit := mockPurchaseUnit{ReferenceID: o.unit.ReferenceID, Amount: amount}
	if o.status == entities.OrderStatusCaptured {
		unit.Payments = &struct {
			Captures []mockCapture `json:"captures"`
		}{Captures: []mockCapture{{ID: "CAP-" + o.id, Status: "COMPLETED", Amount: amount}}}
	}

	body, err := json.Marshal(mockOrderBody{ID: o.id, Status: o.status, Intent: intent, PurchaseUnits: []mockPurchaseUnit{unit}})
	if err != nil {
		return entities.ProviderResponse{}, &entities.TransportError{Provider: config.ProviderMock, Op: "render", Err: err}
	}
	return entities.ProviderResponse{StatusCode: statusCode, Body: body}, nil
}
