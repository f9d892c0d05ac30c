package entities

import (
	"encoding/json"
	"fmt"
)

// OrderStatus is the provider-side lifecycle state of an order. This service
// observes it in provider responses and never stores it.
type OrderStatus string

const (
	OrderStatusCreated  OrderStatus = "CREATED"
	OrderStatusCaptured OrderStatus = "CAPTURED"
	OrderStatusFailed   OrderStatus = "FAILED"

	// orderStatusCompleted is what PayPal reports for a captured order.
	orderStatusCompleted OrderStatus = "COMPLETED"
)

// IsCaptured reports whether the provider considers the payment collected.
func (s OrderStatus) IsCaptured() bool {
	return s == OrderStatusCaptured || s == orderStatusCompleted
}

// OrderIntent tells the provider when funds are collected.
type OrderIntent string

const OrderIntentCapture OrderIntent = "CAPTURE"

// OrderRequest is the provider-neutral create-order request built from a valid Cart.
//
// RequestID is sent to the provider as its idempotency key.
type OrderRequest struct {
	RequestID    string
	Intent       OrderIntent
	PurchaseUnit PurchaseUnit
	Payment      *PaymentMethod
}

// PurchaseUnit is the single unit of purchase of an order.
type PurchaseUnit struct {
	ReferenceID string
	Description string
	Amount      Money
	// ItemTotal is set when Items is not empty.
	ItemTotal *Money
	Items     []OrderItem
}

type OrderItem struct {
	Name        string
	SKU         string
	Description string
	Quantity    int
	UnitAmount  Money
}

// Order is the part of a provider response this service reads.
type Order struct {
	ID     string      `json:"id"`
	Status OrderStatus `json:"status"`
}

// ProviderResponse is a provider answer relayed verbatim to the caller.
type ProviderResponse struct {
	StatusCode int
	Body       json.RawMessage
}

// ParseOrder decodes the order id and status out of a provider body.
func ParseOrder(body []byte) (Order, error) {
	var o Order
	if err := json.Unmarshal(body, &o); err != nil {
		return Order{}, fmt.Errorf("parse provider body: %w", err)
	}
	return o, nil
}
