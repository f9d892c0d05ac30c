package request

import (
	"encoding/json"
	"testing"
)

func TestCreateOrderRequest_ResolveCart(t *testing.T) {
	var r CreateOrderRequest
	if err := json.Unmarshal([]byte(`{"cart":{"totalAmount":"25.00","currency":" cad "}}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart := r.ResolveCart()
	if cart == nil {
		t.Fatalf("expected cart")
	}
	if cart.Currency != "CAD" || cart.TotalAmount.String() != "25" {
		t.Fatalf("unexpected cart: %+v", cart)
	}
	if r.Cart.Currency != " cad " {
		t.Fatalf("expected the decoded cart to be left untouched, got %q", r.Cart.Currency)
	}

	if got := (CreateOrderRequest{}).ResolveCart(); got != nil {
		t.Fatalf("expected nil cart, got %+v", got)
	}
}

func TestCreateOrderRequest_NumericAmount(t *testing.T) {
	var r CreateOrderRequest
	if err := json.Unmarshal([]byte(`{"cart":{"totalAmount":25.5,"currency":"USD"}}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.ResolveCart().TotalAmount.StringFixed(2); got != "25.50" {
		t.Fatalf("expected 25.50, got %s", got)
	}
}
