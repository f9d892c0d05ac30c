package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"payments_adapter/internal/domain/entities"

	"github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"
)

// fakePayPal emulates the subset of the Orders v2 API the gateway uses.
type fakePayPal struct {
	t           *testing.T
	mu          sync.Mutex
	tokenStatus int
	orders      map[string]string
	lastCreate  map[string]any
	lastHeaders http.Header
}

func newFakePayPal(t *testing.T) (*fakePayPal, *httptest.Server) {
	t.Helper()
	f := &fakePayPal{t: t, tokenStatus: http.StatusOK, orders: map[string]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		id, secret, ok := r.BasicAuth()
		if !ok || id != "client-id" || secret != "client-secret" || f.tokenStatus != http.StatusOK {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid_client", "error_description": "Client Authentication failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "tok-1", "token_type": "Bearer", "expires_in": 32400})
	})
	mux.HandleFunc("POST /v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"name": "AUTHENTICATION_FAILURE", "message": "Authentication failed due to invalid authentication credentials."})
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode create body: %v", err)
		}
		f.mu.Lock()
		f.lastCreate = body
		f.lastHeaders = r.Header.Clone()
		f.orders["5O190127TN364715T"] = "CREATED"
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{"id": "5O190127TN364715T", "status": "CREATED"})
	})
	mux.HandleFunc("POST /v2/checkout/orders/{id}/capture", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastHeaders = r.Header.Clone()
		switch f.orders[id] {
		case "CREATED":
			f.orders[id] = "COMPLETED"
			writeJSON(w, http.StatusCreated, map[string]any{"id": id, "status": "COMPLETED"})
		case "COMPLETED":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"name":     "UNPROCESSABLE_ENTITY",
				"message":  "The requested action could not be performed, semantically incorrect, or failed business validation.",
				"debug_id": "dbg-422",
				"details":  []map[string]any{{"issue": "ORDER_ALREADY_CAPTURED", "description": "Order already captured."}},
			})
		default:
			writeJSON(w, http.StatusNotFound, map[string]any{
				"name":     "RESOURCE_NOT_FOUND",
				"message":  "The specified resource does not exist.",
				"debug_id": "dbg-404",
				"details":  []map[string]any{{"issue": "INVALID_RESOURCE_ID", "description": "Specified resource ID does not exist."}},
			})
		}
	})
	mux.HandleFunc("POST /slow/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	mux.HandleFunc("POST /badgateway/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "tok-1", "token_type": "Bearer", "expires_in": 32400})
	})
	mux.HandleFunc("POST /badgateway/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	mux.HandleFunc("POST /unavailable/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream maintenance"))
	})
	mux.HandleFunc("POST /slow/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "tok-1", "token_type": "Bearer", "expires_in": 32400})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func testOrderRequest() entities.OrderRequest {
	return entities.OrderRequest{
		RequestID: "req-123",
		Intent:    entities.OrderIntentCapture,
		PurchaseUnit: entities.PurchaseUnit{
			Amount: entities.Money{Value: decimal.RequireFromString("25"), Currency: "CAD"},
		},
	}
}

func newTestPayPalGateway(t *testing.T, apiBase string) *PayPalGateway {
	t.Helper()
	gw, err := NewPayPalGateway(context.Background(), "client-id", "client-secret", apiBase, 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected gateway error: %v", err)
	}
	return gw
}

func TestPayPalGateway_CreateAndCapture(t *testing.T) {
	fake, srv := newFakePayPal(t)
	gw := newTestPayPalGateway(t, srv.URL)

	resp, err := gw.CreateOrder(context.Background(), testOrderRequest())
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected provider status 201 relayed, got %d", resp.StatusCode)
	}
	order, err := entities.ParseOrder(resp.Body)
	if err != nil || order.ID != "5O190127TN364715T" || order.Status != entities.OrderStatusCreated {
		t.Fatalf("unexpected create body: %s err=%v", resp.Body, err)
	}

	fake.mu.Lock()
	if fake.lastHeaders.Get("Prefer") != "return=minimal" || fake.lastHeaders.Get("PayPal-Request-Id") != "req-123" {
		t.Fatalf("unexpected create headers: %v", fake.lastHeaders)
	}
	if fake.lastCreate["intent"] != "CAPTURE" {
		t.Fatalf("unexpected intent: %v", fake.lastCreate["intent"])
	}
	units, _ := fake.lastCreate["purchase_units"].([]any)
	if len(units) != 1 {
		t.Fatalf("expected exactly one purchase unit, got %v", fake.lastCreate["purchase_units"])
	}
	amount := units[0].(map[string]any)["amount"].(map[string]any)
	if amount["currency_code"] != "CAD" || amount["value"] != "25.00" {
		t.Fatalf("unexpected amount: %v", amount)
	}
	fake.mu.Unlock()

	resp, err = gw.CaptureOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected capture error: %v", err)
	}
	captured, _ := entities.ParseOrder(resp.Body)
	if resp.StatusCode != http.StatusCreated || captured.ID != order.ID || !captured.Status.IsCaptured() {
		t.Fatalf("unexpected capture response: %d %s", resp.StatusCode, resp.Body)
	}

	_, err = gw.CaptureOrder(context.Background(), order.ID)
	if !errors.Is(err, entities.ErrProviderRequestFailed) {
		t.Fatalf("expected double capture to fail with ErrProviderRequestFailed, got %v", err)
	}
	var pErr *entities.ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if pErr.StatusCode != http.StatusUnprocessableEntity || pErr.DebugID != "dbg-422" || len(pErr.Details) != 1 || pErr.Details[0].Issue != "ORDER_ALREADY_CAPTURED" {
		t.Fatalf("unexpected provider error: %+v", pErr)
	}
}

func TestPayPalGateway_ItemizedPayload(t *testing.T) {
	fake, srv := newFakePayPal(t)
	gw := newTestPayPalGateway(t, srv.URL)

	req := testOrderRequest()
	total := entities.Money{Value: decimal.RequireFromString("20"), Currency: "USD"}
	req.PurchaseUnit.Amount = total
	req.PurchaseUnit.ItemTotal = &total
	req.PurchaseUnit.Items = []entities.OrderItem{{Name: "Helmet", Quantity: 2, SKU: "H-1", UnitAmount: entities.Money{Value: decimal.RequireFromString("10"), Currency: "USD"}}}

	if _, err := gw.CreateOrder(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	unit := fake.lastCreate["purchase_units"].([]any)[0].(map[string]any)
	breakdown := unit["amount"].(map[string]any)["breakdown"].(map[string]any)
	if breakdown["item_total"].(map[string]any)["value"] != "20.00" {
		t.Fatalf("unexpected breakdown: %v", breakdown)
	}
	item := unit["items"].([]any)[0].(map[string]any)
	if item["quantity"] != "2" || item["sku"] != "H-1" || item["unit_amount"].(map[string]any)["value"] != "10.00" {
		t.Fatalf("unexpected item: %v", item)
	}
}

func TestPayPalGateway_UnknownOrder(t *testing.T) {
	_, srv := newFakePayPal(t)
	gw := newTestPayPalGateway(t, srv.URL)

	_, err := gw.CaptureOrder(context.Background(), "DOESNOTEXIST")
	var pErr *entities.ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pErr.StatusCode != http.StatusNotFound || pErr.Name != "RESOURCE_NOT_FOUND" || pErr.Message != "The specified resource does not exist." {
		t.Fatalf("unexpected provider error: %+v", pErr)
	}
}

func TestPayPalGateway_AuthenticationFailure(t *testing.T) {
	fake, srv := newFakePayPal(t)
	fake.tokenStatus = http.StatusUnauthorized

	_, err := NewPayPalGateway(context.Background(), "client-id", "client-secret", srv.URL, time.Second)
	if !errors.Is(err, entities.ErrProviderRequestFailed) {
		t.Fatalf("expected authentication failure as provider error, got %v", err)
	}
	var pErr *entities.ProviderError
	if !errors.As(err, &pErr) || pErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 provider error, got %v", err)
	}
}

func TestPayPalGateway_NonJSONProviderFault(t *testing.T) {
	_, srv := newFakePayPal(t)
	gw := newTestPayPalGateway(t, srv.URL+"/badgateway")

	_, err := gw.CreateOrder(context.Background(), testOrderRequest())
	if errors.Is(err, entities.ErrTransportFailure) {
		t.Fatalf("an answered call must not be a transport failure, got %v", err)
	}
	var pErr *entities.ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pErr.StatusCode != http.StatusBadGateway || pErr.Message != "Bad Gateway" {
		t.Fatalf("unexpected provider error: %+v", pErr)
	}
}

func TestPayPalGateway_NonJSONAuthenticationFault(t *testing.T) {
	_, srv := newFakePayPal(t)

	_, err := NewPayPalGateway(context.Background(), "client-id", "client-secret", srv.URL+"/unavailable", time.Second)
	var pErr *entities.ProviderError
	if !errors.As(err, &pErr) || pErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 provider error, got %v", err)
	}
}

func TestTranslatePayPalError(t *testing.T) {
	if err := translatePayPalError("create", 0, errors.New("dial tcp: refused")); !errors.Is(err, entities.ErrTransportFailure) {
		t.Fatalf("expected transport failure without a response, got %v", err)
	}
	if err := translatePayPalError("create", http.StatusBadGateway, context.DeadlineExceeded); !errors.Is(err, entities.ErrTransportFailure) {
		t.Fatalf("expected deadline to stay a transport failure, got %v", err)
	}
	err := translatePayPalError("create", http.StatusOK, errors.New("invalid character '<'"))
	var pErr *entities.ProviderError
	if !errors.As(err, &pErr) || pErr.StatusCode != http.StatusOK {
		t.Fatalf("expected undecodable success body as provider error, got %v", err)
	}
}

func TestPayPalGateway_MissingCredentials(t *testing.T) {
	if _, err := NewPayPalGateway(context.Background(), "", "secret", "http://127.0.0.1:1", time.Second); err == nil {
		t.Fatalf("expected missing credentials error")
	}
}

func TestPayPalGateway_TransportFailure(t *testing.T) {
	_, srv := newFakePayPal(t)
	gw := newTestPayPalGateway(t, srv.URL)
	srv.Close()

	_, err := gw.CreateOrder(context.Background(), testOrderRequest())
	if !errors.Is(err, entities.ErrTransportFailure) {
		t.Fatalf("expected ErrTransportFailure, got %v", err)
	}
	if errors.Is(err, entities.ErrProviderRequestFailed) {
		t.Fatalf("transport failure must not be reported as provider failure")
	}
}

func TestPayPalGateway_Timeout(t *testing.T) {
	_, srv := newFakePayPal(t)
	gw := newTestPayPalGateway(t, srv.URL+"/slow")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := gw.CreateOrder(ctx, testOrderRequest())
	if !errors.Is(err, entities.ErrTransportFailure) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected transport failure caused by deadline, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("provider call was not bounded by the deadline")
	}
}

func TestPayPalAPIBase(t *testing.T) {
	if base, err := PayPalAPIBase("sandbox"); err != nil || base != paypal.APIBaseSandBox {
		t.Fatalf("unexpected sandbox base %s err=%v", base, err)
	}
	if base, err := PayPalAPIBase("live"); err != nil || base != paypal.APIBaseLive {
		t.Fatalf("unexpected live base %s err=%v", base, err)
	}
	if _, err := PayPalAPIBase("staging"); err == nil {
		t.Fatalf("expected error for unknown environment")
	}
}
