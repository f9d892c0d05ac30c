package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"payments_adapter/internal/config"
	"payments_adapter/internal/domain/entities"
	"payments_adapter/internal/usecase/interfaces"

	"github.com/plutov/paypal/v4"
)

const preferReturnMinimal = "return=minimal"

// PayPalGateway talks to the PayPal Orders v2 API.
//
// The SDK client is built once with the process credentials and is safe for
// concurrent use; it refreshes the OAuth token before it expires.
type PayPalGateway struct {
	client *paypal.Client
}

var _ interfaces.IOrderGateway = (*PayPalGateway)(nil)

// PayPalAPIBase maps the configured environment to the PayPal API base URL.
func PayPalAPIBase(environment string) (string, error) {
	switch environment {
	case config.PayPalEnvironmentSandbox, "":
		return paypal.APIBaseSandBox, nil
	case config.PayPalEnvironmentLive:
		return paypal.APIBaseLive, nil
	default:
		return "", fmt.Errorf("unknown paypal environment %q", environment)
	}
}

// NewPayPalGateway authenticates against apiBase and fails when the credentials are rejected.
func NewPayPalGateway(ctx context.Context, clientID, clientSecret, apiBase string, timeout time.Duration) (*PayPalGateway, error) {
	if clientID == "" || clientSecret == "" {
		log.Printf("[order][paypal] missing credentials")
		return nil, config.ErrMissingPayPalCredentials
	}

	client, err := paypal.NewClient(clientID, clientSecret, apiBase)
	if err != nil {
		log.Printf("[order][paypal] failed creating sdk client err=%v", err)
		return nil, err
	}
	client.Client = &http.Client{
		Timeout:   timeout,
		Transport: &statusRecordingTransport{next: http.DefaultTransport},
	}

	status := &statusHolder{}
	if _, err := client.GetAccessToken(context.WithValue(ctx, statusHolderKey{}, status)); err != nil {
		err = translatePayPalError("authenticate", status.code, err)
		log.Printf("[order][paypal] authentication failed api_base=%s err=%v", apiBase, err)
		return nil, fmt.Errorf("paypal authentication: %w", err)
	}
	log.Printf("[order][paypal] client initialized api_base=%s", apiBase)

	return &PayPalGateway{client: client}, nil
}

type paypalMoney struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalAmountBreakdown struct {
	ItemTotal *paypalMoney `json:"item_total,omitempty"`
}

type paypalAmount struct {
	CurrencyCode string                 `json:"currency_code"`
	Value        string                 `json:"value"`
	Breakdown    *paypalAmountBreakdown `json:"breakdown,omitempty"`
}

type paypalItem struct {
	Name        string      `json:"name"`
	Quantity    string      `json:"quantity"`
	UnitAmount  paypalMoney `json:"unit_amount"`
	SKU         string      `json:"sku,omitempty"`
	Description string      `json:"description,omitempty"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	Description string       `json:"description,omitempty"`
	Amount      paypalAmount `json:"amount"`
	Items       []paypalItem `json:"items,omitempty"`
}

type paypalOrderRequest struct {
	Intent        string               `json:"intent"`
	PurchaseUnits []paypalPurchaseUnit `json:"purchase_units"`
}

func toPayPalOrderRequest(req entities.OrderRequest) paypalOrderRequest {
	pu := req.PurchaseUnit
	unit := paypalPurchaseUnit{
		ReferenceID: pu.ReferenceID,
		Description: pu.Description,
		Amount: paypalAmount{
			CurrencyCode: pu.Amount.Currency,
			Value:        pu.Amount.FormatAmount(),
		},
	}
	if pu.ItemTotal != nil {
		unit.Amount.Breakdown = &paypalAmountBreakdown{
			ItemTotal: &paypalMoney{CurrencyCode: pu.ItemTotal.Currency, Value: pu.ItemTotal.FormatAmount()},
		}
	}
	for _, it := range pu.Items {
		unit.Items = append(unit.Items, paypalItem{
			Name:        it.Name,
			Quantity:    strconv.Itoa(it.Quantity),
			UnitAmount:  paypalMoney{CurrencyCode: it.UnitAmount.Currency, Value: it.UnitAmount.FormatAmount()},
			SKU:         it.SKU,
			Description: it.Description,
		})
	}
	return paypalOrderRequest{
		Intent:        string(req.Intent),
		PurchaseUnits: []paypalPurchaseUnit{unit},
	}
}

// CreateOrder posts a single purchase unit order with intent CAPTURE.
func (g *PayPalGateway) CreateOrder(ctx context.Context, req entities.OrderRequest) (entities.ProviderResponse, error) {
	log.Printf("[order][paypal] create start request_id=%s amount=%s", req.RequestID, req.PurchaseUnit.Amount)

	endpoint := fmt.Sprintf("%s/v2/checkout/orders", g.client.APIBase)
	headers := map[string]string{"Prefer": preferReturnMinimal}
	if req.RequestID != "" {
		headers["PayPal-Request-Id"] = req.RequestID
	}

	resp, err := g.send(ctx, "create", endpoint, toPayPalOrderRequest(req), headers)
	if err != nil {
		log.Printf("[order][paypal] create failed request_id=%s err=%v", req.RequestID, err)
		return entities.ProviderResponse{}, err
	}
	log.Printf("[order][paypal] create success request_id=%s status_code=%d", req.RequestID, resp.StatusCode)
	return resp, nil
}

// CaptureOrder captures payment for an order created earlier.
func (g *PayPalGateway) CaptureOrder(ctx context.Context, orderID string) (entities.ProviderResponse, error) {
	log.Printf("[order][paypal] capture start order_id=%s", orderID)

	endpoint := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", g.client.APIBase, url.PathEscape(orderID))
	resp, err := g.send(ctx, "capture", endpoint, struct{}{}, map[string]string{"Prefer": preferReturnMinimal})
	if err != nil {
		log.Printf("[order][paypal] capture failed order_id=%s err=%v", orderID, err)
		return entities.ProviderResponse{}, err
	}
	log.Printf("[order][paypal] capture success order_id=%s status_code=%d", orderID, resp.StatusCode)
	return resp, nil
}

func (g *PayPalGateway) send(ctx context.Context, op, endpoint string, payload any, headers map[string]string) (entities.ProviderResponse, error) {
	status := &statusHolder{}
	ctx = context.WithValue(ctx, statusHolderKey{}, status)

	httpReq, err := g.client.NewRequest(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return entities.ProviderResponse{}, &entities.TransportError{Provider: config.ProviderPayPal, Op: op, Err: err}
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	var body json.RawMessage
	if err := g.client.SendWithAuth(httpReq, &body); err != nil {
		if errors.Is(err, io.EOF) {
			body = json.RawMessage("{}")
		} else {
			return entities.ProviderResponse{}, translatePayPalError(op, status.code, err)
		}
	}

	code := status.code
	if code == 0 {
		code = http.StatusOK
	}
	return entities.ProviderResponse{StatusCode: code, Body: body}, nil
}

// translatePayPalError turns SDK errors into provider or transport failures.
// statusCode is the status of the response the provider sent, zero when none
// arrived. A provider that answered is never a transport failure, even when
// its body could not be decoded.
func translatePayPalError(op string, statusCode int, err error) error {
	var ppErr *paypal.ErrorResponse
	if !errors.As(err, &ppErr) {
		if statusCode == 0 || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return &entities.TransportError{Provider: config.ProviderPayPal, Op: op, Err: err}
		}
		message := http.StatusText(statusCode)
		if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
			message = "provider returned a body that is not valid JSON"
		}
		log.Printf("[order][paypal] undecodable provider answer op=%s status_code=%d err=%v", op, statusCode, err)
		return &entities.ProviderError{Provider: config.ProviderPayPal, StatusCode: statusCode, Message: message}
	}

	pErr := &entities.ProviderError{
		Provider: config.ProviderPayPal,
		Name:     ppErr.Name,
		Message:  ppErr.Message,
		DebugID:  ppErr.DebugID,
	}
	if ppErr.Response != nil {
		pErr.StatusCode = ppErr.Response.StatusCode
	}
	if pErr.Name == "" && pErr.Message == "" && pErr.StatusCode != 0 {
		pErr.Message = http.StatusText(pErr.StatusCode)
	}
	for _, d := range ppErr.Details {
		pErr.Details = append(pErr.Details, entities.ProviderErrorDetail{Field: d.Field, Issue: d.Issue, Description: d.Description})
	}
	return pErr
}

type statusHolderKey struct{}

// statusHolder receives the status code of the last response seen for one call.
type statusHolder struct {
	code int
}

// statusRecordingTransport exposes response status codes that the SDK swallows on success.
type statusRecordingTransport struct {
	next http.RoundTripper
}

func (t *statusRecordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err == nil {
		if h, ok := req.Context().Value(statusHolderKey{}).(*statusHolder); ok {
			h.code = resp.StatusCode
		}
	}
	return resp, err
}
