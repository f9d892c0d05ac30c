package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"payments_adapter/internal/config"
	"payments_adapter/internal/domain/entities"
	"payments_adapter/internal/usecase/interfaces"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

var (
	mercadoPagoStatusPattern = regexp.MustCompile(`"status"\s*:\s*([1-5][0-9]{2})\b`)
	mercadoPagoErrorPattern  = regexp.MustCompile(`"error"\s*:\s*"([^"]+)"`)
)

// MercadoPagoGateway maps orders onto Mercado Pago payments.
//
// Creating an order authorises a payment (capture=false); capturing the order
// captures that payment. The order id handed to callers is the payment id.
type MercadoPagoGateway struct {
	client payment.Client
}

var _ interfaces.IOrderGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if accessToken == "" {
		log.Printf("[order][mercadopago] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, config.ErrMissingMercadoPagoAccessToken
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		log.Printf("[order][mercadopago] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[order][mercadopago] client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

// mercadoPagoOrderBody is the body relayed to callers. Mercado Pago ids are numeric,
// so they are rendered as strings next to the SDK response.
type mercadoPagoOrderBody struct {
	ID             string            `json:"id"`
	Status         string            `json:"status"`
	ProviderStatus string            `json:"provider_status"`
	Payment        *payment.Response `json:"payment"`
}

func (g *MercadoPagoGateway) CreateOrder(ctx context.Context, req entities.OrderRequest) (entities.ProviderResponse, error) {
	if g == nil || g.client == nil {
		log.Printf("[order][mercadopago] gateway not configured")
		return entities.ProviderResponse{}, ErrMercadoPagoGatewayNotConfigured
	}
	pm := req.Payment
	if pm == nil || strings.TrimSpace(pm.MethodID) == "" || strings.TrimSpace(pm.PayerEmail) == "" {
		return entities.ProviderResponse{}, entities.InvalidInputf("payment.methodId and payment.payerEmail are required by mercadopago")
	}
	log.Printf("[order][mercadopago] create start request_id=%s amount=%s method=%s", req.RequestID, req.PurchaseUnit.Amount, pm.MethodID)

	mpReq, err := toMercadoPagoRequest(req)
	if err != nil {
		log.Printf("[order][mercadopago] payload build failed request_id=%s err=%v", req.RequestID, err)
		return entities.ProviderResponse{}, &entities.TransportError{Provider: config.ProviderMercadoPago, Op: "create", Err: err}
	}

	resp, err := g.client.Create(ctx, mpReq)
	if err != nil {
		err = translateMercadoPagoError("create", err)
		log.Printf("[order][mercadopago] sdk create failed request_id=%s err=%v", req.RequestID, err)
		return entities.ProviderResponse{}, err
	}
	log.Printf("[order][mercadopago] create success request_id=%s payment_id=%d provider_status=%s", req.RequestID, resp.ID, resp.Status)

	return mercadoPagoResponse("create", http.StatusCreated, resp)
}

func (g *MercadoPagoGateway) CaptureOrder(ctx context.Context, orderID string) (entities.ProviderResponse, error) {
	if g == nil || g.client == nil {
		log.Printf("[order][mercadopago] gateway not configured")
		return entities.ProviderResponse{}, ErrMercadoPagoGatewayNotConfigured
	}
	id, err := strconv.Atoi(orderID)
	if err != nil || id <= 0 {
		return entities.ProviderResponse{}, entities.InvalidInputf("orderID %q is not a mercado pago payment id", orderID)
	}
	log.Printf("[order][mercadopago] capture start payment_id=%d", id)

	resp, err := g.client.Capture(ctx, id)
	if err != nil {
		err = translateMercadoPagoError("capture", err)
		log.Printf("[order][mercadopago] sdk capture failed payment_id=%d err=%v", id, err)
		return entities.ProviderResponse{}, err
	}
	log.Printf("[order][mercadopago] capture success payment_id=%d provider_status=%s", resp.ID, resp.Status)

	return mercadoPagoResponse("capture", http.StatusOK, resp)
}

func toMercadoPagoRequest(req entities.OrderRequest) (payment.Request, error) {
	pu := req.PurchaseUnit
	pm := req.Payment

	description := pu.Description
	if description == "" {
		description = fmt.Sprintf("Order %s", req.RequestID)
	}
	reference := pu.ReferenceID
	if reference == "" {
		reference = req.RequestID
	}
	installments := pm.Installments
	if installments == 0 {
		installments = 1
	}

	reqMap := map[string]any{
		"transaction_amount": pu.Amount.Value.InexactFloat64(),
		"description":        description,
		"external_reference": reference,
		"payment_method_id":  pm.MethodID,
		"installments":       installments,
		"capture":            false,
		"payer": map[string]any{
			"type":  "customer",
			"email": pm.PayerEmail,
		},
	}
	if pm.Token != "" {
		reqMap["token"] = pm.Token
	}

	b, err := json.Marshal(reqMap)
	if err != nil {
		return payment.Request{}, err
	}
	var mpReq payment.Request
	if err := json.Unmarshal(b, &mpReq); err != nil {
		return payment.Request{}, err
	}
	return mpReq, nil
}

func mercadoPagoResponse(op string, statusCode int, resp *payment.Response) (entities.ProviderResponse, error) {
	body, err := json.Marshal(mercadoPagoOrderBody{
		ID:             strconv.Itoa(resp.ID),
		Status:         string(mercadoPagoOrderStatus(resp.Status)),
		ProviderStatus: resp.Status,
		Payment:        resp,
	})
	if err != nil {
		log.Printf("[order][mercadopago] response marshal failed err=%v", err)
		return entities.ProviderResponse{}, &entities.TransportError{Provider: config.ProviderMercadoPago, Op: op, Err: err}
	}
	return entities.ProviderResponse{StatusCode: statusCode, Body: body}, nil
}

func mercadoPagoOrderStatus(status string) entities.OrderStatus {
	switch strings.ToLower(status) {
	case "authorized", "pending", "in_process":
		return entities.OrderStatusCreated
	case "approved":
		return entities.OrderStatusCaptured
	case "rejected", "cancelled", "refunded", "charged_back":
		return entities.OrderStatusFailed
	default:
		return entities.OrderStatus(strings.ToUpper(status))
	}
}

// translateMercadoPagoError classifies SDK errors from their message, which carries
// the provider's JSON error body.
func translateMercadoPagoError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &entities.TransportError{Provider: config.ProviderMercadoPago, Op: op, Err: err}
	}

	msg := strings.ToLower(err.Error())
	pErr := &entities.ProviderError{Provider: config.ProviderMercadoPago, Message: err.Error()}
	switch {
	case isGatewayCustomerNotFound(msg):
		pErr.StatusCode, pErr.Name = http.StatusBadRequest, "customer_not_found"
	case isGatewayInvalidUsers(msg):
		pErr.StatusCode, pErr.Name = http.StatusBadRequest, "invalid_users_involved"
	case isGatewayUnauthorized(msg):
		pErr.StatusCode, pErr.Name = http.StatusUnauthorized, "unauthorized"
	case isGatewayNotFound(msg):
		pErr.StatusCode, pErr.Name = http.StatusNotFound, "not_found"
	case isGatewayBadRequest(msg):
		pErr.StatusCode, pErr.Name = http.StatusBadRequest, "bad_request"
	default:
		code, ok := gatewayErrorStatus(msg)
		if !ok {
			return &entities.TransportError{Provider: config.ProviderMercadoPago, Op: op, Err: err}
		}
		pErr.StatusCode, pErr.Name = code, gatewayErrorName(msg, code)
	}
	return pErr
}

// gatewayErrorStatus reads the status the provider put in its error body. Any
// error status means the provider answered.
func gatewayErrorStatus(msg string) (int, bool) {
	m := mercadoPagoStatusPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil || code < http.StatusBadRequest {
		return 0, false
	}
	return code, true
}

func gatewayErrorName(msg string, code int) string {
	if m := mercadoPagoErrorPattern.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return strings.ToLower(strings.ReplaceAll(http.StatusText(code), " ", "_"))
}

func isGatewayBadRequest(msg string) bool {
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}

func isGatewayUnauthorized(msg string) bool {
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}

func isGatewayNotFound(msg string) bool {
	return strings.Contains(msg, "\"error\":\"not_found\"") || strings.Contains(msg, "\"status\":404")
}

func isGatewayInvalidUsers(msg string) bool {
	return strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034")
}

func isGatewayCustomerNotFound(msg string) bool {
	return strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002")
}
