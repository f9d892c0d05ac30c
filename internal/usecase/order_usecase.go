package usecase

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"payments_adapter/internal/domain/entities"
	"payments_adapter/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var ErrPaymentGatewayNotConfigured = errors.New("payment gateway not configured")

// DefaultProviderTimeout bounds a provider call when no timeout is configured.
const DefaultProviderTimeout = 15 * time.Second

var orderIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

//go:generate mockgen -source=order_usecase.go -destination=../adapter/http/handlers/mocks/mock_order_usecase.go -package=mocks

// IOrderUseCase creates orders from carts and captures them by identifier.
//
// It is stateless: the order identifier returned by CreateOrder is handed back to
// the caller, who supplies it again to CaptureOrder.
type IOrderUseCase interface {
	CreateOrder(ctx context.Context, cart *entities.Cart) (entities.ProviderResponse, error)
	CaptureOrder(ctx context.Context, orderID string) (entities.ProviderResponse, error)
}

type OrderUseCase struct {
	gateway      interfaces.IOrderGateway
	timeout      time.Duration
	newRequestID func() string
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(gateway interfaces.IOrderGateway, timeout time.Duration) *OrderUseCase {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &OrderUseCase{gateway: gateway, timeout: timeout, newRequestID: uuid.NewString}
}

func (u *OrderUseCase) CreateOrder(ctx context.Context, cart *entities.Cart) (entities.ProviderResponse, error) {
	if cart == nil {
		log.Printf("[order][usecase] create rejected: cart missing")
		return entities.ProviderResponse{}, entities.InvalidInputf("cart is required")
	}
	log.Printf("[order][usecase] create start amount=%s currency=%s items=%d", cart.TotalAmount.String(), cart.Currency, len(cart.Items))

	if err := cart.Validate(); err != nil {
		log.Printf("[order][usecase] create rejected err=%v", err)
		return entities.ProviderResponse{}, err
	}
	if u.gateway == nil {
		log.Printf("[order][usecase] gateway not configured")
		return entities.ProviderResponse{}, ErrPaymentGatewayNotConfigured
	}

	req := buildOrderRequest(u.newRequestID(), *cart)
	log.Printf("[order][usecase] calling gateway request_id=%s amount=%s", req.RequestID, req.PurchaseUnit.Amount)

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	resp, err := u.gateway.CreateOrder(callCtx, req)
	if err != nil {
		err = classifyGatewayError("create", err)
		log.Printf("[order][usecase] create failed request_id=%s err=%v", req.RequestID, err)
		return entities.ProviderResponse{}, err
	}

	order, err := checkProviderResponse(resp)
	if err != nil {
		log.Printf("[order][usecase] create response rejected request_id=%s err=%v", req.RequestID, err)
		return entities.ProviderResponse{}, err
	}
	if order.ID == "" {
		log.Printf("[order][usecase] create response has no order id request_id=%s status_code=%d", req.RequestID, resp.StatusCode)
	}
	log.Printf("[order][usecase] create success request_id=%s order_id=%s status=%s status_code=%d", req.RequestID, order.ID, order.Status, resp.StatusCode)
	return resp, nil
}

func (u *OrderUseCase) CaptureOrder(ctx context.Context, orderID string) (entities.ProviderResponse, error) {
	orderID = strings.TrimSpace(orderID)
	log.Printf("[order][usecase] capture start order_id=%q", orderID)
	if orderID == "" {
		return entities.ProviderResponse{}, entities.InvalidInputf("orderID is required")
	}
	if !orderIDPattern.MatchString(orderID) {
		log.Printf("[order][usecase] capture rejected malformed order_id=%q", orderID)
		return entities.ProviderResponse{}, entities.InvalidInputf("orderID %q is malformed", orderID)
	}
	if u.gateway == nil {
		log.Printf("[order][usecase] gateway not configured")
		return entities.ProviderResponse{}, ErrPaymentGatewayNotConfigured
	}

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	resp, err := u.gateway.CaptureOrder(callCtx, orderID)
	if err != nil {
		err = classifyGatewayError("capture", err)
		log.Printf("[order][usecase] capture failed order_id=%s err=%v", orderID, err)
		return entities.ProviderResponse{}, err
	}

	order, err := checkProviderResponse(resp)
	if err != nil {
		log.Printf("[order][usecase] capture response rejected order_id=%s err=%v", orderID, err)
		return entities.ProviderResponse{}, err
	}
	if !order.Status.IsCaptured() {
		log.Printf("[order][usecase] capture answered without captured status order_id=%s status=%s", orderID, order.Status)
	}
	log.Printf("[order][usecase] capture success order_id=%s status=%s status_code=%d", orderID, order.Status, resp.StatusCode)
	return resp, nil
}

func buildOrderRequest(requestID string, cart entities.Cart) entities.OrderRequest {
	total := cart.Total()
	unit := entities.PurchaseUnit{
		ReferenceID: strings.TrimSpace(cart.ReferenceID),
		Description: strings.TrimSpace(cart.Description),
		Amount:      total,
	}
	if len(cart.Items) > 0 {
		itemTotal := total
		unit.ItemTotal = &itemTotal
		unit.Items = make([]entities.OrderItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			unit.Items = append(unit.Items, entities.OrderItem{
				Name:        strings.TrimSpace(it.Name),
				SKU:         strings.TrimSpace(it.SKU),
				Description: strings.TrimSpace(it.Description),
				Quantity:    it.Quantity,
				UnitAmount:  entities.Money{Value: it.UnitAmount, Currency: total.Currency},
			})
		}
	}
	req := entities.OrderRequest{
		RequestID:    requestID,
		Intent:       entities.OrderIntentCapture,
		PurchaseUnit: unit,
	}
	if cart.Payment != nil {
		pm := *cart.Payment
		req.Payment = &pm
	}
	return req
}

// classifyGatewayError makes every gateway failure match one error kind.
func classifyGatewayError(op string, err error) error {
	switch {
	case errors.Is(err, entities.ErrProviderRequestFailed),
		errors.Is(err, entities.ErrTransportFailure),
		errors.Is(err, entities.ErrInvalidInput):
		return err
	default:
		return &entities.TransportError{Provider: "gateway", Op: op, Err: err}
	}
}

func checkProviderResponse(resp entities.ProviderResponse) (entities.Order, error) {
	if resp.StatusCode != 0 && (resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices) {
		return entities.Order{}, &entities.ProviderError{
			Provider:   "gateway",
			StatusCode: resp.StatusCode,
			Message:    "provider answered with a non-success status",
		}
	}
	order, err := entities.ParseOrder(resp.Body)
	if err != nil {
		return entities.Order{}, &entities.ProviderError{
			Provider:   "gateway",
			StatusCode: resp.StatusCode,
			Message:    "provider returned a body that is not a JSON object",
		}
	}
	return order, nil
}
