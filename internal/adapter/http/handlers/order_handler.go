package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	request "payments_adapter/internal/adapter/http/dto/request"
	"payments_adapter/internal/domain/entities"
	"payments_adapter/internal/usecase"
	"payments_adapter/pkg"

	"github.com/gin-gonic/gin"
)

const (
	opCreate  = "create"
	opCapture = "capture"

	jsonContentType = "application/json; charset=utf-8"
)

var (
	errInvalidOrderPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid order request", http.StatusInternalServerError)
)

// OrderHandler exposes order creation and capture over HTTP.
type OrderHandler struct {
	usecase usecase.IOrderUseCase
}

func NewOrderHandler(uc usecase.IOrderUseCase) *OrderHandler {
	return &OrderHandler{usecase: uc}
}

// CreateOrder godoc
// @Summary      Create a payment order
// @Description  Validates the cart and creates a provider order with intent CAPTURE. The provider status code and body are relayed as is.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      request.CreateOrderRequest  true  "Cart to be paid"
// @Success      201   {object}  map[string]interface{}
// @Failure      500   {object}  pkg.HTTPError
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var payload request.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[order][handler] create rejected: invalid payload err=%v", err)
		appErr := errInvalidOrderPayload.WithDetails("request body must be a JSON object with a cart")
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	resp, err := h.usecase.CreateOrder(c.Request.Context(), payload.ResolveCart())
	if err != nil {
		appErr := mapOrderError(opCreate, err)
		log.Printf("[order][handler] create failed code=%s status=%d err=%v", appErr.Code, appErr.HTTPStatus, err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.Data(resp.StatusCode, jsonContentType, resp.Body)
}

// CaptureOrder godoc
// @Summary      Capture a payment order
// @Description  Captures payment for an order created earlier. The provider status code and body are relayed as is.
// @Tags         orders
// @Produce      json
// @Param        orderID  path      string  true  "Provider order id"
// @Success      201      {object}  map[string]interface{}
// @Failure      500      {object}  pkg.HTTPError
// @Router       /api/orders/{orderID}/capture [post]
func (h *OrderHandler) CaptureOrder(c *gin.Context) {
	orderID := c.Param("orderID")

	resp, err := h.usecase.CaptureOrder(c.Request.Context(), orderID)
	if err != nil {
		appErr := mapOrderError(opCapture, err)
		log.Printf("[order][handler] capture failed order_id=%q code=%s status=%d err=%v", orderID, appErr.Code, appErr.HTTPStatus, err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.Data(resp.StatusCode, jsonContentType, resp.Body)
}

func failureMessage(op string) string {
	if op == opCapture {
		return "Failed to capture order."
	}
	return "Failed to create order."
}

// mapOrderError maps use case errors onto the HTTP envelope. Every failure is a
// 500; callers tell the kinds apart by code. Only trimmed provider messages reach
// the caller.
func mapOrderError(op string, err error) *pkg.AppError {
	var (
		inErr *entities.InputError
		pErr  *entities.ProviderError
	)
	switch {
	case errors.As(err, &inErr):
		return errInvalidOrderPayload.WithDetails(inErr.Reason)
	case errors.Is(err, entities.ErrInvalidInput):
		return errInvalidOrderPayload
	case errors.As(err, &pErr):
		return pkg.NewDomainError("PROVIDER_REQUEST_FAILED", failureMessage(op), err, http.StatusInternalServerError).WithDetails(pErr.Summary())
	case errors.Is(err, entities.ErrTransportFailure):
		details := "payment provider unreachable"
		if errors.Is(err, context.DeadlineExceeded) {
			details = "payment provider timed out"
		}
		return pkg.NewDomainError("PROVIDER_UNAVAILABLE", failureMessage(op), err, http.StatusInternalServerError).WithDetails(details)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainError("PAYMENT_GATEWAY_NOT_CONFIGURED", failureMessage(op), err, http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
