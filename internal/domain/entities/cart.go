package entities

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Cart is the caller-supplied description of what is being purchased.
//
// TotalAmount accepts either a JSON string ("25.00") or a JSON number. It is the
// amount charged; when Items are present they must add up to it.
type Cart struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Currency    string          `json:"currency" validate:"required,iso4217"`
	Description string          `json:"description,omitempty" validate:"max=127"`
	ReferenceID string          `json:"referenceId,omitempty" validate:"max=256"`
	Items       []CartItem      `json:"items,omitempty" validate:"max=100,dive"`
	// Payment is only read by providers that charge a payment method directly (Mercado Pago).
	Payment *PaymentMethod `json:"payment,omitempty"`
}

// PaymentMethod identifies how the payer pays when the provider needs it up front.
type PaymentMethod struct {
	MethodID     string `json:"methodId" validate:"required,max=64"`
	Token        string `json:"token,omitempty" validate:"max=256"`
	Installments int    `json:"installments,omitempty" validate:"min=0,max=48"`
	PayerEmail   string `json:"payerEmail" validate:"required,email"`
}

// CartItem is a single line of an itemized cart.
type CartItem struct {
	Name        string          `json:"name" validate:"required,max=127"`
	Quantity    int             `json:"quantity" validate:"min=1"`
	UnitAmount  decimal.Decimal `json:"unitAmount"`
	SKU         string          `json:"sku,omitempty" validate:"max=127"`
	Description string          `json:"description,omitempty" validate:"max=127"`
}

var cartValidator = newCartValidator()

func newCartValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the cart and returns an error wrapping ErrInvalidInput.
func (c Cart) Validate() error {
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if err := cartValidator.Struct(c); err != nil {
		return translateValidationError(err)
	}

	total, err := NewMoney(c.TotalAmount, c.Currency)
	if err != nil {
		return prefixInputError("totalAmount", err)
	}

	if len(c.Items) == 0 {
		return nil
	}
	sum := decimal.Zero
	for i, it := range c.Items {
		unit, err := NewMoney(it.UnitAmount, c.Currency)
		if err != nil {
			return prefixInputError(fmt.Sprintf("items[%d].unitAmount", i), err)
		}
		sum = sum.Add(unit.Value.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if !sum.Equal(total.Value) {
		return InvalidInputf("items add up to %s but totalAmount is %s", sum.StringFixed(CurrencyFractionDigits(c.Currency)), total.FormatAmount())
	}
	return nil
}

// Total returns the validated total amount. Call Validate first.
func (c Cart) Total() Money {
	return Money{Value: c.TotalAmount, Currency: strings.ToUpper(strings.TrimSpace(c.Currency))}
}

func prefixInputError(field string, err error) error {
	var inErr *InputError
	if errors.As(err, &inErr) {
		return InvalidInputf("%s: %s", field, inErr.Reason)
	}
	return err
}

func translateValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return InvalidInputf("%v", err)
	}
	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "Cart.")
	switch fe.Tag() {
	case "required":
		return InvalidInputf("%s is required", field)
	case "iso4217":
		return InvalidInputf("%s %q is not a valid ISO-4217 code", field, fe.Value())
	case "min":
		return InvalidInputf("%s must be at least %s", field, fe.Param())
	case "email":
		return InvalidInputf("%s is not a valid email address", field)
	case "max":
		return InvalidInputf("%s exceeds the maximum of %s", field, fe.Param())
	default:
		return InvalidInputf("%s failed %s validation", field, fe.Tag())
	}
}
