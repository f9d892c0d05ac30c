package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies lists the currencies the provider only accepts as whole units.
var zeroDecimalCurrencies = map[string]bool{
	"HUF": true,
	"JPY": true,
	"TWD": true,
}

// CurrencyFractionDigits returns how many fraction digits an amount in currency may carry.
func CurrencyFractionDigits(currency string) int32 {
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		return 0
	}
	return 2
}

// Money is a positive amount in a given currency.
type Money struct {
	Value    decimal.Decimal
	Currency string
}

// NewMoney validates value against the currency precision.
func NewMoney(value decimal.Decimal, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return Money{}, InvalidInputf("currency is required")
	}
	if !value.IsPositive() {
		return Money{}, InvalidInputf("amount must be positive")
	}
	digits := CurrencyFractionDigits(currency)
	if !value.Equal(value.Round(digits)) {
		return Money{}, InvalidInputf("amount %s has more than %d fraction digits for %s", value.String(), digits, currency)
	}
	return Money{Value: value, Currency: currency}, nil
}

// FormatAmount renders the value with the currency's fixed precision ("25.00", "1000").
func (m Money) FormatAmount() string {
	return m.Value.StringFixed(CurrencyFractionDigits(m.Currency))
}

func (m Money) String() string {
	return m.FormatAmount() + " " + m.Currency
}
