package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/ktanaka/fireplan/internal/domain"
)

// FallbackExchangeRate is used for USD amounts when the caller supplies no
// rate. This is a documented degraded-mode default, not an error.
var FallbackExchangeRate = decimal.NewFromInt(150)

var hundred = decimal.NewFromInt(100)

// ResolveCurrency converts an amount into the reporting currency (JPY).
// JPY amounts pass through unchanged; anything else is multiplied by the
// supplied rate, or by FallbackExchangeRate when rate is nil.
func ResolveCurrency(amount decimal.Decimal, currency domain.Currency, rate *decimal.Decimal) decimal.Decimal {
	if currency == domain.CurrencyJPY || currency == "" {
		return amount
	}
	if rate != nil {
		return amount.Mul(*rate)
	}
	return amount.Mul(FallbackExchangeRate)
}

// fractionFromPercent converts a percent-valued input (5 means 5%) into the
// fraction the arithmetic uses.
func fractionFromPercent(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}
