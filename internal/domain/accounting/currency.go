package accounting

import (
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Conversion is the result of converting a transaction amount into the
// reporting currency. Both sides are carried as Money so downstream code
// cannot mix up which currency an amount is in.
type Conversion struct {
	Original valueobject.Money // transaction-currency amount, unchanged
	Base     valueobject.Money // reporting-currency amount, rounded to 2 places
	Rate     decimal.Decimal   // effective exchange rate actually applied
}

// Convert resolves a transaction amount into the base currency.
// When from == to the rate is forced to 1 regardless of what the caller
// supplied. Otherwise rate must be positive. Base amounts are rounded
// half-up to 2 decimal places; the same rounding applies everywhere in the
// module so totals never drift between components.
func Convert(amount decimal.Decimal, from, to valueobject.Currency, rate decimal.Decimal) (Conversion, error) {
	original, err := valueobject.NewMoney(amount, from)
	if err != nil {
		return Conversion{}, shared.NewValidationError("INVALID_CURRENCY", "Invalid transaction currency")
	}
	if !to.IsValid() {
		return Conversion{}, shared.NewValidationError("INVALID_CURRENCY", "Invalid base currency")
	}

	if from == to {
		return Conversion{
			Original: original,
			Base:     original.Round(2),
			Rate:     decimal.NewFromInt(1),
		}, nil
	}

	if rate.LessThanOrEqual(decimal.Zero) {
		return Conversion{}, shared.NewValidationError("INVALID_EXCHANGE_RATE", "Invalid exchange rate")
	}

	return Conversion{
		Original: original,
		Base:     valueobject.MustMoney(amount.Mul(rate), to).Round(2),
		Rate:     rate,
	}, nil
}
