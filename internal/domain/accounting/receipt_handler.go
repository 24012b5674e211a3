package accounting

import (
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptVoucherHandler posts a cash inflow, the mirror of a payment:
// debit the cash account, credit the revenue account.
type ReceiptVoucherHandler struct{}

// Validate checks the receipt input
func (ReceiptVoucherHandler) Validate(input PostingInput) error {
	if input.Date.IsZero() {
		return shared.NewValidationError("MISSING_DATE", "Receipt date is required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_AMOUNT", "Receipt amount must be positive")
	}
	if input.CashAccountID == uuid.Nil {
		return shared.NewValidationError("MISSING_CASH_ACCOUNT", "Cash account is required")
	}
	if input.RevenueAccountID == uuid.Nil {
		return shared.NewValidationError("MISSING_REVENUE_ACCOUNT", "Revenue account is required")
	}
	if input.CashAccountID == input.RevenueAccountID {
		return shared.NewValidationError("SAME_ACCOUNT", "Cash account and revenue account must differ")
	}
	return nil
}

// CreateLines emits exactly two lines carrying the converted amount:
// line 1 debits the cash account, line 2 credits the revenue account.
func (ReceiptVoucherHandler) CreateLines(input PostingInput, baseCurrency valueobject.Currency, rate decimal.Decimal) ([]VoucherLine, error) {
	currency := currencyOrDefault(input.Currency, baseCurrency)
	conv, err := Convert(input.Amount, currency, baseCurrency, rate)
	if err != nil {
		return nil, err
	}

	return []VoucherLine{
		{
			LineNo:       1,
			AccountID:    input.CashAccountID,
			Side:         SideDebit,
			Amount:       conv.Original.Amount(),
			Currency:     conv.Original.Currency(),
			BaseAmount:   conv.Base.Amount(),
			BaseCurrency: conv.Base.Currency(),
			ExchangeRate: conv.Rate,
			CostCenterID: input.CostCenterID,
			Notes:        input.Notes,
		},
		{
			LineNo:       2,
			AccountID:    input.RevenueAccountID,
			Side:         SideCredit,
			Amount:       conv.Original.Amount(),
			Currency:     conv.Original.Currency(),
			BaseAmount:   conv.Base.Amount(),
			BaseCurrency: conv.Base.Currency(),
			ExchangeRate: conv.Rate,
			CostCenterID: input.CostCenterID,
			Notes:        input.Notes,
		},
	}, nil
}

// PostingDescription documents the posting pattern
func (ReceiptVoucherHandler) PostingDescription() string {
	return "Receipt voucher: debits the cash account and credits the revenue account with the converted amount"
}
