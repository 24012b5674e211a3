package accounting

import (
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentVoucherHandler posts a cash outflow: debit the expense account,
// credit the cash account.
type PaymentVoucherHandler struct{}

// Validate checks the payment input
func (PaymentVoucherHandler) Validate(input PostingInput) error {
	if input.Date.IsZero() {
		return shared.NewValidationError("MISSING_DATE", "Payment date is required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if input.CashAccountID == uuid.Nil {
		return shared.NewValidationError("MISSING_CASH_ACCOUNT", "Cash account is required")
	}
	if input.ExpenseAccountID == uuid.Nil {
		return shared.NewValidationError("MISSING_EXPENSE_ACCOUNT", "Expense account is required")
	}
	if input.CashAccountID == input.ExpenseAccountID {
		return shared.NewValidationError("SAME_ACCOUNT", "Cash account and expense account must differ")
	}
	return nil
}

// CreateLines emits exactly two lines carrying the converted amount:
// line 1 debits the expense account, line 2 credits the cash account.
func (PaymentVoucherHandler) CreateLines(input PostingInput, baseCurrency valueobject.Currency, rate decimal.Decimal) ([]VoucherLine, error) {
	currency := currencyOrDefault(input.Currency, baseCurrency)
	conv, err := Convert(input.Amount, currency, baseCurrency, rate)
	if err != nil {
		return nil, err
	}

	return []VoucherLine{
		{
			LineNo:       1,
			AccountID:    input.ExpenseAccountID,
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
			AccountID:    input.CashAccountID,
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
func (PaymentVoucherHandler) PostingDescription() string {
	return "Payment voucher: debits the expense account and credits the cash account with the converted amount"
}
