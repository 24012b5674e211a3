package accounting

import (
	"fmt"
	"strings"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpeningBalanceHandler seeds the ledger with the balances carried over
// from a previous system or period.
type OpeningBalanceHandler struct{}

// Validate checks the opening balance input. The line set must satisfy the
// accounting identity: the debit side (assets) must equal the credit side
// (liabilities plus equity).
func (OpeningBalanceHandler) Validate(input PostingInput) error {
	if input.Date.IsZero() {
		return shared.NewValidationError("MISSING_DATE", "Opening balance date is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return shared.NewValidationError("MISSING_DESCRIPTION", "Opening balance description is required")
	}
	if len(input.Lines) < 2 {
		return shared.NewValidationError("TOO_FEW_LINES",
			fmt.Sprintf("An opening balance requires at least 2 lines, got %d", len(input.Lines)))
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range input.Lines {
		if line.AccountID == uuid.Nil {
			return shared.NewValidationError("MISSING_LINE_ACCOUNT",
				fmt.Sprintf("Line %d has no account", i+1))
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return shared.NewValidationError("NEGATIVE_LINE_AMOUNT",
				fmt.Sprintf("Line %d has a negative amount", i+1))
		}
		if line.Debit.IsPositive() == line.Credit.IsPositive() {
			return shared.NewValidationError("AMBIGUOUS_LINE_SIDE",
				fmt.Sprintf("Line %d must have exactly one of debit or credit set", i+1))
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return shared.NewValidationError("OPENING_BALANCE_UNBALANCED",
			fmt.Sprintf("Opening balance is out of balance by %s: total debit %s != total credit %s; Assets = Liabilities + Equity must hold",
				totalDebit.Sub(totalCredit).Abs().StringFixed(2),
				totalDebit.StringFixed(2), totalCredit.StringFixed(2)))
	}
	return nil
}

// CreateLines assigns sequential line numbers in input order, debit side for
// lines with a positive debit and credit side otherwise.
func (OpeningBalanceHandler) CreateLines(input PostingInput, baseCurrency valueobject.Currency, rate decimal.Decimal) ([]VoucherLine, error) {
	currency := currencyOrDefault(input.Currency, baseCurrency)

	lines := make([]VoucherLine, 0, len(input.Lines))
	for i, in := range input.Lines {
		side := SideDebit
		amount := in.Debit
		if in.Credit.IsPositive() {
			side = SideCredit
			amount = in.Credit
		}

		conv, err := Convert(amount, currency, baseCurrency, rate)
		if err != nil {
			return nil, err
		}

		notes := in.Notes
		if notes == "" {
			notes = input.Notes
		}

		lines = append(lines, VoucherLine{
			LineNo:       i + 1,
			AccountID:    in.AccountID,
			Side:         side,
			Amount:       conv.Original.Amount(),
			Currency:     conv.Original.Currency(),
			BaseAmount:   conv.Base.Amount(),
			BaseCurrency: conv.Base.Currency(),
			ExchangeRate: conv.Rate,
			CostCenterID: input.CostCenterID,
			Notes:        notes,
		})
	}
	return lines, nil
}

// PostingDescription documents the posting pattern
func (OpeningBalanceHandler) PostingDescription() string {
	return "Opening balance: seeds account balances carried over from a previous period; debits and credits must satisfy Assets = Liabilities + Equity"
}
