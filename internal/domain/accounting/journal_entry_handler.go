package accounting

import (
	"fmt"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalEntryHandler posts user-authored debit/credit lines as given,
// preserving the caller-specified sides.
type JournalEntryHandler struct{}

// Validate checks the journal entry input. Sums are compared in the
// transaction currency, before any conversion.
func (JournalEntryHandler) Validate(input PostingInput) error {
	if input.Date.IsZero() {
		return shared.NewValidationError("MISSING_DATE", "Journal entry date is required")
	}
	if len(input.Lines) < 2 {
		return shared.NewValidationError("TOO_FEW_LINES",
			fmt.Sprintf("A journal entry requires at least 2 lines, got %d", len(input.Lines)))
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
		return shared.NewValidationError("UNBALANCED_ENTRY",
			fmt.Sprintf("Journal entry is unbalanced: total debit %s != total credit %s",
				totalDebit.StringFixed(2), totalCredit.StringFixed(2)))
	}
	return nil
}

// CreateLines converts each line and assigns sequential line numbers in
// input order.
func (JournalEntryHandler) CreateLines(input PostingInput, baseCurrency valueobject.Currency, rate decimal.Decimal) ([]VoucherLine, error) {
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
func (JournalEntryHandler) PostingDescription() string {
	return "Journal entry: posts user-authored debit and credit lines as given, converted into the base currency"
}
