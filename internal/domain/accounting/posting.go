package accounting

import (
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostingInput is the raw user intent behind a voucher. Which fields are
// read depends on the voucher type: payment and receipt use the single
// amount plus the two account references, journal entry and opening balance
// carry explicit lines.
type PostingInput struct {
	Date        time.Time
	Description string
	// Currency is the transaction currency. Empty means the tenant's base
	// currency.
	Currency valueobject.Currency

	// Payment / receipt fields.
	Amount           decimal.Decimal
	CashAccountID    uuid.UUID
	ExpenseAccountID uuid.UUID // payment
	RevenueAccountID uuid.UUID // receipt

	// Journal entry / opening balance lines.
	Lines []PostingLineInput

	// Propagated unchanged to every generated line.
	Notes        string
	CostCenterID *uuid.UUID
}

// PostingLineInput is one user-authored debit/credit line.
type PostingLineInput struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Notes     string
}

// PostingHandler turns raw input into a balanced, currency-converted line
// set for one voucher type. Handlers are pure: they never touch persistence.
type PostingHandler interface {
	// Validate checks the raw input and fails with a validation error when
	// it cannot produce a balanced voucher.
	Validate(input PostingInput) error
	// CreateLines emits the ordered line set with sequential 1-based line
	// numbers, converting every amount into the base currency.
	CreateLines(input PostingInput, baseCurrency valueobject.Currency, rate decimal.Decimal) ([]VoucherLine, error)
	// PostingDescription documents the posting pattern for audit and help
	// text. It carries no business logic.
	PostingDescription() string
}

// HandlerForType dispatches to the handler for the given voucher type.
// The switch is exhaustive over the closed VoucherType set; adding a type
// without a handler is a compile-visible change here.
func HandlerForType(t VoucherType) (PostingHandler, error) {
	switch t {
	case VoucherTypePayment:
		return PaymentVoucherHandler{}, nil
	case VoucherTypeReceipt:
		return ReceiptVoucherHandler{}, nil
	case VoucherTypeJournalEntry:
		return JournalEntryHandler{}, nil
	case VoucherTypeOpeningBalance:
		return OpeningBalanceHandler{}, nil
	default:
		return nil, shared.NewValidationError("UNSUPPORTED_VOUCHER_TYPE",
			"No posting handler registered for voucher type "+string(t))
	}
}

// currencyOrDefault resolves the effective transaction currency.
func currencyOrDefault(c, base valueobject.Currency) valueobject.Currency {
	if c == "" {
		return base
	}
	return c
}

// AccountIDsForInput lists the distinct accounts a voucher built from this
// input would post to, without running the conversion. Used to run the
// posting rule chain before lines are generated.
func AccountIDsForInput(t VoucherType, input PostingInput) []uuid.UUID {
	switch t {
	case VoucherTypePayment:
		return dedupeIDs(input.ExpenseAccountID, input.CashAccountID)
	case VoucherTypeReceipt:
		return dedupeIDs(input.CashAccountID, input.RevenueAccountID)
	default:
		ids := make([]uuid.UUID, 0, len(input.Lines))
		for _, line := range input.Lines {
			ids = append(ids, line.AccountID)
		}
		return dedupeIDs(ids...)
	}
}

func dedupeIDs(ids ...uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	var out []uuid.UUID
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
