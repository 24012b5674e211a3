package accounting

// VoucherType identifies the posting pattern of a voucher.
type VoucherType string

const (
	VoucherTypeJournalEntry   VoucherType = "JOURNAL_ENTRY"
	VoucherTypePayment        VoucherType = "PAYMENT_VOUCHER"
	VoucherTypeReceipt        VoucherType = "RECEIPT_VOUCHER"
	VoucherTypeOpeningBalance VoucherType = "OPENING_BALANCE"
)

// IsValid returns true if the voucher type is one of the defined types
func (t VoucherType) IsValid() bool {
	switch t {
	case VoucherTypeJournalEntry, VoucherTypePayment, VoucherTypeReceipt, VoucherTypeOpeningBalance:
		return true
	default:
		return false
	}
}

// NumberPrefix returns the short prefix used in voucher numbers.
func (t VoucherType) NumberPrefix() string {
	switch t {
	case VoucherTypeJournalEntry:
		return "JE"
	case VoucherTypePayment:
		return "PV"
	case VoucherTypeReceipt:
		return "RV"
	case VoucherTypeOpeningBalance:
		return "OB"
	default:
		return "VC"
	}
}

// VoucherStatus represents the lifecycle state of a voucher.
// DRAFT -> APPROVED -> LOCKED; DRAFT or APPROVED -> REJECTED.
// LOCKED and REJECTED are terminal.
type VoucherStatus string

const (
	VoucherStatusDraft    VoucherStatus = "DRAFT"
	VoucherStatusApproved VoucherStatus = "APPROVED"
	VoucherStatusRejected VoucherStatus = "REJECTED"
	VoucherStatusLocked   VoucherStatus = "LOCKED"
)

// IsValid returns true if the status is one of the defined statuses
func (s VoucherStatus) IsValid() bool {
	switch s {
	case VoucherStatusDraft, VoucherStatusApproved, VoucherStatusRejected, VoucherStatusLocked:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no transition leads out of the status
func (s VoucherStatus) IsTerminal() bool {
	return s == VoucherStatusLocked || s == VoucherStatusRejected
}

// CanApprove returns true if a voucher in this status may be approved
func (s VoucherStatus) CanApprove() bool {
	return s == VoucherStatusDraft
}

// CanLock returns true if a voucher in this status may be locked
func (s VoucherStatus) CanLock() bool {
	return s == VoucherStatusApproved
}

// CanReject returns true if a voucher in this status may be rejected
func (s VoucherStatus) CanReject() bool {
	return s == VoucherStatusDraft || s == VoucherStatusApproved
}

// LineSide marks a voucher line as a debit or a credit.
type LineSide string

const (
	SideDebit  LineSide = "DEBIT"
	SideCredit LineSide = "CREDIT"
)

// IsValid returns true if the side is debit or credit
func (s LineSide) IsValid() bool {
	return s == SideDebit || s == SideCredit
}

// AccountType classifies an account in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// IsValid returns true if the account type is one of the defined types
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	default:
		return false
	}
}
