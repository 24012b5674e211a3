package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum allowed difference between total debit and
// total credit in base currency. Anything beyond it is an unbalanced voucher.
var BalanceTolerance = decimal.RequireFromString("0.005")

// VoucherLine is one debit or credit entry against a single account.
// Lines are owned by their voucher and have no lifecycle of their own.
type VoucherLine struct {
	ID           uuid.UUID            `gorm:"type:uuid;primary_key"`
	VoucherID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	LineNo       int                  `gorm:"not null"` // 1-based, sequential within the voucher
	AccountID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	Side         LineSide             `gorm:"type:varchar(10);not null"`
	Amount       decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // transaction currency
	Currency     valueobject.Currency `gorm:"type:varchar(3);not null"`
	BaseAmount   decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // base currency, rounded to 2 places
	BaseCurrency valueobject.Currency `gorm:"type:varchar(3);not null"`
	ExchangeRate decimal.Decimal      `gorm:"type:decimal(18,8);not null"`
	CostCenterID *uuid.UUID           `gorm:"type:uuid;index"`
	Notes        string               `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (VoucherLine) TableName() string {
	return "voucher_lines"
}

// DebitAmount returns the base amount if the line is a debit, zero otherwise
func (l VoucherLine) DebitAmount() decimal.Decimal {
	if l.Side == SideDebit {
		return l.BaseAmount
	}
	return decimal.Zero
}

// CreditAmount returns the base amount if the line is a credit, zero otherwise
func (l VoucherLine) CreditAmount() decimal.Decimal {
	if l.Side == SideCredit {
		return l.BaseAmount
	}
	return decimal.Zero
}

// Voucher is one balanced financial transaction record. It is built once by
// a posting handler plus this constructor and never mutated afterwards:
// every lifecycle transition returns a fresh instance.
type Voucher struct {
	shared.TenantAggregateRoot
	VoucherNumber   string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_voucher_tenant_number,priority:2"`
	Type            VoucherType          `gorm:"type:varchar(30);not null;index"`
	Date            time.Time            `gorm:"not null;index"`
	Description     string               `gorm:"type:varchar(500);not null"`
	Currency        valueobject.Currency `gorm:"type:varchar(3);not null"`
	BaseCurrency    valueobject.Currency `gorm:"type:varchar(3);not null"`
	ExchangeRate    decimal.Decimal      `gorm:"type:decimal(18,8);not null"`
	Lines           []VoucherLine        `gorm:"foreignKey:VoucherID;references:ID"`
	TotalDebit      decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // base currency
	TotalCredit     decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // base currency
	Status          VoucherStatus        `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ApprovedBy      *uuid.UUID           `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectionReason string     `gorm:"type:varchar(500)"`
	LockedBy        *uuid.UUID `gorm:"type:uuid"`
	LockedAt        *time.Time
}

// TableName returns the table name for GORM
func (Voucher) TableName() string {
	return "vouchers"
}

// NewVoucher constructs a draft voucher from a fully-formed line set.
// This is the single enforcement point for the structural invariants:
// handlers are trusted to emit balanced lines, but the constructor re-checks
// everything so a malformed voucher can never be represented.
func NewVoucher(
	tenantID uuid.UUID,
	voucherNumber string,
	voucherType VoucherType,
	date time.Time,
	description string,
	currency valueobject.Currency,
	baseCurrency valueobject.Currency,
	exchangeRate decimal.Decimal,
	lines []VoucherLine,
	createdBy uuid.UUID,
) (*Voucher, error) {
	if voucherNumber == "" {
		return nil, shared.NewInvariantError("INVALID_VOUCHER_NUMBER", "Voucher number cannot be empty")
	}
	if !voucherType.IsValid() {
		return nil, shared.NewInvariantError("INVALID_VOUCHER_TYPE", "Voucher type is not valid")
	}
	if date.IsZero() {
		return nil, shared.NewInvariantError("INVALID_VOUCHER_DATE", "Voucher date is required")
	}
	if !currency.IsValid() || !baseCurrency.IsValid() {
		return nil, shared.NewInvariantError("INVALID_CURRENCY", "Voucher currency and base currency are required")
	}
	if exchangeRate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvariantError("INVALID_EXCHANGE_RATE", "Voucher exchange rate must be positive")
	}
	if len(lines) < 2 {
		return nil, shared.NewInvariantError("VOUCHER_TOO_FEW_LINES",
			fmt.Sprintf("A voucher requires at least 2 lines, got %d", len(lines)))
	}

	totalDebit := valueobject.Zero(baseCurrency)
	totalCredit := valueobject.Zero(baseCurrency)
	for i, line := range lines {
		if line.AccountID == uuid.Nil {
			return nil, shared.NewInvariantError("INVALID_LINE_ACCOUNT",
				fmt.Sprintf("Line %d has no account", i+1))
		}
		if !line.Side.IsValid() {
			return nil, shared.NewInvariantError("INVALID_LINE_SIDE",
				fmt.Sprintf("Line %d has an invalid side", i+1))
		}
		if line.Amount.LessThanOrEqual(decimal.Zero) || line.BaseAmount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewInvariantError("INVALID_LINE_AMOUNT",
				fmt.Sprintf("Line %d amount must be positive", i+1))
		}
		if line.ExchangeRate.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewInvariantError("INVALID_LINE_RATE",
				fmt.Sprintf("Line %d exchange rate must be positive", i+1))
		}
		if line.Currency != currency {
			return nil, shared.NewInvariantError("LINE_CURRENCY_MISMATCH",
				fmt.Sprintf("Line %d currency does not match the voucher currency", i+1))
		}

		// Summing as Money makes a base-currency mismatch unrepresentable:
		// Add refuses to mix currencies.
		lineBase, err := valueobject.NewMoney(line.BaseAmount, line.BaseCurrency)
		if err != nil {
			return nil, shared.NewInvariantError("LINE_CURRENCY_MISMATCH",
				fmt.Sprintf("Line %d currency does not match the voucher currency", i+1))
		}
		if line.Side == SideDebit {
			totalDebit, err = totalDebit.Add(lineBase)
		} else {
			totalCredit, err = totalCredit.Add(lineBase)
		}
		if err != nil {
			return nil, shared.NewInvariantError("LINE_CURRENCY_MISMATCH",
				fmt.Sprintf("Line %d currency does not match the voucher currency", i+1))
		}
	}

	if totalDebit.Amount().Sub(totalCredit.Amount()).Abs().GreaterThan(BalanceTolerance) {
		return nil, shared.NewInvariantError("VOUCHER_UNBALANCED",
			fmt.Sprintf("Voucher is unbalanced: total debit %s != total credit %s", totalDebit, totalCredit))
	}

	v := &Voucher{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		VoucherNumber:       voucherNumber,
		Type:                voucherType,
		Date:                date,
		Description:         description,
		Currency:            currency,
		BaseCurrency:        baseCurrency,
		ExchangeRate:        exchangeRate,
		Lines:               cloneLines(lines),
		TotalDebit:          totalDebit.Amount(),
		TotalCredit:         totalCredit.Amount(),
		Status:              VoucherStatusDraft,
	}

	for i := range v.Lines {
		if v.Lines[i].ID == uuid.Nil {
			v.Lines[i].ID = uuid.New()
		}
		v.Lines[i].VoucherID = v.ID
	}

	v.AddDomainEvent(NewVoucherCreatedEvent(v))

	return v, nil
}

// Status predicates used by the lifecycle transitions.

// CanApprove returns true if the voucher is still a draft
func (v *Voucher) CanApprove() bool { return v.Status.CanApprove() }

// CanLock returns true if the voucher has been approved
func (v *Voucher) CanLock() bool { return v.Status.CanLock() }

// IsLocked returns true if the voucher has reached the locked terminal state
func (v *Voucher) IsLocked() bool { return v.Status == VoucherStatusLocked }

// IsRejected returns true if the voucher has been rejected
func (v *Voucher) IsRejected() bool { return v.Status == VoucherStatusRejected }

// Approve returns a new voucher in APPROVED status. The receiver is left
// untouched; the caller persists the returned instance.
func (v *Voucher) Approve(approverID uuid.UUID, now time.Time) (*Voucher, error) {
	if !v.CanApprove() {
		return nil, shared.NewInvariantError("VOUCHER_NOT_DRAFT",
			fmt.Sprintf("Only DRAFT vouchers can be approved; voucher %s is %s", v.VoucherNumber, v.Status))
	}
	if approverID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_USER", "Approving user ID is required")
	}

	next := v.clone()
	next.Status = VoucherStatusApproved
	next.ApprovedBy = &approverID
	next.ApprovedAt = &now
	next.UpdatedAt = now
	next.IncrementVersion()

	next.AddDomainEvent(NewVoucherApprovedEvent(next))

	return next, nil
}

// Reject returns a new voucher in REJECTED status. A reason is mandatory.
// Locked and already-rejected vouchers cannot be rejected.
func (v *Voucher) Reject(rejecterID uuid.UUID, now time.Time, reason string) (*Voucher, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewValidationError("REJECTION_REASON_REQUIRED", "Rejection reason cannot be empty")
	}
	if rejecterID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_USER", "Rejecting user ID is required")
	}
	if v.IsLocked() {
		return nil, shared.NewInvariantError("VOUCHER_LOCKED",
			fmt.Sprintf("Voucher %s is locked and cannot be rejected", v.VoucherNumber))
	}
	if v.IsRejected() {
		return nil, shared.NewInvariantError("VOUCHER_ALREADY_REJECTED",
			fmt.Sprintf("Voucher %s has already been rejected", v.VoucherNumber))
	}

	next := v.clone()
	next.Status = VoucherStatusRejected
	next.RejectedBy = &rejecterID
	next.RejectedAt = &now
	next.RejectionReason = reason
	next.UpdatedAt = now
	next.IncrementVersion()

	next.AddDomainEvent(NewVoucherRejectedEvent(next))

	return next, nil
}

// Lock returns a new voucher in the LOCKED terminal state. Locking is
// typically driven by period close; once locked a voucher can never be
// edited, deleted or transitioned again.
func (v *Voucher) Lock(lockerID uuid.UUID, now time.Time) (*Voucher, error) {
	if !v.CanLock() {
		return nil, shared.NewInvariantError("VOUCHER_NOT_APPROVED",
			fmt.Sprintf("Only APPROVED vouchers can be locked; voucher %s is %s", v.VoucherNumber, v.Status))
	}
	if lockerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_USER", "Locking user ID is required")
	}

	next := v.clone()
	next.Status = VoucherStatusLocked
	next.LockedBy = &lockerID
	next.LockedAt = &now
	next.UpdatedAt = now
	next.IncrementVersion()

	next.AddDomainEvent(NewVoucherLockedEvent(next))

	return next, nil
}

// clone returns a copy with its own line slice and no pending events.
func (v *Voucher) clone() *Voucher {
	next := *v
	next.Lines = cloneLines(v.Lines)
	next.ClearDomainEvents()
	return &next
}

func cloneLines(lines []VoucherLine) []VoucherLine {
	out := make([]VoucherLine, len(lines))
	copy(out, lines)
	return out
}

// AccountIDs returns the distinct accounts referenced by the voucher lines,
// in first-appearance order.
func (v *Voucher) AccountIDs() []uuid.UUID {
	return distinctAccountIDs(v.Lines)
}

func distinctAccountIDs(lines []VoucherLine) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	var ids []uuid.UUID
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		ids = append(ids, line.AccountID)
	}
	return ids
}
