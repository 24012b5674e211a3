package accounting

import (
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherCreatedEvent is raised when a new draft voucher is constructed
type VoucherCreatedEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID       `json:"voucher_id"`
	VoucherNumber string          `json:"voucher_number"`
	VoucherType   VoucherType     `json:"voucher_type"`
	Date          time.Time       `json:"date"`
	TotalDebit    decimal.Decimal `json:"total_debit"`
	TotalCredit   decimal.Decimal `json:"total_credit"`
	LineCount     int             `json:"line_count"`
}

// EventType returns the event type name
func (e *VoucherCreatedEvent) EventType() string {
	return "VoucherCreated"
}

// NewVoucherCreatedEvent creates a new VoucherCreatedEvent
func NewVoucherCreatedEvent(v *Voucher) *VoucherCreatedEvent {
	return &VoucherCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VoucherCreated", "Voucher", v.ID, v.TenantID),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		VoucherType:     v.Type,
		Date:            v.Date,
		TotalDebit:      v.TotalDebit,
		TotalCredit:     v.TotalCredit,
		LineCount:       len(v.Lines),
	}
}

// VoucherApprovedEvent is raised when a voucher is approved
type VoucherApprovedEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID `json:"voucher_id"`
	VoucherNumber string    `json:"voucher_number"`
	ApprovedBy    uuid.UUID `json:"approved_by"`
	ApprovedAt    time.Time `json:"approved_at"`
}

// EventType returns the event type name
func (e *VoucherApprovedEvent) EventType() string {
	return "VoucherApproved"
}

// NewVoucherApprovedEvent creates a new VoucherApprovedEvent
func NewVoucherApprovedEvent(v *Voucher) *VoucherApprovedEvent {
	var by uuid.UUID
	at := time.Now()
	if v.ApprovedBy != nil {
		by = *v.ApprovedBy
	}
	if v.ApprovedAt != nil {
		at = *v.ApprovedAt
	}
	return &VoucherApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VoucherApproved", "Voucher", v.ID, v.TenantID),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		ApprovedBy:      by,
		ApprovedAt:      at,
	}
}

// VoucherRejectedEvent is raised when a voucher is rejected
type VoucherRejectedEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID `json:"voucher_id"`
	VoucherNumber string    `json:"voucher_number"`
	RejectedBy    uuid.UUID `json:"rejected_by"`
	RejectedAt    time.Time `json:"rejected_at"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *VoucherRejectedEvent) EventType() string {
	return "VoucherRejected"
}

// NewVoucherRejectedEvent creates a new VoucherRejectedEvent
func NewVoucherRejectedEvent(v *Voucher) *VoucherRejectedEvent {
	var by uuid.UUID
	at := time.Now()
	if v.RejectedBy != nil {
		by = *v.RejectedBy
	}
	if v.RejectedAt != nil {
		at = *v.RejectedAt
	}
	return &VoucherRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VoucherRejected", "Voucher", v.ID, v.TenantID),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		RejectedBy:      by,
		RejectedAt:      at,
		Reason:          v.RejectionReason,
	}
}

// VoucherLockedEvent is raised when a voucher reaches the locked terminal state
type VoucherLockedEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID `json:"voucher_id"`
	VoucherNumber string    `json:"voucher_number"`
	LockedBy      uuid.UUID `json:"locked_by"`
	LockedAt      time.Time `json:"locked_at"`
}

// EventType returns the event type name
func (e *VoucherLockedEvent) EventType() string {
	return "VoucherLocked"
}

// NewVoucherLockedEvent creates a new VoucherLockedEvent
func NewVoucherLockedEvent(v *Voucher) *VoucherLockedEvent {
	var by uuid.UUID
	at := time.Now()
	if v.LockedBy != nil {
		by = *v.LockedBy
	}
	if v.LockedAt != nil {
		at = *v.LockedAt
	}
	return &VoucherLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VoucherLocked", "Voucher", v.ID, v.TenantID),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		LockedBy:        by,
		LockedAt:        at,
	}
}
