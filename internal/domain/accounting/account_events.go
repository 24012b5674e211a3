package accounting

import (
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountCreatedEvent is raised when a new account is added to the chart
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID   `json:"account_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
}

// EventType returns the event type name
func (e *AccountCreatedEvent) EventType() string {
	return "AccountCreated"
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(a *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountCreated", "Account", a.ID, a.TenantID),
		AccountID:       a.ID,
		Code:            a.Code,
		Name:            a.Name,
		Type:            a.Type,
	}
}

// AccountDeactivatedEvent is raised when an account is closed for postings
type AccountDeactivatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Code      string    `json:"code"`
}

// EventType returns the event type name
func (e *AccountDeactivatedEvent) EventType() string {
	return "AccountDeactivated"
}

// NewAccountDeactivatedEvent creates a new AccountDeactivatedEvent
func NewAccountDeactivatedEvent(a *Account) *AccountDeactivatedEvent {
	return &AccountDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountDeactivated", "Account", a.ID, a.TenantID),
		AccountID:       a.ID,
		Code:            a.Code,
	}
}
