package accounting

import (
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Account represents one node in the chart of accounts.
// Only leaf, active accounts may receive postings; parent accounts exist
// solely to structure the tree.
type Account struct {
	shared.TenantAggregateRoot
	Code        string                `gorm:"type:varchar(30);not null;uniqueIndex:idx_account_tenant_code,priority:2"`
	Name        string                `gorm:"type:varchar(200);not null"`
	Type        AccountType           `gorm:"type:varchar(20);not null;index"`
	ParentID    *uuid.UUID            `gorm:"type:uuid;index"`
	Currency    valueobject.Currency  `gorm:"type:varchar(3);not null"`
	IsActive    bool                  `gorm:"not null;default:true;index"`
	IsProtected bool                  `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a new account in the chart of accounts
func NewAccount(
	tenantID uuid.UUID,
	code string,
	name string,
	accountType AccountType,
	currency valueobject.Currency,
	parentID *uuid.UUID,
) (*Account, error) {
	if code == "" {
		return nil, shared.NewValidationError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if len(code) > 30 {
		return nil, shared.NewValidationError("INVALID_ACCOUNT_CODE", "Account code cannot exceed 30 characters")
	}
	if name == "" {
		return nil, shared.NewValidationError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewValidationError("INVALID_ACCOUNT_TYPE", "Account type is not valid")
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("INVALID_CURRENCY", "Account currency is not a valid ISO 4217 code")
	}

	a := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Type:                accountType,
		ParentID:            parentID,
		Currency:            currency,
		IsActive:            true,
	}

	a.AddDomainEvent(NewAccountCreatedEvent(a))

	return a, nil
}

// Rename updates the display name
func (a *Account) Rename(name string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	a.Name = name
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Deactivate closes the account for new postings without deleting it
func (a *Account) Deactivate() error {
	if !a.IsActive {
		return shared.NewInvariantError("ACCOUNT_ALREADY_INACTIVE", "Account is already inactive")
	}
	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAccountDeactivatedEvent(a))

	return nil
}

// Activate reopens the account for postings
func (a *Account) Activate() error {
	if a.IsActive {
		return shared.NewInvariantError("ACCOUNT_ALREADY_ACTIVE", "Account is already active")
	}
	a.IsActive = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Protect marks the account as undeletable (system accounts)
func (a *Account) Protect() {
	a.IsProtected = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// CanBeDeleted checks the deletion guard. hasChildren and isUsed are
// resolved by the caller from the repository because the aggregate cannot
// see its siblings or voucher references.
func (a *Account) CanBeDeleted(hasChildren, isUsed bool) error {
	if a.IsProtected {
		return shared.NewPolicyError("ACCOUNT_PROTECTED",
			"Account "+a.Code+" is protected and cannot be deleted")
	}
	if hasChildren {
		return shared.NewPolicyError("ACCOUNT_HAS_CHILDREN",
			"Account "+a.Code+" has child accounts; delete the children first")
	}
	if isUsed {
		return shared.NewPolicyError("ACCOUNT_IN_USE",
			"Account "+a.Code+" is referenced by voucher lines; deactivate it instead of deleting")
	}
	return nil
}
