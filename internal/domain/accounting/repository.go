package accounting

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherFilter defines filtering options for voucher list queries
type VoucherFilter struct {
	shared.Filter
	Type     *VoucherType
	Status   *VoucherStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// VoucherRepository defines the interface for voucher persistence
type VoucherRepository interface {
	// FindByIDForTenant finds a voucher with its lines. Returns nil when absent.
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Voucher, error)

	// FindByNumber finds a voucher by its number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, voucherNumber string) (*Voucher, error)

	// FindAllForTenant finds vouchers for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter VoucherFilter) ([]Voucher, error)

	// CountForTenant counts vouchers for a tenant with filtering
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter VoucherFilter) (int64, error)

	// Save persists a new voucher together with its lines in one transaction
	Save(ctx context.Context, voucher *Voucher) error

	// SaveWithLock updates a voucher with an optimistic version check,
	// failing with a conflict error when another writer got there first
	SaveWithLock(ctx context.Context, voucher *Voucher) error
}

// AccountFilter defines filtering options for account list queries
type AccountFilter struct {
	shared.Filter
	Type     *AccountType
	IsActive *bool
	ParentID *uuid.UUID
}

// AccountRepository defines the interface for chart-of-accounts persistence
type AccountRepository interface {
	// FindByIDForTenant finds an account by ID. Returns nil when absent.
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)

	// FindByCode finds an account by its code for a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Account, error)

	// FindAllForTenant finds accounts for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountFilter) ([]Account, error)

	// CountForTenant counts accounts for a tenant with filtering
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountFilter) (int64, error)

	// HasChildren reports whether any account references this one as parent
	HasChildren(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error)

	// IsUsed reports whether any voucher line references this account
	IsUsed(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error

	// DeleteForTenant removes an account. Callers must run the deletion
	// guard first.
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ExchangeRateProvider resolves the rate for converting between two
// currencies on a given date. Where the rates come from is external.
type ExchangeRateProvider interface {
	// GetRate returns a positive rate, or an error when no rate is known
	GetRate(ctx context.Context, from, to valueobject.Currency, date time.Time) (decimal.Decimal, error)
}

// BaseCurrencyProvider resolves a tenant's reporting currency.
type BaseCurrencyProvider interface {
	GetBaseCurrency(ctx context.Context, tenantID uuid.UUID) (valueobject.Currency, error)
}

// VoucherNumberGenerator issues voucher numbers that are unique and
// monotonic per tenant and voucher type.
type VoucherNumberGenerator interface {
	Generate(ctx context.Context, tenantID uuid.UUID, voucherType VoucherType, date time.Time) (string, error)
}
