package persistence

import (
	"context"
	"errors"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByIDForTenant finds an account by ID for a specific tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.Account, error) {
	var account accounting.Account
	if err := r.db.WithContext(ctx).
		First(&account, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByCode finds an account by its code for a tenant
func (r *GormAccountRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*accounting.Account, error) {
	var account accounting.Account
	if err := r.db.WithContext(ctx).
		First(&account, "code = ? AND tenant_id = ?", code, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindAllForTenant finds accounts for a tenant with filtering
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.AccountFilter) ([]accounting.Account, error) {
	var accounts []accounting.Account
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	order := ValidateSortField(filter.OrderBy, AccountSortFields, "code") + " " +
		ValidateSortOrder(filter.OrderDir, "ASC")
	if err := query.Order(order).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// CountForTenant counts accounts for a tenant with filtering
func (r *GormAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.AccountFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&accounting.Account{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter accounting.AccountFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	return query
}

// HasChildren reports whether any account references this one as parent
func (r *GormAccountRepository) HasChildren(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&accounting.Account{}).
		Where("tenant_id = ? AND parent_id = ?", tenantID, accountID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsUsed reports whether any voucher line references this account
func (r *GormAccountRepository) IsUsed(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&accounting.VoucherLine{}).
		Joins("JOIN vouchers ON vouchers.id = voucher_lines.voucher_id").
		Where("vouchers.tenant_id = ? AND voucher_lines.account_id = ?", tenantID, accountID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *accounting.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// DeleteForTenant removes an account for a tenant
func (r *GormAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&accounting.Account{}, "id = ? AND tenant_id = ?", id, tenantID).Error
}

// Ensure GormAccountRepository implements the interface
var _ accounting.AccountRepository = (*GormAccountRepository)(nil)
