package persistence

import (
	"context"
	"errors"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVoucherRepository implements VoucherRepository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByIDForTenant finds a voucher with its lines for a specific tenant
func (r *GormVoucherRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.Voucher, error) {
	var voucher accounting.Voucher
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("voucher_lines.line_no ASC")
		}).
		First(&voucher, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// FindByNumber finds a voucher by its number for a tenant
func (r *GormVoucherRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, voucherNumber string) (*accounting.Voucher, error) {
	var voucher accounting.Voucher
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("voucher_lines.line_no ASC")
		}).
		First(&voucher, "voucher_number = ? AND tenant_id = ?", voucherNumber, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// FindAllForTenant finds vouchers for a tenant with filtering
func (r *GormVoucherRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.VoucherFilter) ([]accounting.Voucher, error) {
	var vouchers []accounting.Voucher
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("voucher_lines.line_no ASC")
		}).
		Order(voucherOrderClause(filter)).
		Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

// CountForTenant counts vouchers for a tenant with filtering
func (r *GormVoucherRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.VoucherFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&accounting.Voucher{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormVoucherRepository) applyFilter(query *gorm.DB, filter accounting.VoucherFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	return query
}

// voucherOrderClause builds a safe ORDER BY clause from the filter, with the
// voucher number as tiebreaker for stable pagination.
func voucherOrderClause(filter accounting.VoucherFilter) string {
	field := ValidateSortField(filter.OrderBy, VoucherSortFields, "date")
	dir := ValidateSortOrder(filter.OrderDir, "DESC")
	if field == "voucher_number" {
		return field + " " + dir
	}
	return field + " " + dir + ", voucher_number DESC"
}

// Save persists a new voucher together with its lines in one transaction
func (r *GormVoucherRepository) Save(ctx context.Context, voucher *accounting.Voucher) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Save(voucher).Error
	})
}

// SaveWithLock updates a voucher with an optimistic version check. The write
// only lands when the stored version matches the one this instance was
// derived from; otherwise a concurrent writer won and the caller gets a
// conflict error.
func (r *GormVoucherRepository) SaveWithLock(ctx context.Context, voucher *accounting.Voucher) error {
	result := r.db.WithContext(ctx).
		Model(voucher).
		Where("id = ? AND version = ?", voucher.ID, voucher.Version-1).
		Updates(map[string]any{
			"status":           voucher.Status,
			"approved_by":      voucher.ApprovedBy,
			"approved_at":      voucher.ApprovedAt,
			"rejected_by":      voucher.RejectedBy,
			"rejected_at":      voucher.RejectedAt,
			"rejection_reason": voucher.RejectionReason,
			"locked_by":        voucher.LockedBy,
			"locked_at":        voucher.LockedAt,
			"updated_at":       voucher.UpdatedAt,
			"version":          voucher.Version,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormVoucherRepository implements the interface
var _ accounting.VoucherRepository = (*GormVoucherRepository)(nil)
