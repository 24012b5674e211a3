package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TenantSettings holds per-tenant accounting preferences
type TenantSettings struct {
	TenantID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	BaseCurrency string    `gorm:"type:varchar(3);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (TenantSettings) TableName() string {
	return "tenant_settings"
}

// GormTenantSettingsRepository resolves tenant settings, falling back to a
// configured default currency for tenants that never set one
type GormTenantSettingsRepository struct {
	db              *gorm.DB
	defaultCurrency valueobject.Currency
}

// NewGormTenantSettingsRepository creates a new GormTenantSettingsRepository
func NewGormTenantSettingsRepository(db *gorm.DB, defaultCurrency valueobject.Currency) *GormTenantSettingsRepository {
	return &GormTenantSettingsRepository{db: db, defaultCurrency: defaultCurrency}
}

// GetBaseCurrency returns the tenant's reporting currency
func (r *GormTenantSettingsRepository) GetBaseCurrency(ctx context.Context, tenantID uuid.UUID) (valueobject.Currency, error) {
	var settings TenantSettings
	err := r.db.WithContext(ctx).First(&settings, "tenant_id = ?", tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.defaultCurrency, nil
		}
		return "", err
	}
	return valueobject.Currency(settings.BaseCurrency), nil
}

// SetBaseCurrency stores or updates the tenant's reporting currency
func (r *GormTenantSettingsRepository) SetBaseCurrency(ctx context.Context, tenantID uuid.UUID, currency valueobject.Currency) error {
	settings := TenantSettings{
		TenantID:     tenantID,
		BaseCurrency: string(currency),
		UpdatedAt:    time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"base_currency", "updated_at"}),
		}).
		Create(&settings).Error
}

// Ensure GormTenantSettingsRepository implements the interface
var _ accounting.BaseCurrencyProvider = (*GormTenantSettingsRepository)(nil)
