package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExchangeRate is a stored conversion rate effective from a given date.
// Rates are global, not tenant-scoped: the market rate is the same for
// everyone.
type ExchangeRate struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FromCurrency  string          `gorm:"type:varchar(3);not null;index:idx_rate_pair_date,priority:1"`
	ToCurrency    string          `gorm:"type:varchar(3);not null;index:idx_rate_pair_date,priority:2"`
	Rate          decimal.Decimal `gorm:"type:decimal(20,10);not null"`
	EffectiveDate time.Time       `gorm:"not null;index:idx_rate_pair_date,priority:3"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (ExchangeRate) TableName() string {
	return "exchange_rates"
}

// GormExchangeRateRepository implements ExchangeRateProvider against the
// exchange_rates table
type GormExchangeRateRepository struct {
	db *gorm.DB
}

// NewGormExchangeRateRepository creates a new GormExchangeRateRepository
func NewGormExchangeRateRepository(db *gorm.DB) *GormExchangeRateRepository {
	return &GormExchangeRateRepository{db: db}
}

// GetRate returns the most recent rate effective on or before the given date
func (r *GormExchangeRateRepository) GetRate(ctx context.Context, from, to valueobject.Currency, date time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	var rate ExchangeRate
	err := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ? AND effective_date <= ?", string(from), string(to), date).
		Order("effective_date DESC").
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, shared.NewNotFoundError("EXCHANGE_RATE_NOT_FOUND",
				"No exchange rate from "+string(from)+" to "+string(to)+" on or before "+date.Format("2006-01-02"))
		}
		return decimal.Zero, err
	}
	return rate.Rate, nil
}

// SaveRate stores a new rate effective from the given date
func (r *GormExchangeRateRepository) SaveRate(ctx context.Context, from, to valueobject.Currency, rate decimal.Decimal, effectiveDate time.Time) error {
	if !rate.IsPositive() {
		return shared.NewValidationError("INVALID_EXCHANGE_RATE", "Invalid exchange rate")
	}
	record := ExchangeRate{
		ID:            uuid.New(),
		FromCurrency:  string(from),
		ToCurrency:    string(to),
		Rate:          rate,
		EffectiveDate: effectiveDate,
		CreatedAt:     time.Now(),
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

// Ensure GormExchangeRateRepository implements the interface
var _ accounting.ExchangeRateProvider = (*GormExchangeRateRepository)(nil)
