package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoucherSequence tracks the last issued number per tenant, voucher type
// and month. One row per (tenant, type, period).
type VoucherSequence struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sequence_scope,priority:1"`
	Type       string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_sequence_scope,priority:2"`
	Period     string    `gorm:"type:varchar(6);not null;uniqueIndex:idx_sequence_scope,priority:3"`
	LastNumber int       `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (VoucherSequence) TableName() string {
	return "voucher_sequences"
}

// GormVoucherNumberGenerator issues voucher numbers from a per-scope
// sequence row held under a row lock, so concurrent postings never share
// a number.
type GormVoucherNumberGenerator struct {
	db *gorm.DB
}

// NewGormVoucherNumberGenerator creates a new GormVoucherNumberGenerator
func NewGormVoucherNumberGenerator(db *gorm.DB) *GormVoucherNumberGenerator {
	return &GormVoucherNumberGenerator{db: db}
}

// Generate produces the next number in the form <PREFIX>-<YYYYMM>-<NNNNN>,
// e.g. PV-202608-00001.
func (g *GormVoucherNumberGenerator) Generate(ctx context.Context, tenantID uuid.UUID, voucherType accounting.VoucherType, date time.Time) (string, error) {
	period := date.Format("200601")

	var next int
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq VoucherSequence
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND type = ? AND period = ?", tenantID, string(voucherType), period).
			First(&seq).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			seq = VoucherSequence{
				ID:         uuid.New(),
				TenantID:   tenantID,
				Type:       string(voucherType),
				Period:     period,
				LastNumber: 1,
				UpdatedAt:  time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			seq.LastNumber++
			seq.UpdatedAt = time.Now()
			if err := tx.Save(&seq).Error; err != nil {
				return err
			}
		}

		next = seq.LastNumber
		return nil
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%05d", voucherType.NumberPrefix(), period, next), nil
}

// Ensure GormVoucherNumberGenerator implements the interface
var _ accounting.VoucherNumberGenerator = (*GormVoucherNumberGenerator)(nil)
