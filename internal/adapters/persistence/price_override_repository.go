package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
)

// GormPriceOverrideRepository implements pricing.OverrideRepository using GORM
type GormPriceOverrideRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormPriceOverrideRepository creates a new GORM price override repository
func NewGormPriceOverrideRepository(db *gorm.DB, clock shared.Clock) *GormPriceOverrideRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormPriceOverrideRepository{db: db, clock: clock}
}

// Save upserts the override for its (item, level)
func (r *GormPriceOverrideRepository) Save(ctx context.Context, override pricing.Override) error {
	model := PriceOverrideModel{
		ItemHrid:  override.Hrid,
		Level:     override.Level,
		AskManual: override.Ask.Manual,
		AskPrice:  override.Ask.Price,
		BidManual: override.Bid.Manual,
		BidPrice:  override.Bid.Price,
		UpdatedAt: r.clock.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_hrid"}, {Name: "level"}},
		DoUpdates: clause.AssignmentColumns([]string{"ask_manual", "ask_price", "bid_manual", "bid_price", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to save price override: %w", err)
	}
	return nil
}

// Delete removes the override for an (item, level)
func (r *GormPriceOverrideRepository) Delete(ctx context.Context, hrid string, level int) error {
	result := r.db.WithContext(ctx).
		Where("item_hrid = ? AND level = ?", hrid, level).
		Delete(&PriceOverrideModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete price override: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pricing.ErrOverrideNotFound
	}
	return nil
}

// List returns every override ordered by item and level
func (r *GormPriceOverrideRepository) List(ctx context.Context) ([]pricing.Override, error) {
	var models []PriceOverrideModel
	if err := r.db.WithContext(ctx).Order("item_hrid ASC, level ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list price overrides: %w", err)
	}

	overrides := make([]pricing.Override, len(models))
	for i, m := range models {
		overrides[i] = pricing.Override{
			Hrid:  m.ItemHrid,
			Level: m.Level,
			Ask:   pricing.ManualPrice{Manual: m.AskManual, Price: m.AskPrice},
			Bid:   pricing.ManualPrice{Manual: m.BidManual, Price: m.BidPrice},
		}
	}
	return overrides, nil
}
