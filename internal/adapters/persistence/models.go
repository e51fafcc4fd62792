package persistence

import (
	"time"
)

// FavoriteModel represents the favorites table
type FavoriteModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Key       string    `gorm:"column:config_key;type:text;uniqueIndex;not null"`
	Item      string    `gorm:"column:item;type:text;not null"` // StorageItem JSON
	CreatedAt time.Time `gorm:"column:created_at;not null;index"`
}

func (FavoriteModel) TableName() string {
	return "favorites"
}

// PriceOverrideModel represents the price_overrides table, one row per (item, level)
type PriceOverrideModel struct {
	ItemHrid  string    `gorm:"column:item_hrid;primaryKey"`
	Level     int       `gorm:"column:level;primaryKey;autoIncrement:false"`
	AskManual bool      `gorm:"column:ask_manual;not null;default:false"`
	AskPrice  float64   `gorm:"column:ask_price;not null;default:0"`
	BidManual bool      `gorm:"column:bid_manual;not null;default:false"`
	BidPrice  float64   `gorm:"column:bid_price;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (PriceOverrideModel) TableName() string {
	return "price_overrides"
}

// FeedSnapshotModel represents the feed_snapshots table; only the latest payload per feed is kept
type FeedSnapshotModel struct {
	Kind      string    `gorm:"column:kind;primaryKey"`
	Payload   []byte    `gorm:"column:payload;not null"`
	FetchedAt time.Time `gorm:"column:fetched_at;not null"`
}

func (FeedSnapshotModel) TableName() string {
	return "feed_snapshots"
}

// AllModels lists every model for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&FavoriteModel{},
		&PriceOverrideModel{},
		&FeedSnapshotModel{},
	}
}
