package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
)

// GormSnapshotRepository implements common.SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GORM snapshot repository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Save replaces the stored payload of the snapshot's feed
func (r *GormSnapshotRepository) Save(ctx context.Context, snapshot *common.StoredSnapshot) error {
	model := FeedSnapshotModel{
		Kind:      string(snapshot.Kind),
		Payload:   snapshot.Payload,
		FetchedAt: snapshot.FetchedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "fetched_at"}),
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to save %s snapshot: %w", snapshot.Kind, err)
	}
	return nil
}

// Latest returns the stored payload of a feed
func (r *GormSnapshotRepository) Latest(ctx context.Context, kind common.SnapshotKind) (*common.StoredSnapshot, error) {
	var model FeedSnapshotModel
	result := r.db.WithContext(ctx).Where("kind = ?", string(kind)).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, common.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load %s snapshot: %w", kind, result.Error)
	}
	return &common.StoredSnapshot{
		Kind:      common.SnapshotKind(model.Kind),
		Payload:   model.Payload,
		FetchedAt: model.FetchedAt,
	}, nil
}
