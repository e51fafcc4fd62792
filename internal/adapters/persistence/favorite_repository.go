package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/favorite"
)

// GormFavoriteRepository implements favorite.Repository using GORM
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GORM favorite repository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Add persists a favorite; a second favorite with the same configuration key is rejected
func (r *GormFavoriteRepository) Add(ctx context.Context, fav *favorite.Favorite) error {
	model, err := favoriteToModel(fav)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&FavoriteModel{}).Where("config_key = ?", model.Key).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check favorite: %w", err)
		}
		if count > 0 {
			return favorite.ErrDuplicateFavorite
		}
		if err := tx.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return favorite.ErrDuplicateFavorite
			}
			return fmt.Errorf("failed to add favorite: %w", err)
		}
		return nil
	})
}

// Delete removes a favorite by id
func (r *GormFavoriteRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&FavoriteModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return favorite.ErrFavoriteNotFound
	}
	return nil
}

// List returns every favorite, oldest first
func (r *GormFavoriteRepository) List(ctx context.Context) ([]*favorite.Favorite, error) {
	var models []FavoriteModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	favorites := make([]*favorite.Favorite, 0, len(models))
	for i := range models {
		fav, err := modelToFavorite(&models[i])
		if err != nil {
			continue // Skip rows written by an incompatible version
		}
		favorites = append(favorites, fav)
	}
	return favorites, nil
}

func favoriteToModel(fav *favorite.Favorite) (*FavoriteModel, error) {
	data, err := fav.Item().Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode favorite: %w", err)
	}
	return &FavoriteModel{
		ID:        fav.ID(),
		Key:       fav.Key(),
		Item:      string(data),
		CreatedAt: fav.CreatedAt(),
	}, nil
}

func modelToFavorite(model *FavoriteModel) (*favorite.Favorite, error) {
	item, err := calculator.DecodeStorageItem([]byte(model.Item))
	if err != nil {
		return nil, err
	}
	return favorite.NewFavorite(model.ID, item, model.CreatedAt)
}
