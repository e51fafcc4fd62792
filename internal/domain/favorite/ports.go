package favorite

import "context"

// Repository persists favorites
type Repository interface {
	// Add stores a favorite, returning ErrDuplicateFavorite when its key is already stored
	Add(ctx context.Context, favorite *Favorite) error

	// Delete removes a favorite, returning ErrFavoriteNotFound when missing
	Delete(ctx context.Context, id string) error

	// List returns every favorite in creation order
	List(ctx context.Context) ([]*Favorite, error)
}
