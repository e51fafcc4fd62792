package favorite

import "errors"

var (
	ErrDuplicateFavorite = errors.New("favorite already exists")
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrInvalidFavorite   = errors.New("favorite needs an id and a calculator config")
)
