package pricing

import (
	"context"
	"errors"
)

var (
	ErrOverrideNotFound = errors.New("price override not found")
	ErrInvalidOverride  = errors.New("price override needs an item and at least one manual side")
)

// OverrideRepository persists manual price overrides
type OverrideRepository interface {
	// Save creates or replaces the override for its item and level
	Save(ctx context.Context, override Override) error

	// Delete removes an override, returning ErrOverrideNotFound when missing
	Delete(ctx context.Context, hrid string, level int) error

	// List returns every stored override ordered by item and level
	List(ctx context.Context) ([]Override, error)
}

// Validate checks an override before it is stored
func (o Override) Validate() error {
	if o.Hrid == "" || o.Level < 0 {
		return ErrInvalidOverride
	}
	if !o.Ask.Manual && !o.Bid.Manual {
		return ErrInvalidOverride
	}
	return nil
}
