package market

import "errors"

// Domain errors for market snapshots

var (
	// ErrEmptyMarket is returned when a snapshot carries no quotes
	ErrEmptyMarket = errors.New("market snapshot has no quotes")

	// ErrInvalidTimestamp is returned when a snapshot has no update time
	ErrInvalidTimestamp = errors.New("market snapshot timestamp cannot be empty")

	// ErrInvalidItemName is returned when a quote is keyed by an empty name
	ErrInvalidItemName = errors.New("invalid item name")

	// ErrInvalidLevel is returned when a quote is keyed by a negative enhancement level
	ErrInvalidLevel = errors.New("invalid enhancement level")
)
