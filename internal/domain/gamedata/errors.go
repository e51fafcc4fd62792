package gamedata

import "errors"

// Domain errors for reference data

var (
	// ErrEmptySnapshot is returned when a snapshot carries no items
	ErrEmptySnapshot = errors.New("game data snapshot has no items")

	// ErrInvalidItem is returned when an item entry has no hrid
	ErrInvalidItem = errors.New("invalid item")

	// ErrInvalidAction is returned when an action entry has no hrid
	ErrInvalidAction = errors.New("invalid action")
)
