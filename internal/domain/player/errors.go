package player

import "errors"

var (
	// ErrUnknownActionType is returned when an action type name is not recognised
	ErrUnknownActionType = errors.New("unknown action type")

	// ErrInvalidLevel is returned when a player or house level is negative
	ErrInvalidLevel = errors.New("invalid level")

	// ErrInvalidDrinkConcentration is returned when drink concentration is negative
	ErrInvalidDrinkConcentration = errors.New("invalid drink concentration")
)
