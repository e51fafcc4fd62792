package calculator

import "errors"

var (
	// ErrInvalidEnhancement is returned for an enhancement chain that cannot be built
	ErrInvalidEnhancement = errors.New("invalid enhancement chain")

	// ErrUnreachableLevel is returned when the target level cannot be reached
	ErrUnreachableLevel = errors.New("target enhancement level is unreachable")

	// ErrUnsupportedKind is returned when a config names a kind New cannot build
	ErrUnsupportedKind = errors.New("unsupported calculator kind")

	// ErrEmptyWorkflow is returned when a workflow has no stages
	ErrEmptyWorkflow = errors.New("workflow needs at least one stage")
)
