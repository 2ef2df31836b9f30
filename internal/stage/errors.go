package stage

import "errors"

// Topology errors, returned while a tree is configured or initialized.
var (
	ErrNoChildren        = errors.New("container has no children")
	ErrInvalidChild      = errors.New("invalid child stage")
	ErrForeignChild      = errors.New("stage already belongs to another container")
	ErrNotAdjacent       = errors.New("stages are not adjacent children of this container")
	ErrInterfaceMismatch = errors.New("interfaces of stages do not match")
	ErrWrapperFull       = errors.New("wrapper already has a child")
	ErrInitialized       = errors.New("stage tree is already initialized")
)

// ErrNegativeCost is returned when a stage tries to publish a solution with
// a negative or NaN cost.
var ErrNegativeCost = errors.New("solution cost must be non-negative")
