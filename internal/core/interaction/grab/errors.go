package grab

import "errors"

// Grab-specific errors
var (
	ErrInvalidConfig = errors.New("invalid grab configuration")
	ErrNilHand       = errors.New("grab hand transform is nil")
	ErrNilQuery      = errors.New("overlap query is nil")
	ErrNoPlayer      = errors.New("player rigid body not set")
)
