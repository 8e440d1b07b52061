package button

import "errors"

// Button-specific errors
var (
	ErrInvalidConfig = errors.New("invalid button configuration")
	ErrNilOwner      = errors.New("button owner is nil")
	ErrNilQuery      = errors.New("overlap query is nil")
)
