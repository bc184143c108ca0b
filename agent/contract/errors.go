package contract

import "errors"

var (
	ErrNotFound    = errors.New("interview not found")
	ErrPersistence = errors.New("persistence failure")
	ErrValidation  = errors.New("validation failed")
	ErrModelInvoke = errors.New("model invoke failed")
)
