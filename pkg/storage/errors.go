package storage

import "errors"

var (
	ErrInvalidConfig  = errors.New("invalid storage configuration")
	ErrInvalidKey     = errors.New("invalid storage key")
	ErrFailedToSave   = errors.New("failed to save object")
	ErrFailedToDelete = errors.New("failed to delete object")
)
