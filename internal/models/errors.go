package models

import "errors"

// Custom errors
var (
	ErrSportRequired = errors.New("sport is required")
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateKey  = errors.New("duplicate key violation")
	ErrInvalidID     = errors.New("invalid ID format")
)
