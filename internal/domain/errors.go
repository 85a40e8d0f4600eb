package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrNoSalesHistory = errors.New("no sales history available for this product")
	ErrInvalidHorizon = errors.New("days_ahead must be between 1 and 90")
	ErrNoValidRows    = errors.New("no valid sales rows found in file")
)
