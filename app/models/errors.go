package models

import "errors"

// Domain errors surfaced through structured deduction results, never panics.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrDBNotInitialized  = errors.New("database not initialized")
)
