package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation        = errors.New("validation")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidState      = errors.New("invalid state")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError carries the requested and available quantities so
// handlers can surface them. errors.Is(err, ErrInsufficientStock) matches.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested uint
	Available uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ElevatedRole reports whether a principal may act on resources it does
// not own.
func ElevatedRole(role string) bool {
	return role == "admin" || role == "editor"
}
