package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds returned by the service layer. Callers test them with errors.Is;
// the wrapped message carries the human-readable reason.
var (
	// Authorization
	ErrUnauthorized                    = errors.New("unauthorized")
	ErrInvalidOperationForSupplierType = errors.New("invalid operation for supplier type")
	ErrSelfTradeForbidden              = errors.New("self trade forbidden")

	// Business rules
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrOperationNotPermitted = errors.New("operation not permitted")
	ErrAlreadyRegistered     = errors.New("supplier already registered")
	ErrInvalidInput          = errors.New("invalid input")

	// Integrity
	ErrNotFound = errors.New("not found")
	ErrInUse    = errors.New("resource in use")
	ErrConflict = errors.New("conflict")

	// Auth
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInternal = errors.New("internal error")
)

// dbError maps GORM errors onto the service error kinds. what names the
// entity for the message, e.g. "product 7".
func dbError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s is referenced elsewhere", ErrInUse, what)
	default:
		return fmt.Errorf("%w: %s: %w", ErrInternal, what, err)
	}
}

// isKind reports whether err already carries one of the service kinds.
func isKind(err error, kinds ...error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
