package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/restaurant-reservation/database"
)

// Jenis error yang dikembalikan service. Controller memetakan jenis ini ke status HTTP.
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrPersistenceConflict = errors.New("persistence conflict")
)

var (
	ErrRestaurantNotFound  = fmt.Errorf("restaurant %w", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)
	ErrCustomerNotFound    = fmt.Errorf("customer %w", ErrNotFound)
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// persistenceError maps classified store failures onto ErrPersistenceConflict.
func persistenceError(op string, err error) error {
	err = database.Classify(err)
	if errors.Is(err, database.ErrDuplicateKey) || errors.Is(err, database.ErrLockConflict) {
		return fmt.Errorf("%s: %w: %w", op, ErrPersistenceConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// txError keeps service error kinds from a transaction and tags store
// conflicts raised at commit time as ErrPersistenceConflict.
func txError(op string, err error) error {
	if err == nil || errors.Is(err, ErrPersistenceConflict) {
		return err
	}
	if errors.Is(err, database.ErrDuplicateKey) || errors.Is(err, database.ErrLockConflict) {
		return fmt.Errorf("%s: %w: %w", op, ErrPersistenceConflict, err)
	}
	return err
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

func checkPage(page, size int) error {
	if page < 0 {
		return validationError("page must be >= 0")
	}
	if size < 1 || size > MaxPageSize {
		return validationError("size must be between 1 and %d", MaxPageSize)
	}
	return nil
}
