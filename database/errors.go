package database

import (
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey: a unique constraint rejected the write.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrLockConflict: lock wait timed out, deadlock, or serialization failure.
	ErrLockConflict = errors.New("lock conflict")
)

func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func IsLockConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrLockConflict) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1205 || myErr.Number == 1213
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "40P01", "40001":
			return true
		}
		return false
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// Classify tags driver errors with ErrDuplicateKey or ErrLockConflict so
// callers only need errors.Is. Other errors pass through unchanged.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrLockConflict):
		return err
	case IsDuplicateKey(err):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	case IsLockConflict(err):
		return fmt.Errorf("%w: %w", ErrLockConflict, err)
	}
	return err
}
