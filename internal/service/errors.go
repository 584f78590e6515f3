package service

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

var (
	// ErrNotFound wraps the lookup key that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrConflict wraps the value that violated a unique constraint.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials is shared by unknown-email and wrong-password
	// failures so the response never reveals which check failed.
	ErrInvalidCredentials = errors.New("credentials are not valid")
	ErrForbidden          = errors.New("insufficient role")
	ErrValidation         = errors.New("validation failed")
	// ErrInternal is the opaque error surfaced for unclassified store or
	// signing failures. Full detail stays in the server log.
	ErrInternal = errors.New("unexpected error, check server logs")
)

// classifyStoreError maps a store failure to the error taxonomy: unique
// violations become ErrConflict naming the conflicting value, anything else is
// logged in full and collapsed to ErrInternal.
func classifyStoreError(l *slog.Logger, err error, conflictValue string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrConflict, conflictValue)
	}
	l.Error("store error", "error", err)
	return ErrInternal
}
