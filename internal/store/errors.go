package store

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for facts discovered inside a store operation. Callers
// match them with errors.Is and translate them into user-facing errors.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Entity-specific variants. Each one also matches its base sentinel.
var (
	ErrDonationNotFound = fmt.Errorf("donation %w", ErrNotFound)
	ErrNeedNotFound     = fmt.Errorf("need %w", ErrNotFound)
	ErrReportNotFound   = fmt.Errorf("report %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrDonationMatched   = fmt.Errorf("donation already matched: %w", ErrConflict)
	ErrNeedNotActive     = fmt.Errorf("need is not active: %w", ErrConflict)
	ErrDonationHasMatch  = fmt.Errorf("donation is referenced by a match: %w", ErrConflict)
	ErrNeedHasMatch      = fmt.Errorf("need is referenced by a match: %w", ErrConflict)
	ErrDuplicateUsername = fmt.Errorf("username already exists: %w", ErrConflict)
	ErrDuplicateEmail    = fmt.Errorf("email already registered: %w", ErrConflict)
)

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure
// on the given column (table.column), or on any column if column is empty.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return column == "" || strings.Contains(msg, column)
}

// isForeignKeyViolation reports whether err is a SQLite FOREIGN KEY
// constraint failure.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
