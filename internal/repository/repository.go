package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Storage errors matched by the layers above with errors.Is.
var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert loses to a uniqueness
	// constraint, e.g. a concurrent transaction with the same
	// idempotency key.
	ErrDuplicate = errors.New("duplicate row")
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
