package models

import "time"

// Roles recognized by the access layer. Any other value is denied.
const (
	RoleBorrower = "borrower"
	RoleServicer = "servicer"
	RoleAdmin    = "admin"
)

// User represents a borrower or staff member in the system
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	ResetTokenHash string    `json:"-"` // Not serialized
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Identity is the verified caller of a request, supplied by the external
// auth provider and immutable for the request's lifetime.
type Identity struct {
	UserID    int64
	Role      string
	SessionID string
}

// IsStaff reports whether the identity has blanket loan access.
func (i Identity) IsStaff() bool {
	return i.Role == RoleServicer || i.Role == RoleAdmin
}
