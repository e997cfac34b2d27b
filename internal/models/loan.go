package models

import "time"

// Loan represents a serviced loan, owned by exactly one borrower
type Loan struct {
	ID               int64     `json:"id"`
	OwnerID          int64     `json:"owner_id"`
	LoanNumber       string    `json:"loan_number"`
	CurrentPrincipal float64   `json:"current_principal"`
	InterestRate     float64   `json:"interest_rate"`
	EscrowBalance    float64   `json:"escrow_balance"`
	PaymentsMade     int       `json:"payments_made"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LoanUpdate is a partial update to a loan. Only the fields listed here are
// mutable through the API; a nil field is left untouched.
type LoanUpdate struct {
	CurrentPrincipal *float64 `json:"current_principal,omitempty"`
	InterestRate     *float64 `json:"interest_rate,omitempty"`
	EscrowBalance    *float64 `json:"escrow_balance,omitempty"`
}

// Empty reports whether the update would change nothing.
func (u LoanUpdate) Empty() bool {
	return u.CurrentPrincipal == nil && u.InterestRate == nil && u.EscrowBalance == nil
}
