package models

import "time"

// Transaction types accepted by the ledger. Corrections are new transactions
// of a different type, never edits.
const (
	TransactionTypePayment      = "payment"
	TransactionTypeFee          = "fee"
	TransactionTypeAdjustment   = "adjustment"
	TransactionTypeDisbursement = "disbursement"
	TransactionTypeEscrowCredit = "escrow_credit"
)

// TransactionStatusCompleted is the only status a transaction ever has;
// there is no retry, reversal, or cancellation state.
const TransactionStatusCompleted = "completed"

// Transaction represents a financial transaction on a loan
type Transaction struct {
	ID             string    `json:"id"`
	LoanID         int64     `json:"loan_id"`
	IdempotencyKey string    `json:"-"`
	Type           string    `json:"type"`
	Amount         float64   `json:"amount"`
	Principal      float64   `json:"principal"`
	Interest       float64   `json:"interest"`
	Escrow         float64   `json:"escrow"`
	Status         string    `json:"status"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidTransactionType reports whether t is one of the accepted types.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypePayment, TransactionTypeFee, TransactionTypeAdjustment,
		TransactionTypeDisbursement, TransactionTypeEscrowCredit:
		return true
	}
	return false
}
