package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harborline/loanserve/internal/models"
)

// FindLoanByID retrieves a loan by id
func (r *Repository) FindLoanByID(ctx context.Context, loanID int64) (*models.Loan, error) {
	loan := &models.Loan{}
	query := `
		SELECT id, owner_id, loan_number, current_principal, interest_rate,
		       escrow_balance, payments_made, created_at, updated_at
		FROM loans
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, loanID).
		Scan(&loan.ID, &loan.OwnerID, &loan.LoanNumber, &loan.CurrentPrincipal,
			&loan.InterestRate, &loan.EscrowBalance, &loan.PaymentsMade,
			&loan.CreatedAt, &loan.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find loan: %w", err)
	}
	return loan, nil
}

// LoanOwnedBy reports whether the loan is owned by the given borrower.
func (r *Repository) LoanOwnedBy(ctx context.Context, userID, loanID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM loans WHERE id = $1 AND owner_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, loanID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check loan ownership: %w", err)
	}
	return exists, nil
}

// UpdateLoanFields applies a partial update to the fixed allow-list of
// mutable loan fields. Nil fields keep their current value via COALESCE;
// the statement itself never changes shape.
func (r *Repository) UpdateLoanFields(ctx context.Context, loanID int64, update models.LoanUpdate) (*models.Loan, error) {
	loan := &models.Loan{}
	query := `
		UPDATE loans
		SET current_principal = COALESCE($2, current_principal),
		    interest_rate     = COALESCE($3, interest_rate),
		    escrow_balance    = COALESCE($4, escrow_balance),
		    updated_at        = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id, owner_id, loan_number, current_principal, interest_rate,
		          escrow_balance, payments_made, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, loanID,
		update.CurrentPrincipal, update.InterestRate, update.EscrowBalance).
		Scan(&loan.ID, &loan.OwnerID, &loan.LoanNumber, &loan.CurrentPrincipal,
			&loan.InterestRate, &loan.EscrowBalance, &loan.PaymentsMade,
			&loan.CreatedAt, &loan.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}
	return loan, nil
}
