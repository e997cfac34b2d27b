package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harborline/loanserve/internal/models"
)

// FindTransactionByIdempotencyKey retrieves a transaction by its
// idempotency key, or ErrNotFound.
func (r *Repository) FindTransactionByIdempotencyKey(ctx context.Context, key string) (*models.Transaction, error) {
	tx := &models.Transaction{}
	query := `
		SELECT id, loan_id, idempotency_key, type, amount, principal, interest,
		       escrow, status, description, created_at
		FROM transactions
		WHERE idempotency_key = $1`
	err := r.db.QueryRowContext(ctx, query, key).
		Scan(&tx.ID, &tx.LoanID, &tx.IdempotencyKey, &tx.Type, &tx.Amount,
			&tx.Principal, &tx.Interest, &tx.Escrow, &tx.Status,
			&tx.Description, &tx.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return tx, nil
}

// InsertTransaction inserts a transaction row and, when applyPayment is set,
// applies the principal decrement and payment count to the loan in the same
// database transaction. The uniqueness constraint on idempotency_key is the
// final arbiter under concurrent inserts; a losing insert returns
// ErrDuplicate.
func (r *Repository) InsertTransaction(ctx context.Context, t *models.Transaction, applyPayment bool) error {
	dbTx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insert := `
		INSERT INTO transactions (id, loan_id, idempotency_key, type, amount,
		                          principal, interest, escrow, status, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err = dbTx.QueryRowContext(ctx, insert, t.ID, t.LoanID, t.IdempotencyKey,
		t.Type, t.Amount, t.Principal, t.Interest, t.Escrow, t.Status, t.Description).
		Scan(&t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if applyPayment {
		update := `
			UPDATE loans
			SET current_principal = current_principal - $2,
			    payments_made = payments_made + 1,
			    updated_at = CURRENT_TIMESTAMP
			WHERE id = $1`
		if _, err := dbTx.ExecContext(ctx, update, t.LoanID, t.Principal); err != nil {
			return fmt.Errorf("failed to apply payment to loan: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListTransactionsByLoan retrieves all transactions for a loan, newest first.
func (r *Repository) ListTransactionsByLoan(ctx context.Context, loanID int64) ([]models.Transaction, error) {
	query := `
		SELECT id, loan_id, idempotency_key, type, amount, principal, interest,
		       escrow, status, description, created_at
		FROM transactions
		WHERE loan_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.LoanID, &t.IdempotencyKey, &t.Type,
			&t.Amount, &t.Principal, &t.Interest, &t.Escrow, &t.Status,
			&t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}
