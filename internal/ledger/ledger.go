package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harborline/loanserve/internal/audit"
	"github.com/harborline/loanserve/internal/metrics"
	"github.com/harborline/loanserve/internal/models"
	"github.com/harborline/loanserve/internal/repository"
	"github.com/sirupsen/logrus"
)

// ErrValidation marks a request rejected before any write.
var ErrValidation = errors.New("invalid transaction input")

// Store is the slice of the repository the ledger needs. InsertTransaction
// must enforce idempotency-key uniqueness in storage and return
// repository.ErrDuplicate on a losing concurrent insert.
type Store interface {
	FindTransactionByIdempotencyKey(ctx context.Context, key string) (*models.Transaction, error)
	FindLoanByID(ctx context.Context, loanID int64) (*models.Loan, error)
	InsertTransaction(ctx context.Context, t *models.Transaction, applyPayment bool) error
}

// Input is the payload for a new transaction.
type Input struct {
	LoanID      int64   `json:"loan_id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Principal   float64 `json:"principal"`
	Interest    float64 `json:"interest"`
	Escrow      float64 `json:"escrow"`
	Description string  `json:"description"`
}

// Ledger creates financial transactions exactly once per idempotency key.
type Ledger struct {
	store Store
	audit *audit.Recorder
	log   *logrus.Logger
}

// NewLedger initializes a new transaction ledger
func NewLedger(store Store, recorder *audit.Recorder, log *logrus.Logger) *Ledger {
	return &Ledger{store: store, audit: recorder, log: log}
}

// CreateTransaction creates a transaction for the given idempotency key, or
// returns the existing one. The second return value reports whether a row
// was created by this call; a replay is a success, not an error. Payment
// transactions decrement loan principal and increment paymentsMade within
// the same storage transaction as the insert.
func (l *Ledger) CreateTransaction(ctx context.Context, idempotencyKey string, in Input, performedBy int64) (*models.Transaction, bool, error) {
	if idempotencyKey == "" {
		return nil, false, fmt.Errorf("%w: idempotency key is required", ErrValidation)
	}

	existing, err := l.store.FindTransactionByIdempotencyKey(ctx, idempotencyKey)
	if err == nil {
		metrics.IdempotentReplays.Inc()
		l.log.Infof("Transaction replayed for idempotency key %s: %s", idempotencyKey, existing.ID)
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up idempotency key: %w", err)
	}

	if err := validate(in); err != nil {
		return nil, false, err
	}
	if _, err := l.store.FindLoanByID(ctx, in.LoanID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: loan %d does not exist", ErrValidation, in.LoanID)
		}
		return nil, false, fmt.Errorf("failed to look up loan: %w", err)
	}

	tx := &models.Transaction{
		ID:             uuid.NewString(),
		LoanID:         in.LoanID,
		IdempotencyKey: idempotencyKey,
		Type:           in.Type,
		Amount:         in.Amount,
		Principal:      in.Principal,
		Interest:       in.Interest,
		Escrow:         in.Escrow,
		Status:         models.TransactionStatusCompleted,
		Description:    in.Description,
		CreatedAt:      time.Now().UTC(),
	}
	applyPayment := in.Type == models.TransactionTypePayment

	if err := l.store.InsertTransaction(ctx, tx, applyPayment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race on the uniqueness constraint: return the
			// winner's row as a replay.
			winner, findErr := l.store.FindTransactionByIdempotencyKey(ctx, idempotencyKey)
			if findErr != nil {
				return nil, false, fmt.Errorf("failed to fetch winning transaction: %w", findErr)
			}
			metrics.IdempotentReplays.Inc()
			l.log.Infof("Concurrent insert lost for key %s, returning winner %s", idempotencyKey, winner.ID)
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("failed to create transaction: %w", err)
	}

	l.audit.Record(ctx, audit.Entry{
		LoanID:      &tx.LoanID,
		Action:      audit.ActionTransactionCreated,
		Description: fmt.Sprintf("%s transaction of %.2f created", tx.Type, tx.Amount),
		PerformedBy: performedBy,
		ReferenceID: tx.ID,
		Details: map[string]any{
			"amount":    tx.Amount,
			"principal": tx.Principal,
			"interest":  tx.Interest,
			"escrow":    tx.Escrow,
			"type":      tx.Type,
		},
	})
	l.log.Infof("Transaction created: %s loan=%d type=%s amount=%.2f", tx.ID, tx.LoanID, tx.Type, tx.Amount)
	return tx, true, nil
}

func validate(in Input) error {
	if in.LoanID == 0 {
		return fmt.Errorf("%w: loan id is required", ErrValidation)
	}
	if !models.ValidTransactionType(in.Type) {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, in.Type)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	return nil
}
