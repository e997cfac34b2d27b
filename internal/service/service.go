package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/harborline/loanserve/internal/audit"
	"github.com/harborline/loanserve/internal/models"
	"github.com/harborline/loanserve/internal/payoff"
	"github.com/harborline/loanserve/internal/repository"
	"github.com/harborline/loanserve/internal/settings"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrValidation marks input rejected before any write.
var ErrValidation = errors.New("invalid input")

// Store is the slice of the repository the service needs.
type Store interface {
	FindLoanByID(ctx context.Context, loanID int64) (*models.Loan, error)
	UpdateLoanFields(ctx context.Context, loanID int64, update models.LoanUpdate) (*models.Loan, error)
	ListTransactionsByLoan(ctx context.Context, loanID int64) ([]models.Transaction, error)
	ListAuditEntries(ctx context.Context, loanID int64, limit int) ([]models.AuditLogEntry, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, userID int64) (*models.User, error)
	SetUserResetToken(ctx context.Context, userID int64, tokenHash string) error
	SaveOrgConfig(ctx context.Context, cfg *models.OrgConfig) error
}

// Mailer sends borrower-facing notifications. Delivery is best-effort for
// notifications attached to an already-committed mutation.
type Mailer interface {
	SendPasswordReset(to, name, token string) error
	SendPayoffNotification(to, name string, loanNumber string, total float64, goodThrough time.Time) error
}

// Service handles business logic above the trust-layer components.
type Service struct {
	store    Store
	audit    *audit.Recorder
	settings *settings.Cache
	mailer   Mailer
	log      *logrus.Logger
	now      func() time.Time
}

// NewService initializes a new service
func NewService(store Store, recorder *audit.Recorder, cache *settings.Cache, mailer Mailer, log *logrus.Logger) *Service {
	return &Service{
		store:    store,
		audit:    recorder,
		settings: cache,
		mailer:   mailer,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetLoan retrieves a loan. Access must already have been confirmed.
func (s *Service) GetLoan(ctx context.Context, loanID int64) (*models.Loan, error) {
	return s.store.FindLoanByID(ctx, loanID)
}

// ListTransactions retrieves a loan's transactions, newest first.
func (s *Service) ListTransactions(ctx context.Context, loanID int64) ([]models.Transaction, error) {
	return s.store.ListTransactionsByLoan(ctx, loanID)
}

// ListAuditEntries retrieves audit records for staff review.
func (s *Service) ListAuditEntries(ctx context.Context, loanID int64, limit int) ([]models.AuditLogEntry, error) {
	return s.store.ListAuditEntries(ctx, loanID, limit)
}

// UpdateLoan applies a partial update restricted to the allow-listed
// mutable fields, and records the change.
func (s *Service) UpdateLoan(ctx context.Context, loanID int64, update models.LoanUpdate, performedBy int64) (*models.Loan, error) {
	if update.Empty() {
		return nil, fmt.Errorf("%w: no updatable fields supplied", ErrValidation)
	}

	loan, err := s.store.UpdateLoanFields(ctx, loanID, update)
	if err != nil {
		return nil, err
	}

	details := map[string]any{}
	if update.CurrentPrincipal != nil {
		details["current_principal"] = *update.CurrentPrincipal
	}
	if update.InterestRate != nil {
		details["interest_rate"] = *update.InterestRate
	}
	if update.EscrowBalance != nil {
		details["escrow_balance"] = *update.EscrowBalance
	}
	s.audit.Record(ctx, audit.Entry{
		LoanID:      &loan.ID,
		Action:      audit.ActionLoanUpdated,
		Description: "loan fields updated",
		PerformedBy: performedBy,
		Details:     details,
	})
	s.log.Infof("Loan %d updated by user %d", loanID, performedBy)
	return loan, nil
}

// GeneratePayoffStatement computes a deterministic payoff breakdown using
// the cached fee schedule, records it, and notifies the borrower. The
// good-through date must not be in the past.
func (s *Service) GeneratePayoffStatement(ctx context.Context, loanID int64, goodThrough time.Time, performedBy int64) (*payoff.Breakdown, error) {
	loan, err := s.store.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	if goodThrough.Before(today.Truncate(24 * time.Hour)) {
		return nil, fmt.Errorf("%w: good-through date is in the past", ErrValidation)
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fee schedule: %w", err)
	}

	breakdown := payoff.Calculate(payoff.Input{
		CurrentPrincipal:   loan.CurrentPrincipal,
		AnnualInterestRate: loan.InterestRate,
		EscrowBalance:      loan.EscrowBalance,
		RecordingFee:       cfg.FeeSchedule.RecordingFee,
		ProcessingFee:      cfg.FeeSchedule.PayoffProcessingFee,
		Today:              today,
		GoodThrough:        goodThrough,
	})

	s.audit.Record(ctx, audit.Entry{
		LoanID:      &loan.ID,
		Action:      audit.ActionPayoffStatementCreated,
		Description: fmt.Sprintf("payoff statement good through %s", breakdown.GoodThroughDate),
		PerformedBy: performedBy,
		Details: map[string]any{
			"total_payoff":     breakdown.TotalPayoff,
			"accrued_interest": breakdown.AccruedInterest,
			"escrow_credit":    breakdown.EscrowCredit,
		},
	})

	if owner, err := s.store.FindUserByID(ctx, loan.OwnerID); err == nil {
		if err := s.mailer.SendPayoffNotification(owner.Email, owner.Name, loan.LoanNumber,
			breakdown.TotalPayoff, goodThrough); err != nil {
			s.log.Errorf("Failed to send payoff notification for loan %d: %v", loan.ID, err)
		}
	} else {
		s.log.Errorf("Failed to look up borrower for payoff notification: %v", err)
	}

	s.log.Infof("Payoff statement generated for loan %d, total %.2f", loan.ID, breakdown.TotalPayoff)
	return &breakdown, nil
}

// UpdateSettings writes the organization configuration and invalidates the
// cache so the next read reloads.
func (s *Service) UpdateSettings(ctx context.Context, cfg models.OrgConfig, performedBy int64) error {
	if err := s.store.SaveOrgConfig(ctx, &cfg); err != nil {
		return err
	}
	s.settings.Invalidate()

	s.audit.Record(ctx, audit.Entry{
		Action:      audit.ActionSettingsUpdated,
		Description: "organization settings updated",
		PerformedBy: performedBy,
		Details: map[string]any{
			"recording_fee":         cfg.FeeSchedule.RecordingFee,
			"payoff_processing_fee": cfg.FeeSchedule.PayoffProcessingFee,
		},
	})
	s.log.Infof("Organization settings updated by user %d", performedBy)
	return nil
}

// RequestPasswordReset issues a reset token for the account with the given
// email. The token is stored only as a bcrypt hash. An unknown email is
// reported as success to the caller to avoid account enumeration.
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.store.FindUserByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Infof("Password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash reset token: %w", err)
	}
	if err := s.store.SetUserResetToken(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(user.Email, user.Name, token); err != nil {
		s.log.Errorf("Failed to send password reset email: %v", err)
	}

	s.audit.Record(ctx, audit.Entry{
		Action:      audit.ActionPasswordResetRequested,
		Description: "password reset requested",
		PerformedBy: user.ID,
	})
	s.log.Infof("Password reset token issued for user %d", user.ID)
	return nil
}
