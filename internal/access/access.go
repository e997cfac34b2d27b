package access

import (
	"context"
	"fmt"

	"github.com/harborline/loanserve/internal/models"
	"github.com/sirupsen/logrus"
)

// OwnershipStore answers whether a borrower owns a loan.
type OwnershipStore interface {
	LoanOwnedBy(ctx context.Context, userID, loanID int64) (bool, error)
}

// Checker decides whether an identity may touch a loan. It must run before
// any loan-scoped read or write; callers treat false as 403, never 404.
type Checker struct {
	store OwnershipStore
	log   *logrus.Logger
}

// NewChecker initializes a new access checker
func NewChecker(store OwnershipStore, log *logrus.Logger) *Checker {
	return &Checker{store: store, log: log}
}

// CanAccessLoan reports whether the user may access the loan. Staff roles
// have blanket access with no lookup; borrowers must own the loan; any
// other role is denied.
func (c *Checker) CanAccessLoan(ctx context.Context, userID, loanID int64, role string) (bool, error) {
	switch role {
	case models.RoleServicer, models.RoleAdmin:
		return true, nil
	case models.RoleBorrower:
		owned, err := c.store.LoanOwnedBy(ctx, userID, loanID)
		if err != nil {
			return false, fmt.Errorf("failed to check loan ownership: %w", err)
		}
		if !owned {
			c.log.Warnf("Access denied: user %d does not own loan %d", userID, loanID)
		}
		return owned, nil
	default:
		c.log.Warnf("Access denied: unknown role %q for user %d", role, userID)
		return false, nil
	}
}
