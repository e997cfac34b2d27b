package access

import (
	"context"
	"io"
	"testing"

	"github.com/harborline/loanserve/internal/models"
	"github.com/sirupsen/logrus"
)

type fakeOwnershipStore struct {
	owned   map[[2]int64]bool
	lookups int
}

func (s *fakeOwnershipStore) LoanOwnedBy(_ context.Context, userID, loanID int64) (bool, error) {
	s.lookups++
	return s.owned[[2]int64{userID, loanID}], nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestCanAccessLoan_StaffHasBlanketAccessWithoutLookup(t *testing.T) {
	store := &fakeOwnershipStore{}
	checker := NewChecker(store, testLogger())

	for _, role := range []string{models.RoleServicer, models.RoleAdmin} {
		ok, err := checker.CanAccessLoan(context.Background(), 42, 7, role)
		if err != nil {
			t.Fatalf("check for %s: %v", role, err)
		}
		if !ok {
			t.Fatalf("expected %s to have access", role)
		}
	}
	if store.lookups != 0 {
		t.Fatalf("expected no ownership lookups for staff, got %d", store.lookups)
	}
}

func TestCanAccessLoan_BorrowerRequiresOwnership(t *testing.T) {
	store := &fakeOwnershipStore{owned: map[[2]int64]bool{{42, 7}: true}}
	checker := NewChecker(store, testLogger())

	ok, err := checker.CanAccessLoan(context.Background(), 42, 7, models.RoleBorrower)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !ok {
		t.Fatal("expected owning borrower to have access")
	}

	ok, err = checker.CanAccessLoan(context.Background(), 42, 8, models.RoleBorrower)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatal("expected non-owning borrower to be denied")
	}
}

func TestCanAccessLoan_UnknownRoleIsDenied(t *testing.T) {
	store := &fakeOwnershipStore{owned: map[[2]int64]bool{{42, 7}: true}}
	checker := NewChecker(store, testLogger())

	ok, err := checker.CanAccessLoan(context.Background(), 42, 7, "auditor")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatal("expected unknown role to be denied")
	}
	if store.lookups != 0 {
		t.Fatalf("expected no lookup for unknown role, got %d", store.lookups)
	}
}
