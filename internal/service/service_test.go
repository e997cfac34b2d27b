package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/harborline/loanserve/internal/audit"
	"github.com/harborline/loanserve/internal/models"
	"github.com/harborline/loanserve/internal/repository"
	"github.com/harborline/loanserve/internal/settings"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	loans       map[int64]*models.Loan
	users       map[int64]*models.User
	usersByMail map[string]*models.User
	resetHashes map[int64]string
	savedConfig *models.OrgConfig
	configLoads int
}

func newFakeStore() *fakeStore {
	borrower := &models.User{ID: 42, Email: "b@example.com", Name: "Blake", Role: models.RoleBorrower}
	return &fakeStore{
		loans: map[int64]*models.Loan{
			7: {ID: 7, OwnerID: 42, LoanNumber: "LN-0007", CurrentPrincipal: 200000,
				InterestRate: 0.06, EscrowBalance: 500},
		},
		users:       map[int64]*models.User{42: borrower},
		usersByMail: map[string]*models.User{"b@example.com": borrower},
		resetHashes: map[int64]string{},
	}
}

func (s *fakeStore) FindLoanByID(_ context.Context, loanID int64) (*models.Loan, error) {
	if loan, ok := s.loans[loanID]; ok {
		cp := *loan
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) UpdateLoanFields(_ context.Context, loanID int64, update models.LoanUpdate) (*models.Loan, error) {
	loan, ok := s.loans[loanID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.CurrentPrincipal != nil {
		loan.CurrentPrincipal = *update.CurrentPrincipal
	}
	if update.InterestRate != nil {
		loan.InterestRate = *update.InterestRate
	}
	if update.EscrowBalance != nil {
		loan.EscrowBalance = *update.EscrowBalance
	}
	cp := *loan
	return &cp, nil
}

func (s *fakeStore) ListTransactionsByLoan(context.Context, int64) ([]models.Transaction, error) {
	return nil, nil
}

func (s *fakeStore) ListAuditEntries(context.Context, int64, int) ([]models.AuditLogEntry, error) {
	return nil, nil
}

func (s *fakeStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.usersByMail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) FindUserByID(_ context.Context, userID int64) (*models.User, error) {
	if u, ok := s.users[userID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) SetUserResetToken(_ context.Context, userID int64, hash string) error {
	s.resetHashes[userID] = hash
	return nil
}

func (s *fakeStore) SaveOrgConfig(_ context.Context, cfg *models.OrgConfig) error {
	cp := *cfg
	s.savedConfig = &cp
	return nil
}

func (s *fakeStore) LoadOrgConfig(context.Context) (*models.OrgConfig, error) {
	s.configLoads++
	if s.savedConfig == nil {
		return nil, repository.ErrNotFound
	}
	cp := *s.savedConfig
	return &cp, nil
}

type fakeAuditStore struct {
	entries []models.AuditLogEntry
}

func (s *fakeAuditStore) InsertAuditEntry(_ context.Context, e *models.AuditLogEntry) error {
	s.entries = append(s.entries, *e)
	return nil
}

type fakeMailer struct {
	resetTokens  []string
	payoffEmails []string
}

func (m *fakeMailer) SendPasswordReset(_, _, token string) error {
	m.resetTokens = append(m.resetTokens, token)
	return nil
}

func (m *fakeMailer) SendPayoffNotification(to, _ string, _ string, _ float64, _ time.Time) error {
	m.payoffEmails = append(m.payoffEmails, to)
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService() (*Service, *fakeStore, *fakeAuditStore, *fakeMailer) {
	store := newFakeStore()
	auditStore := &fakeAuditStore{}
	recorder := audit.NewRecorder(auditStore, nil, testLogger())
	cache := settings.NewCache(store, testLogger())
	mailer := &fakeMailer{}
	svc := NewService(store, recorder, cache, mailer, testLogger())
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC) }
	return svc, store, auditStore, mailer
}

func TestUpdateLoan_AppliesAllowListedFieldsAndAudits(t *testing.T) {
	svc, store, auditStore, _ := newTestService()

	rate := 0.055
	loan, err := svc.UpdateLoan(context.Background(), 7, models.LoanUpdate{InterestRate: &rate}, 9)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if loan.InterestRate != 0.055 {
		t.Fatalf("expected updated rate, got %.4f", loan.InterestRate)
	}
	if store.loans[7].CurrentPrincipal != 200000 {
		t.Fatal("expected untouched fields to keep their values")
	}
	if len(auditStore.entries) != 1 || auditStore.entries[0].Category != audit.CategoryLoan {
		t.Fatalf("expected one loan-category audit entry, got %+v", auditStore.entries)
	}
}

func TestUpdateLoan_RejectsEmptyUpdate(t *testing.T) {
	svc, _, auditStore, _ := newTestService()

	_, err := svc.UpdateLoan(context.Background(), 7, models.LoanUpdate{}, 9)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(auditStore.entries) != 0 {
		t.Fatal("expected no audit entry for rejected update")
	}
}

func TestGeneratePayoffStatement_UsesCachedFeesAndNotifies(t *testing.T) {
	svc, _, auditStore, mailer := newTestService()

	goodThrough := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC) // today + 30
	b, err := svc.GeneratePayoffStatement(context.Background(), 7, goodThrough, 42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if b.TotalPayoff != 200596.30 {
		t.Fatalf("expected total 200596.30, got %.2f", b.TotalPayoff)
	}
	if len(auditStore.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(auditStore.entries))
	}
	if len(mailer.payoffEmails) != 1 || mailer.payoffEmails[0] != "b@example.com" {
		t.Fatalf("expected borrower notification, got %v", mailer.payoffEmails)
	}
}

func TestGeneratePayoffStatement_RejectsPastDate(t *testing.T) {
	svc, _, _, _ := newTestService()

	past := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.GeneratePayoffStatement(context.Background(), 7, past, 42)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGeneratePayoffStatement_MissingLoan(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GeneratePayoffStatement(context.Background(), 999,
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), 42)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateSettings_SavesAndInvalidatesCache(t *testing.T) {
	svc, store, auditStore, _ := newTestService()

	// Prime the cache with defaults (no stored row yet).
	if _, err := svc.settings.Get(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	loadsBefore := store.configLoads

	cfg := models.OrgConfig{FeeSchedule: models.FeeSchedule{RecordingFee: 120, PayoffProcessingFee: 60}}
	if err := svc.UpdateSettings(context.Background(), cfg, 9); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	got, err := svc.settings.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if store.configLoads != loadsBefore+1 {
		t.Fatal("expected invalidate to force a reload")
	}
	if got.FeeSchedule.RecordingFee != 120 {
		t.Fatalf("expected new fee, got %.2f", got.FeeSchedule.RecordingFee)
	}
	if len(auditStore.entries) != 1 || auditStore.entries[0].LoanID != nil {
		t.Fatalf("expected one loan-less audit entry, got %+v", auditStore.entries)
	}
}

func TestRequestPasswordReset_StoresHashNotToken(t *testing.T) {
	svc, store, auditStore, mailer := newTestService()

	if err := svc.RequestPasswordReset(context.Background(), "b@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(mailer.resetTokens) != 1 {
		t.Fatalf("expected one reset email, got %d", len(mailer.resetTokens))
	}
	token := mailer.resetTokens[0]
	hash := store.resetHashes[42]
	if hash == "" || hash == token {
		t.Fatal("expected a stored hash distinct from the raw token")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		t.Fatalf("expected hash to match token: %v", err)
	}
	if len(auditStore.entries) != 1 || auditStore.entries[0].Category != audit.CategorySecurity {
		t.Fatalf("expected security audit entry, got %+v", auditStore.entries)
	}
}

func TestRequestPasswordReset_UnknownEmailIsSilentSuccess(t *testing.T) {
	svc, _, _, mailer := newTestService()

	if err := svc.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("expected silent success, got %v", err)
	}
	if len(mailer.resetTokens) != 0 {
		t.Fatal("expected no email for unknown address")
	}
}
