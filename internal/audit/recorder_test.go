package audit

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/harborline/loanserve/internal/models"
	"github.com/sirupsen/logrus"
)

type fakeAuditStore struct {
	entries []models.AuditLogEntry
	err     error
}

func (s *fakeAuditStore) InsertAuditEntry(_ context.Context, e *models.AuditLogEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, *e)
	return nil
}

type fakeAlerter struct {
	subjects []string
}

func (a *fakeAlerter) SendOpsAlert(subject, _ string) error {
	a.subjects = append(a.subjects, subject)
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRecord_DerivesCategoryFromAction(t *testing.T) {
	cases := []struct {
		action Action
		want   string
	}{
		{ActionTransactionCreated, CategoryPayment},
		{ActionNoteAdded, CategoryInternal},
		{ActionTaskCompleted, CategoryInternal},
		{ActionMessageSent, CategoryCommunication},
		{ActionDocumentUploaded, CategoryDocument},
		{ActionDocumentViewed, CategoryDocument},
		{ActionLoanUpdated, CategoryLoan},
		{ActionPayoffStatementCreated, CategoryLoan},
		{ActionSettingsUpdated, CategoryLoan},
		{ActionPasswordResetRequested, CategorySecurity},
		{ActionPasswordResetCompleted, CategorySecurity},
	}

	for _, tc := range cases {
		store := &fakeAuditStore{}
		rec := NewRecorder(store, nil, testLogger())
		rec.Record(context.Background(), Entry{Action: tc.action, PerformedBy: 1})

		if len(store.entries) != 1 {
			t.Fatalf("%s: expected one entry, got %d", tc.action, len(store.entries))
		}
		if store.entries[0].Category != tc.want {
			t.Fatalf("%s: expected category %s, got %s", tc.action, tc.want, store.entries[0].Category)
		}
	}
}

func TestRecord_ExplicitCategoryWins(t *testing.T) {
	store := &fakeAuditStore{}
	rec := NewRecorder(store, nil, testLogger())

	rec.Record(context.Background(), Entry{
		Action:      ActionTransactionCreated,
		Category:    CategorySecurity,
		PerformedBy: 1,
	})
	if store.entries[0].Category != CategorySecurity {
		t.Fatalf("expected explicit category to win, got %s", store.entries[0].Category)
	}
}

func TestRecord_UnknownActionIsDroppedWithAlert(t *testing.T) {
	store := &fakeAuditStore{}
	alerter := &fakeAlerter{}
	rec := NewRecorder(store, alerter, testLogger())

	rec.Record(context.Background(), Entry{Action: Action("mystery"), PerformedBy: 1})
	if len(store.entries) != 0 {
		t.Fatalf("expected no entry for unknown action, got %d", len(store.entries))
	}
	if len(alerter.subjects) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerter.subjects))
	}
}

func TestRecord_StoreFailureAlertsAndDoesNotPanic(t *testing.T) {
	store := &fakeAuditStore{err: errors.New("connection refused")}
	alerter := &fakeAlerter{}
	rec := NewRecorder(store, alerter, testLogger())

	rec.Record(context.Background(), Entry{Action: ActionLoanUpdated, PerformedBy: 2})
	if len(alerter.subjects) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerter.subjects))
	}
}

func TestRecord_PopulatesIDAndTimestamp(t *testing.T) {
	store := &fakeAuditStore{}
	rec := NewRecorder(store, nil, testLogger())
	frozen := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return frozen }

	loanID := int64(7)
	rec.Record(context.Background(), Entry{
		Action:      ActionTransactionCreated,
		LoanID:      &loanID,
		PerformedBy: 3,
		ReferenceID: "tx-1",
		Details:     map[string]any{"amount": 125.50},
	})

	e := store.entries[0]
	if e.ID == "" {
		t.Fatal("expected generated id")
	}
	if !e.PerformedAt.Equal(frozen) {
		t.Fatalf("expected performedAt %s, got %s", frozen, e.PerformedAt)
	}
	if e.LoanID == nil || *e.LoanID != 7 {
		t.Fatalf("expected loan id 7, got %v", e.LoanID)
	}
}
