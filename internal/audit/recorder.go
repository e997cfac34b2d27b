package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harborline/loanserve/internal/metrics"
	"github.com/harborline/loanserve/internal/models"
	"github.com/sirupsen/logrus"
)

// Store appends audit rows. Append-only: there is deliberately no update
// or delete in this contract.
type Store interface {
	InsertAuditEntry(ctx context.Context, e *models.AuditLogEntry) error
}

// Alerter delivers operational alerts when an audit write fails after its
// primary mutation already committed.
type Alerter interface {
	SendOpsAlert(subject, body string) error
}

// Entry describes one mutation to be recorded. Category may be left empty
// to derive it from the action.
type Entry struct {
	LoanID      *int64
	Action      Action
	Category    string
	Description string
	PerformedBy int64
	ReferenceID string
	Details     map[string]any
}

// Recorder writes the append-only audit trail. Writes are best-effort by
// policy: a failed audit write never rolls back or fails the mutation it
// describes; it is logged, counted, and alerted instead.
type Recorder struct {
	store   Store
	alerter Alerter
	log     *logrus.Logger
	now     func() time.Time
}

// NewRecorder initializes a new audit recorder. alerter may be nil when no
// ops alerting is configured.
func NewRecorder(store Store, alerter Alerter, log *logrus.Logger) *Recorder {
	return &Recorder{
		store:   store,
		alerter: alerter,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Record appends one audit entry for a committed mutation. Callers must
// invoke it exactly once per executed mutation and not at all on
// idempotent replays that skipped the mutation.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	category := e.Category
	if category == "" {
		derived, err := e.Action.Category()
		if err != nil {
			r.fail(fmt.Errorf("failed to categorize audit entry: %w", err), e)
			return
		}
		category = derived
	}

	row := &models.AuditLogEntry{
		ID:          uuid.NewString(),
		LoanID:      e.LoanID,
		ActionType:  string(e.Action),
		Category:    category,
		Description: e.Description,
		PerformedBy: e.PerformedBy,
		ReferenceID: e.ReferenceID,
		Details:     e.Details,
		PerformedAt: r.now(),
	}
	if err := r.store.InsertAuditEntry(ctx, row); err != nil {
		r.fail(fmt.Errorf("failed to write audit entry: %w", err), e)
		return
	}
	r.log.Debugf("Audit entry recorded: action=%s category=%s by=%d", e.Action, category, e.PerformedBy)
}

func (r *Recorder) fail(err error, e Entry) {
	metrics.AuditWriteFailures.Inc()
	r.log.Errorf("Audit write failed (mutation already committed): %v action=%s by=%d",
		err, e.Action, e.PerformedBy)
	if r.alerter == nil {
		return
	}
	body := fmt.Sprintf(
		"An audit trail write failed after its mutation committed.\n\nAction: %s\nPerformed by: %d\nError: %v\n",
		e.Action, e.PerformedBy, err)
	if alertErr := r.alerter.SendOpsAlert("Audit write failure", body); alertErr != nil {
		r.log.Errorf("Failed to send audit failure alert: %v", alertErr)
	}
}
