package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harborline/loanserve/internal/models"
)

// InsertAuditEntry appends one audit record. The audit_log table is
// append-only: no update or delete method exists.
func (r *Repository) InsertAuditEntry(ctx context.Context, e *models.AuditLogEntry) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
		INSERT INTO audit_log (id, loan_id, action_type, category, description,
		                       performed_by, reference_id, details, performed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.ExecContext(ctx, query, e.ID, e.LoanID, e.ActionType,
		e.Category, e.Description, e.PerformedBy, nullableString(e.ReferenceID),
		details, e.PerformedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries retrieves audit records, newest first. A zero loanID
// returns entries across all loans (including entries with no loan).
func (r *Repository) ListAuditEntries(ctx context.Context, loanID int64, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, loan_id, action_type, category, description, performed_by,
		       COALESCE(reference_id, ''), details, performed_at
		FROM audit_log
		WHERE ($1 = 0 OR loan_id = $1)
		ORDER BY performed_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, loanID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var e models.AuditLogEntry
		var details []byte
		if err := rows.Scan(&e.ID, &e.LoanID, &e.ActionType, &e.Category,
			&e.Description, &e.PerformedBy, &e.ReferenceID, &details,
			&e.PerformedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit details: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
