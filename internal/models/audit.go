package models

import "time"

// AuditLogEntry is one append-only audit record. Rows are never mutated
// after insertion.
type AuditLogEntry struct {
	ID          string         `json:"id"`
	LoanID      *int64         `json:"loan_id,omitempty"`
	ActionType  string         `json:"action_type"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	PerformedBy int64          `json:"performed_by"`
	ReferenceID string         `json:"reference_id,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	PerformedAt time.Time      `json:"performed_at"`
}
