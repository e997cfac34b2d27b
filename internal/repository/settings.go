package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harborline/loanserve/internal/models"
)

// LoadOrgConfig retrieves the single-row organization configuration, or
// ErrNotFound when no row has ever been written.
func (r *Repository) LoadOrgConfig(ctx context.Context) (*models.OrgConfig, error) {
	cfg := &models.OrgConfig{}
	query := `
		SELECT wire_bank_name, wire_routing_number, wire_account_number, wire_reference,
		       recording_fee, payoff_processing_fee
		FROM company_settings
		WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).
		Scan(&cfg.WireInstructions.BankName, &cfg.WireInstructions.RoutingNumber,
			&cfg.WireInstructions.AccountNumber, &cfg.WireInstructions.Reference,
			&cfg.FeeSchedule.RecordingFee, &cfg.FeeSchedule.PayoffProcessingFee)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load org config: %w", err)
	}
	return cfg, nil
}

// SaveOrgConfig upserts the single-row organization configuration.
func (r *Repository) SaveOrgConfig(ctx context.Context, cfg *models.OrgConfig) error {
	query := `
		INSERT INTO company_settings (id, wire_bank_name, wire_routing_number,
		                              wire_account_number, wire_reference,
		                              recording_fee, payoff_processing_fee, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE
		SET wire_bank_name = EXCLUDED.wire_bank_name,
		    wire_routing_number = EXCLUDED.wire_routing_number,
		    wire_account_number = EXCLUDED.wire_account_number,
		    wire_reference = EXCLUDED.wire_reference,
		    recording_fee = EXCLUDED.recording_fee,
		    payoff_processing_fee = EXCLUDED.payoff_processing_fee,
		    updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, query,
		cfg.WireInstructions.BankName, cfg.WireInstructions.RoutingNumber,
		cfg.WireInstructions.AccountNumber, cfg.WireInstructions.Reference,
		cfg.FeeSchedule.RecordingFee, cfg.FeeSchedule.PayoffProcessingFee)
	if err != nil {
		return fmt.Errorf("failed to save org config: %w", err)
	}
	return nil
}
