package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harborline/loanserve/internal/models"
)

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, name, role, COALESCE(reset_token_hash, ''), created_at, updated_at
		FROM users
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.Name, &user.Role,
			&user.ResetTokenHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, name, role, COALESCE(reset_token_hash, ''), created_at, updated_at
		FROM users
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&user.ID, &user.Email, &user.Name, &user.Role,
			&user.ResetTokenHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// SetUserResetToken stores the bcrypt hash of a password-reset token.
func (r *Repository) SetUserResetToken(ctx context.Context, userID int64, tokenHash string) error {
	query := `
		UPDATE users
		SET reset_token_hash = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, userID, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
