package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/repository"
)

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) repository.TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *model.Token) error {
	query := `
		INSERT INTO tokens (id, user_id, token, type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	token.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.Token,
		token.Type,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

func (r *tokenRepository) GetByToken(ctx context.Context, token string, tokenType string) (*model.Token, error) {
	query := `
		SELECT * FROM tokens
		WHERE token = $1 AND type = $2 AND used_at IS NULL AND expires_at > NOW()
	`
	var t model.Token
	err := r.db.GetContext(ctx, &t, query, token, tokenType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("token not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &t, nil
}

func (r *tokenRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE tokens SET used_at = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *tokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM tokens WHERE expires_at < $1`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return result.RowsAffected()
}
