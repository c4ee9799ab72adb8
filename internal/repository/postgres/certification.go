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

var ErrCertificationNotFound = errors.New("certification not found")

type certificationRepository struct {
	db *sqlx.DB
}

func NewCertificationRepository(db *sqlx.DB) repository.CertificationRepository {
	return &certificationRepository{db: db}
}

func (r *certificationRepository) Create(ctx context.Context, cert *model.Certification) error {
	query := `
		INSERT INTO certifications (
			id, user_id, course_id, enrollment_id, verification_code,
			score, status, issued_at, expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	cert.CreatedAt = time.Now()
	cert.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		cert.ID,
		cert.UserID,
		cert.CourseID,
		cert.EnrollmentID,
		cert.VerificationCode,
		cert.Score,
		cert.Status,
		cert.IssuedAt,
		cert.ExpiresAt,
		cert.CreatedAt,
		cert.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create certification: %w", err)
	}
	return nil
}

func (r *certificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Certification, error) {
	query := `SELECT * FROM certifications WHERE id = $1`
	var cert model.Certification
	err := r.db.GetContext(ctx, &cert, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCertificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certification: %w", err)
	}
	return &cert, nil
}

func (r *certificationRepository) GetByVerificationCode(ctx context.Context, code string) (*model.Certification, error) {
	query := `SELECT * FROM certifications WHERE verification_code = $1`
	var cert model.Certification
	err := r.db.GetContext(ctx, &cert, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCertificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certification by code: %w", err)
	}
	return &cert, nil
}

func (r *certificationRepository) Update(ctx context.Context, cert *model.Certification) error {
	query := `
		UPDATE certifications
		SET status = $1, revoked_at = $2, revoke_reason = $3, updated_at = $4
		WHERE id = $5
	`
	cert.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		cert.Status,
		cert.RevokedAt,
		cert.RevokeReason,
		cert.UpdatedAt,
		cert.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update certification: %w", err)
	}
	return nil
}

func (r *certificationRepository) List(ctx context.Context, filters *model.CertificationFilters) ([]*model.Certification, error) {
	query := `SELECT * FROM certifications WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if filters != nil {
		if filters.UserID != uuid.Nil {
			query += fmt.Sprintf(" AND user_id = $%d", idx)
			args = append(args, filters.UserID)
			idx++
		}
		if filters.CourseID != uuid.Nil {
			query += fmt.Sprintf(" AND course_id = $%d", idx)
			args = append(args, filters.CourseID)
			idx++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", idx)
			args = append(args, filters.Status)
			idx++
		}
	}

	query += " ORDER BY issued_at DESC"

	var certs []*model.Certification
	if err := r.db.SelectContext(ctx, &certs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	return certs, nil
}

func (r *certificationRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*model.Certification, error) {
	query := `
		SELECT * FROM certifications
		WHERE status = $1 AND expires_at >= $2 AND expires_at < $3
		ORDER BY expires_at ASC
	`
	var certs []*model.Certification
	err := r.db.SelectContext(ctx, &certs, query, model.CertificationStatusActive, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring certifications: %w", err)
	}
	return certs, nil
}

func (r *certificationRepository) MarkExpiredBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE certifications
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND expires_at < $3
	`
	result, err := r.db.ExecContext(ctx, query,
		model.CertificationStatusExpired,
		model.CertificationStatusActive,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark expired certifications: %w", err)
	}
	return result.RowsAffected()
}
