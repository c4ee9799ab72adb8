package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/repository"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, user_id, action, entity_type, entity_id, changes,
			metadata, ip_address, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.UserID,
		log.Action,
		log.EntityType,
		log.EntityID,
		log.Changes,
		log.Metadata,
		log.IPAddress,
		log.UserAgent,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error) {
	query := `SELECT * FROM audit_logs WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if filters != nil {
		if filters.UserID != uuid.Nil {
			query += fmt.Sprintf(" AND user_id = $%d", idx)
			args = append(args, filters.UserID)
			idx++
		}
		if filters.EntityType != "" {
			query += fmt.Sprintf(" AND entity_type = $%d", idx)
			args = append(args, filters.EntityType)
			idx++
		}
		if filters.Action != "" {
			query += fmt.Sprintf(" AND action = $%d", idx)
			args = append(args, filters.Action)
			idx++
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND created_at >= $%d", idx)
			args = append(args, filters.StartDate)
			idx++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND created_at <= $%d", idx)
			args = append(args, filters.EndDate)
			idx++
		}
	}

	query += " ORDER BY created_at DESC"
	if filters != nil && filters.PageSize > 0 {
		offset := 0
		if filters.Page > 1 {
			offset = (filters.Page - 1) * filters.PageSize
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, filters.PageSize, offset)
	}

	var logs []*model.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

func (r *auditRepository) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM audit_logs WHERE created_at < $1`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup audit logs: %w", err)
	}
	return result.RowsAffected()
}
