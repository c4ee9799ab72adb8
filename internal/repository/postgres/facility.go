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

type facilityRepository struct {
	db *sqlx.DB
}

func NewFacilityRepository(db *sqlx.DB) repository.FacilityRepository {
	return &facilityRepository{db: db}
}

func (r *facilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	query := `
		INSERT INTO facilities (
			id, name, type, bed_count, contact_email, contact_phone,
			address, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	facility.CreatedAt = time.Now()
	facility.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		facility.ID,
		facility.Name,
		facility.Type,
		facility.BedCount,
		facility.ContactEmail,
		facility.ContactPhone,
		facility.Address,
		facility.CreatedAt,
		facility.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create facility: %w", err)
	}
	return nil
}

func (r *facilityRepository) Get(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	query := `SELECT * FROM facilities WHERE id = $1 AND deleted_at IS NULL`
	var facility model.Facility
	err := r.db.GetContext(ctx, &facility, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("facility not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get facility: %w", err)
	}
	return &facility, nil
}

func (r *facilityRepository) Update(ctx context.Context, facility *model.Facility) error {
	query := `
		UPDATE facilities
		SET name = $1, type = $2, bed_count = $3, contact_email = $4,
			contact_phone = $5, address = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL
	`
	facility.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		facility.Name,
		facility.Type,
		facility.BedCount,
		facility.ContactEmail,
		facility.ContactPhone,
		facility.Address,
		facility.UpdatedAt,
		facility.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update facility: %w", err)
	}
	return nil
}

func (r *facilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE facilities SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *facilityRepository) List(ctx context.Context) ([]*model.Facility, error) {
	query := `SELECT * FROM facilities WHERE deleted_at IS NULL ORDER BY name ASC`
	var facilities []*model.Facility
	if err := r.db.SelectContext(ctx, &facilities, query); err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	return facilities, nil
}

func (r *facilityRepository) CreateReadinessReport(ctx context.Context, report *model.ReadinessReport) error {
	query := `
		INSERT INTO readiness_reports (
			id, facility_id, equipment_coverage, staffing_coverage,
			certified_ratio, drills_per_quarter, reported_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	report.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.FacilityID,
		report.EquipmentCoverage,
		report.StaffingCoverage,
		report.CertifiedRatio,
		report.DrillsPerQuarter,
		report.ReportedBy,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create readiness report: %w", err)
	}
	return nil
}

func (r *facilityRepository) GetLatestReadinessReport(ctx context.Context, facilityID uuid.UUID) (*model.ReadinessReport, error) {
	query := `
		SELECT * FROM readiness_reports
		WHERE facility_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var report model.ReadinessReport
	err := r.db.GetContext(ctx, &report, query, facilityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no readiness report for facility")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get readiness report: %w", err)
	}
	return &report, nil
}
