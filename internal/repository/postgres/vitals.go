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

type vitalsRepository struct {
	db *sqlx.DB
}

func NewVitalsRepository(db *sqlx.DB) repository.VitalsRepository {
	return &vitalsRepository{db: db}
}

func (r *vitalsRepository) CreateReading(ctx context.Context, reading *model.VitalSignReading) error {
	query := `
		INSERT INTO vital_sign_readings (
			id, patient_id, recorded_by, heart_rate, respiratory_rate,
			oxygen_saturation, temperature, systolic_bp, diastolic_bp,
			recorded_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	reading.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		reading.ID,
		reading.PatientID,
		reading.RecordedBy,
		reading.HeartRate,
		reading.RespiratoryRate,
		reading.OxygenSaturation,
		reading.Temperature,
		reading.SystolicBP,
		reading.DiastolicBP,
		reading.RecordedAt,
		reading.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vitals reading: %w", err)
	}
	return nil
}

func (r *vitalsRepository) CreateAssessment(ctx context.Context, assessment *model.TriageAssessment) error {
	query := `
		INSERT INTO triage_assessments (
			id, reading_id, patient_id, risk_score, severity,
			recommendation, band_table_version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	assessment.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		assessment.ID,
		assessment.ReadingID,
		assessment.PatientID,
		assessment.RiskScore,
		assessment.Severity,
		assessment.Recommendation,
		assessment.BandTableVersion,
		assessment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create triage assessment: %w", err)
	}
	return nil
}

func (r *vitalsRepository) ListReadings(ctx context.Context, patientID uuid.UUID, filters *model.VitalsFilters) ([]*model.VitalSignReading, error) {
	query := `SELECT * FROM vital_sign_readings WHERE patient_id = $1`
	args := []interface{}{patientID}
	idx := 2

	if filters != nil {
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND recorded_at >= $%d", idx)
			args = append(args, filters.StartDate)
			idx++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND recorded_at <= $%d", idx)
			args = append(args, filters.EndDate)
			idx++
		}
	}

	query += " ORDER BY recorded_at DESC"
	if filters != nil && filters.PageSize > 0 {
		offset := 0
		if filters.Page > 1 {
			offset = (filters.Page - 1) * filters.PageSize
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, filters.PageSize, offset)
	}

	var readings []*model.VitalSignReading
	if err := r.db.SelectContext(ctx, &readings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list vitals readings: %w", err)
	}
	return readings, nil
}

func (r *vitalsRepository) GetLatest(ctx context.Context, patientID uuid.UUID) (*model.VitalSignReading, *model.TriageAssessment, error) {
	query := `
		SELECT * FROM vital_sign_readings
		WHERE patient_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`
	var reading model.VitalSignReading
	err := r.db.GetContext(ctx, &reading, query, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("no readings for patient")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get latest reading: %w", err)
	}

	assessment, err := r.GetAssessment(ctx, reading.ID)
	if err != nil {
		return &reading, nil, nil
	}
	return &reading, assessment, nil
}

func (r *vitalsRepository) GetAssessment(ctx context.Context, readingID uuid.UUID) (*model.TriageAssessment, error) {
	query := `SELECT * FROM triage_assessments WHERE reading_id = $1`
	var assessment model.TriageAssessment
	err := r.db.GetContext(ctx, &assessment, query, readingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return &assessment, nil
}
