package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedready/pedready-api/internal/model"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return sqlx.NewDb(db, "postgres"), mock
}

func intPtr(v int) *int { return &v }

func TestCreateReading(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewVitalsRepository(db)

	reading := &model.VitalSignReading{
		ID:         uuid.New(),
		PatientID:  uuid.New(),
		RecordedBy: uuid.New(),
		HeartRate:  intPtr(120),
		RecordedAt: time.Now(),
	}

	mock.ExpectExec(`INSERT INTO vital_sign_readings`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateReading(context.Background(), reading)
	require.NoError(t, err)
	assert.False(t, reading.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAssessment(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewVitalsRepository(db)

	assessment := &model.TriageAssessment{
		ID:               uuid.New(),
		ReadingID:        uuid.New(),
		PatientID:        uuid.New(),
		RiskScore:        75,
		Severity:         "critical",
		Recommendation:   "immediate escalation",
		BandTableVersion: 1,
	}

	mock.ExpectExec(`INSERT INTO triage_assessments`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateAssessment(context.Background(), assessment)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReadings_WithDateFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewVitalsRepository(db)

	patientID := uuid.New()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	readingID := uuid.New()
	rows := sqlmock.NewRows([]string{
		"id", "patient_id", "recorded_by", "heart_rate", "respiratory_rate",
		"oxygen_saturation", "temperature", "systolic_bp", "diastolic_bp",
		"recorded_at", "created_at",
	}).AddRow(
		readingID, patientID, uuid.New(), 110, 24,
		96, 37.5, nil, nil,
		start.Add(time.Hour), start.Add(time.Hour),
	)

	mock.ExpectQuery(`SELECT \* FROM vital_sign_readings WHERE patient_id`).
		WithArgs(patientID, start, end).
		WillReturnRows(rows)

	readings, err := repo.ListReadings(context.Background(), patientID, &model.VitalsFilters{
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, readingID, readings[0].ID)
	require.NotNil(t, readings[0].HeartRate)
	assert.Equal(t, 110, *readings[0].HeartRate)
	assert.Nil(t, readings[0].SystolicBP)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAssessment_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewVitalsRepository(db)

	mock.ExpectQuery(`SELECT \* FROM triage_assessments WHERE reading_id`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetAssessment(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatest(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewVitalsRepository(db)

	patientID := uuid.New()
	readingID := uuid.New()
	now := time.Now()

	readingRows := sqlmock.NewRows([]string{
		"id", "patient_id", "recorded_by", "heart_rate", "respiratory_rate",
		"oxygen_saturation", "temperature", "systolic_bp", "diastolic_bp",
		"recorded_at", "created_at",
	}).AddRow(
		readingID, patientID, uuid.New(), 150, nil,
		nil, nil, nil, nil,
		now, now,
	)

	assessmentRows := sqlmock.NewRows([]string{
		"id", "reading_id", "patient_id", "risk_score", "severity",
		"recommendation", "band_table_version", "created_at",
	}).AddRow(
		uuid.New(), readingID, patientID, 30, "low",
		"routine monitoring", 1, now,
	)

	mock.ExpectQuery(`SELECT \* FROM vital_sign_readings`).
		WithArgs(patientID).
		WillReturnRows(readingRows)
	mock.ExpectQuery(`SELECT \* FROM triage_assessments WHERE reading_id`).
		WithArgs(readingID).
		WillReturnRows(assessmentRows)

	reading, assessment, err := repo.GetLatest(context.Background(), patientID)
	require.NoError(t, err)
	assert.Equal(t, readingID, reading.ID)
	require.NotNil(t, assessment)
	assert.Equal(t, 30, assessment.RiskScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}
