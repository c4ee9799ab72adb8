package model

import (
	"time"

	"github.com/google/uuid"
)

// VitalSignReading is one set of measurements for a patient. Readings
// are append-only: every submission is a new row and rows are never
// updated or deleted.
type VitalSignReading struct {
	ID               uuid.UUID `db:"id" json:"id"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	RecordedBy       uuid.UUID `db:"recorded_by" json:"recorded_by"`
	HeartRate        *int      `db:"heart_rate" json:"heart_rate,omitempty"`
	RespiratoryRate  *int      `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
	OxygenSaturation *int      `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	Temperature      *float64  `db:"temperature" json:"temperature,omitempty"`
	SystolicBP       *int      `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP      *int      `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	RecordedAt       time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// TriageAssessment is the scorer output persisted with a reading.
type TriageAssessment struct {
	ID               uuid.UUID `db:"id" json:"id"`
	ReadingID        uuid.UUID `db:"reading_id" json:"reading_id"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	RiskScore        int       `db:"risk_score" json:"risk_score"`
	Severity         string    `db:"severity" json:"severity"`
	Recommendation   string    `db:"recommendation" json:"recommendation"`
	BandTableVersion int       `db:"band_table_version" json:"band_table_version"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// RecordVitalsRequest accepts a vitals form submission. Temperature is
// a Decimal because some clients send it string-encoded.
type RecordVitalsRequest struct {
	HeartRate        *int     `json:"heart_rate" binding:"omitempty,gte=0,lte=300"`
	RespiratoryRate  *int     `json:"respiratory_rate" binding:"omitempty,gte=0,lte=150"`
	OxygenSaturation *int     `json:"oxygen_saturation" binding:"omitempty,gte=0,lte=100"`
	Temperature      *Decimal `json:"temperature" binding:"omitempty" validate:"omitempty,body_temp"`
	SystolicBP       *int     `json:"systolic_bp" binding:"omitempty,gte=0,lte=300"`
	DiastolicBP      *int     `json:"diastolic_bp" binding:"omitempty,gte=0,lte=200"`
	RecordedAt       *time.Time `json:"recorded_at"`
}

// VitalsResponse bundles a reading with its assessment.
type VitalsResponse struct {
	Reading    *VitalSignReading `json:"reading"`
	Assessment *TriageAssessment `json:"assessment"`
}

type VitalsFilters struct {
	StartDate time.Time `form:"start_date"`
	EndDate   time.Time `form:"end_date"`
	Pagination
}
