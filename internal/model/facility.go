package model

import (
	"time"

	"github.com/google/uuid"
)

type FacilityType string

const (
	FacilityTypeED     FacilityType = "emergency_department"
	FacilityTypeICU    FacilityType = "icu"
	FacilityTypeClinic FacilityType = "clinic"
)

type Facility struct {
	Base
	Name         string       `db:"name" json:"name"`
	Type         FacilityType `db:"type" json:"type"`
	BedCount     int          `db:"bed_count" json:"bed_count"`
	ContactEmail string       `db:"contact_email" json:"contact_email"`
	ContactPhone string       `db:"contact_phone" json:"contact_phone,omitempty"`
	Address      string       `db:"address" json:"address,omitempty"`
}

// ReadinessReport is a facility's self-reported coverage snapshot used
// by the accreditation scorer. Reports are append-only like vitals.
type ReadinessReport struct {
	ID                uuid.UUID `db:"id" json:"id"`
	FacilityID        uuid.UUID `db:"facility_id" json:"facility_id"`
	EquipmentCoverage float64   `db:"equipment_coverage" json:"equipment_coverage"`
	StaffingCoverage  float64   `db:"staffing_coverage" json:"staffing_coverage"`
	CertifiedRatio    float64   `db:"certified_ratio" json:"certified_ratio"`
	DrillsPerQuarter  int       `db:"drills_per_quarter" json:"drills_per_quarter"`
	ReportedBy        uuid.UUID `db:"reported_by" json:"reported_by"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// ReadinessResult is the scored view of the latest report.
type ReadinessResult struct {
	FacilityID uuid.UUID        `json:"facility_id"`
	Score      int              `json:"score"`
	Level      string           `json:"level"`
	Report     *ReadinessReport `json:"report"`
}

type CreateFacilityRequest struct {
	Name         string `json:"name" binding:"required"`
	Type         string `json:"type" binding:"required,oneof=emergency_department icu clinic"`
	BedCount     int    `json:"bed_count" binding:"gte=0"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
}

type SubmitReadinessRequest struct {
	EquipmentCoverage float64 `json:"equipment_coverage" binding:"gte=0,lte=1"`
	StaffingCoverage  float64 `json:"staffing_coverage" binding:"gte=0,lte=1"`
	CertifiedRatio    float64 `json:"certified_ratio" binding:"gte=0,lte=1"`
	DrillsPerQuarter  int     `json:"drills_per_quarter" binding:"gte=0"`
}
