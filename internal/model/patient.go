package model

import (
	"time"

	"github.com/google/uuid"
)

type PatientStatus string

const (
	PatientStatusActive     PatientStatus = "active"
	PatientStatusDischarged PatientStatus = "discharged"
)

// Patient is a pediatric patient record. Weight is tracked because
// drug dosing and equipment sizing depend on it.
type Patient struct {
	Base
	FacilityID  uuid.UUID `db:"facility_id" json:"facility_id"`
	ProviderID  uuid.UUID `db:"provider_id" json:"provider_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth"`
	AgeMonths   int       `db:"age_months" json:"age_months"`
	Sex         string    `db:"sex" json:"sex"`
	WeightKg    *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	Status      string    `db:"status" json:"status"`
	Notes       string    `db:"notes" json:"notes,omitempty"`
}

type CreatePatientRequest struct {
	FacilityID  string    `json:"facility_id" binding:"required,uuid"`
	FirstName   string    `json:"first_name" binding:"required"`
	LastName    string    `json:"last_name" binding:"required"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	Sex         string    `json:"sex" binding:"required,oneof=male female other"`
	WeightKg    *float64  `json:"weight_kg" binding:"omitempty,gt=0"`
	Notes       string    `json:"notes"`
}

type UpdatePatientRequest struct {
	FirstName *string  `json:"first_name"`
	LastName  *string  `json:"last_name"`
	WeightKg  *float64 `json:"weight_kg" binding:"omitempty,gt=0"`
	Status    *string  `json:"status" binding:"omitempty,oneof=active discharged"`
	Notes     *string  `json:"notes"`
}

type PatientFilters struct {
	FacilityID uuid.UUID     `form:"facility_id"`
	ProviderID uuid.UUID     `form:"provider_id"`
	Status     PatientStatus `form:"status"`
	SearchTerm string        `form:"search_term"`
	Pagination
}
