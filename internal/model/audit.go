package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id" db:"entity_id"`
	Changes    json.RawMessage `json:"changes" db:"changes"`
	Metadata   json.RawMessage `json:"metadata" db:"metadata"`
	IPAddress  string          `json:"ip_address" db:"ip_address"`
	UserAgent  string          `json:"user_agent" db:"user_agent"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

const (
	// Action types
	AuditActionCreate = "create"
	AuditActionRead   = "read"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
	AuditActionLogin  = "login"
	AuditActionRevoke = "revoke"

	// Entity types
	AuditEntityUser          = "user"
	AuditEntityPatient       = "patient"
	AuditEntityVitals        = "vital_sign_reading"
	AuditEntityCourse        = "course"
	AuditEntityEnrollment    = "enrollment"
	AuditEntityCertification = "certification"
	AuditEntityFacility      = "facility"
)

type AuditFilters struct {
	UserID     uuid.UUID `form:"user_id"`
	EntityType string    `form:"entity_type"`
	Action     string    `form:"action"`
	StartDate  time.Time `form:"start_date"`
	EndDate    time.Time `form:"end_date"`
	Pagination
}
