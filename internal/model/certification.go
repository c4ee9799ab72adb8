package model

import (
	"time"

	"github.com/google/uuid"
)

type CertificationStatus string

const (
	CertificationStatusActive  CertificationStatus = "active"
	CertificationStatusExpired CertificationStatus = "expired"
	CertificationStatusRevoked CertificationStatus = "revoked"
)

// Certification is issued when a provider passes a course. The
// verification code is the public handle employers can check.
type Certification struct {
	Base
	UserID           uuid.UUID           `db:"user_id" json:"user_id"`
	CourseID         uuid.UUID           `db:"course_id" json:"course_id"`
	EnrollmentID     uuid.UUID           `db:"enrollment_id" json:"enrollment_id"`
	VerificationCode string              `db:"verification_code" json:"verification_code"`
	Score            int                 `db:"score" json:"score"`
	Status           CertificationStatus `db:"status" json:"status"`
	IssuedAt         time.Time           `db:"issued_at" json:"issued_at"`
	ExpiresAt        time.Time           `db:"expires_at" json:"expires_at"`
	RevokedAt        *time.Time          `db:"revoked_at" json:"revoked_at,omitempty"`
	RevokeReason     string              `db:"revoke_reason" json:"revoke_reason,omitempty"`
}

// VerificationResult is the public view returned by the verify
// endpoint. It intentionally omits internal identifiers.
type VerificationResult struct {
	Valid      bool      `json:"valid"`
	HolderName string    `json:"holder_name,omitempty"`
	CourseCode string    `json:"course_code,omitempty"`
	Status     string    `json:"status,omitempty"`
	IssuedAt   time.Time `json:"issued_at,omitempty"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
}

type RevokeCertificationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CertificationFilters struct {
	UserID   uuid.UUID           `form:"user_id"`
	CourseID uuid.UUID           `form:"course_id"`
	Status   CertificationStatus `form:"status"`
	Pagination
}
