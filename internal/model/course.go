package model

import (
	"time"

	"github.com/google/uuid"
)

// Course is a resuscitation training course (BLS, PALS, NRP...).
type Course struct {
	Base
	Code           string `db:"code" json:"code"`
	Title          string `db:"title" json:"title"`
	Discipline     string `db:"discipline" json:"discipline"`
	ValidityMonths int    `db:"validity_months" json:"validity_months"`
	PassingScore   int    `db:"passing_score" json:"passing_score"`
	Active         bool   `db:"active" json:"active"`
}

type EnrollmentStatus string

const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentStatusPassed    EnrollmentStatus = "passed"
	EnrollmentStatusFailed    EnrollmentStatus = "failed"
	EnrollmentStatusWithdrawn EnrollmentStatus = "withdrawn"
)

// Enrollment tracks a provider taking a course.
type Enrollment struct {
	Base
	CourseID    uuid.UUID        `db:"course_id" json:"course_id"`
	UserID      uuid.UUID        `db:"user_id" json:"user_id"`
	Status      EnrollmentStatus `db:"status" json:"status"`
	Score       *int             `db:"score" json:"score,omitempty"`
	CompletedAt *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
}

type CreateCourseRequest struct {
	Code           string `json:"code" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Discipline     string `json:"discipline" binding:"required"`
	ValidityMonths int    `json:"validity_months" binding:"required,gt=0"`
	PassingScore   int    `json:"passing_score" binding:"required,gte=0,lte=100"`
}

type CompleteEnrollmentRequest struct {
	Score int `json:"score" binding:"gte=0,lte=100"`
}

type CourseFilters struct {
	Discipline string `form:"discipline"`
	Active     *bool  `form:"active"`
	Pagination
}
