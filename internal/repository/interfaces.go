package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pedready/pedready-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
}

type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	GetByToken(ctx context.Context, token string, tokenType string) (*model.Token, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
}

// VitalsRepository persists readings and their assessments. Readings
// are append-only; there are no update or delete methods.
type VitalsRepository interface {
	CreateReading(ctx context.Context, reading *model.VitalSignReading) error
	CreateAssessment(ctx context.Context, assessment *model.TriageAssessment) error
	ListReadings(ctx context.Context, patientID uuid.UUID, filters *model.VitalsFilters) ([]*model.VitalSignReading, error)
	GetLatest(ctx context.Context, patientID uuid.UUID) (*model.VitalSignReading, *model.TriageAssessment, error)
	GetAssessment(ctx context.Context, readingID uuid.UUID) (*model.TriageAssessment, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Get(ctx context.Context, id uuid.UUID) (*model.Course, error)
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	List(ctx context.Context, filters *model.CourseFilters) ([]*model.Course, error)

	CreateEnrollment(ctx context.Context, enrollment *model.Enrollment) error
	GetEnrollment(ctx context.Context, id uuid.UUID) (*model.Enrollment, error)
	GetActiveEnrollment(ctx context.Context, courseID, userID uuid.UUID) (*model.Enrollment, error)
	UpdateEnrollment(ctx context.Context, enrollment *model.Enrollment) error
	ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*model.Enrollment, error)
}

type CertificationRepository interface {
	Create(ctx context.Context, cert *model.Certification) error
	Get(ctx context.Context, id uuid.UUID) (*model.Certification, error)
	GetByVerificationCode(ctx context.Context, code string) (*model.Certification, error)
	Update(ctx context.Context, cert *model.Certification) error
	List(ctx context.Context, filters *model.CertificationFilters) ([]*model.Certification, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*model.Certification, error)
	MarkExpiredBefore(ctx context.Context, before time.Time) (int64, error)
}

type FacilityRepository interface {
	Create(ctx context.Context, facility *model.Facility) error
	Get(ctx context.Context, id uuid.UUID) (*model.Facility, error)
	Update(ctx context.Context, facility *model.Facility) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Facility, error)

	CreateReadinessReport(ctx context.Context, report *model.ReadinessReport) error
	GetLatestReadinessReport(ctx context.Context, facilityID uuid.UUID) (*model.ReadinessReport, error)
}

type AuditRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error)
	Cleanup(ctx context.Context, before time.Time) (int64, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
	MoveToDeadLetter(ctx context.Context, event *model.OutboxEvent) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
