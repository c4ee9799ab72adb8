package certification

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/repository"
	"github.com/pedready/pedready-api/internal/service/audit"
	apperrors "github.com/pedready/pedready-api/pkg/errors"
	"github.com/pedready/pedready-api/pkg/metrics"
)

type CertificationService interface {
	Issue(ctx context.Context, enrollment *model.Enrollment, course *model.Course) (*model.Certification, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Certification, error)
	List(ctx context.Context, filters *model.CertificationFilters) ([]*model.Certification, error)
	Verify(ctx context.Context, code string) (*model.VerificationResult, error)
	Revoke(ctx context.Context, id uuid.UUID, reason string) error
}

type Service struct {
	repo       repository.CertificationRepository
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	outboxRepo repository.OutboxRepository
	auditor    *audit.Service
	metrics    *metrics.Metrics
}

func NewService(repo repository.CertificationRepository, userRepo repository.UserRepository,
	courseRepo repository.CourseRepository, outboxRepo repository.OutboxRepository,
	auditor *audit.Service, m *metrics.Metrics) *Service {
	return &Service{
		repo:       repo,
		userRepo:   userRepo,
		courseRepo: courseRepo,
		outboxRepo: outboxRepo,
		auditor:    auditor,
		metrics:    m,
	}
}

func (s *Service) Issue(ctx context.Context, enrollment *model.Enrollment, course *model.Course) (*model.Certification, error) {
	if enrollment.Score == nil {
		return nil, fmt.Errorf("enrollment has no score")
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	now := time.Now()
	cert := &model.Certification{
		Base: model.Base{
			ID: uuid.New(),
		},
		UserID:           enrollment.UserID,
		CourseID:         course.ID,
		EnrollmentID:     enrollment.ID,
		VerificationCode: code,
		Score:            *enrollment.Score,
		Status:           model.CertificationStatusActive,
		IssuedAt:         now,
		ExpiresAt:        now.AddDate(0, course.ValidityMonths, 0),
	}

	if err := s.repo.Create(ctx, cert); err != nil {
		return nil, fmt.Errorf("failed to create certification: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CertificationsIssued.Inc()
	}

	s.auditor.Log(ctx, enrollment.UserID, model.AuditActionCreate, model.AuditEntityCertification, cert.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"course_code": course.Code, "expires_at": cert.ExpiresAt},
	})

	s.emitIssuedEvent(ctx, cert)

	return cert, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Certification, error) {
	cert, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("certification", err)
	}
	return cert, nil
}

func (s *Service) List(ctx context.Context, filters *model.CertificationFilters) ([]*model.Certification, error) {
	return s.repo.List(ctx, filters)
}

// Verify resolves a public verification code. An unknown code returns
// an invalid result, not an error.
func (s *Service) Verify(ctx context.Context, code string) (*model.VerificationResult, error) {
	cert, err := s.repo.GetByVerificationCode(ctx, code)
	if err != nil {
		return &model.VerificationResult{Valid: false}, nil
	}

	status := cert.Status
	if status == model.CertificationStatusActive && time.Now().After(cert.ExpiresAt) {
		status = model.CertificationStatusExpired
	}

	result := &model.VerificationResult{
		Valid:     status == model.CertificationStatusActive,
		Status:    string(status),
		IssuedAt:  cert.IssuedAt,
		ExpiresAt: cert.ExpiresAt,
	}

	if user, err := s.userRepo.Get(ctx, cert.UserID); err == nil {
		result.HolderName = user.FirstName + " " + user.LastName
	}
	if course, err := s.courseRepo.Get(ctx, cert.CourseID); err == nil {
		result.CourseCode = course.Code
	}

	return result, nil
}

func (s *Service) Revoke(ctx context.Context, id uuid.UUID, reason string) error {
	cert, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("certification", err)
	}
	if cert.Status == model.CertificationStatusRevoked {
		return apperrors.Conflict("certification is already revoked", nil)
	}

	now := time.Now()
	cert.Status = model.CertificationStatusRevoked
	cert.RevokedAt = &now
	cert.RevokeReason = reason

	if err := s.repo.Update(ctx, cert); err != nil {
		return fmt.Errorf("failed to revoke certification: %w", err)
	}

	s.auditor.Log(ctx, cert.UserID, model.AuditActionRevoke, model.AuditEntityCertification, cert.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"reason": reason},
	})

	return nil
}

// emitIssuedEvent is best effort: the certification is already
// persisted. Failures are logged and counted, not returned.
func (s *Service) emitIssuedEvent(ctx context.Context, cert *model.Certification) {
	payload, err := json.Marshal(cert)
	if err == nil {
		err = s.outboxRepo.Create(ctx, &model.OutboxEvent{
			EventType: model.EventCertificationIssued,
			Payload:   payload,
		})
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("event_type", model.EventCertificationIssued).
			Str("certification_id", cert.ID.String()).
			Msg("failed to enqueue outbox event")

		if s.metrics != nil {
			s.metrics.OutboxEventsDropped.WithLabelValues(model.EventCertificationIssued).Inc()
		}
	}
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateVerificationCode() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, len(buf))
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return "PR-" + string(code[:5]) + "-" + string(code[5:]), nil
}
