package course

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/repository"
	"github.com/pedready/pedready-api/internal/service/audit"
	"github.com/pedready/pedready-api/internal/service/certification"
)

type CourseService interface {
	CreateCourse(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error)
	ListCourses(ctx context.Context, filters *model.CourseFilters) ([]*model.Course, error)
	Enroll(ctx context.Context, courseID, userID uuid.UUID) (*model.Enrollment, error)
	Complete(ctx context.Context, enrollmentID uuid.UUID, score int) (*model.Enrollment, *model.Certification, error)
	ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*model.Enrollment, error)
}

type Service struct {
	repo    repository.CourseRepository
	certSvc *certification.Service
	auditor *audit.Service
}

func NewService(repo repository.CourseRepository, certSvc *certification.Service, auditor *audit.Service) *Service {
	return &Service{repo: repo, certSvc: certSvc, auditor: auditor}
}

func (s *Service) CreateCourse(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	if existing, _ := s.repo.GetByCode(ctx, req.Code); existing != nil {
		return nil, fmt.Errorf("course code %s already exists", req.Code)
	}

	course := &model.Course{
		Base: model.Base{
			ID: uuid.New(),
		},
		Code:           req.Code,
		Title:          req.Title,
		Discipline:     req.Discipline,
		ValidityMonths: req.ValidityMonths,
		PassingScore:   req.PassingScore,
		Active:         true,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.auditor.Log(ctx, model.UserIDFromContext(ctx), model.AuditActionCreate, model.AuditEntityCourse, course.ID, &audit.LogOptions{
		Changes: course,
	})

	return course, nil
}

func (s *Service) GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListCourses(ctx context.Context, filters *model.CourseFilters) ([]*model.Course, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Enroll(ctx context.Context, courseID, userID uuid.UUID) (*model.Enrollment, error) {
	course, err := s.repo.Get(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if !course.Active {
		return nil, fmt.Errorf("course %s is not open for enrollment", course.Code)
	}

	if existing, err := s.repo.GetActiveEnrollment(ctx, courseID, userID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("already enrolled in course %s", course.Code)
	}

	enrollment := &model.Enrollment{
		Base: model.Base{
			ID: uuid.New(),
		},
		CourseID: courseID,
		UserID:   userID,
		Status:   model.EnrollmentStatusEnrolled,
	}

	if err := s.repo.CreateEnrollment(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.auditor.Log(ctx, userID, model.AuditActionCreate, model.AuditEntityEnrollment, enrollment.ID, nil)
	return enrollment, nil
}

// Complete records a final score for an enrollment. Passing scores
// issue a certification valid for the course's validity window.
func (s *Service) Complete(ctx context.Context, enrollmentID uuid.UUID, score int) (*model.Enrollment, *model.Certification, error) {
	enrollment, err := s.repo.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enrollment.Status != model.EnrollmentStatusEnrolled {
		return nil, nil, fmt.Errorf("enrollment is already %s", enrollment.Status)
	}

	course, err := s.repo.Get(ctx, enrollment.CourseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get course: %w", err)
	}

	now := time.Now()
	enrollment.Score = &score
	enrollment.CompletedAt = &now
	if score >= course.PassingScore {
		enrollment.Status = model.EnrollmentStatusPassed
	} else {
		enrollment.Status = model.EnrollmentStatusFailed
	}

	if err := s.repo.UpdateEnrollment(ctx, enrollment); err != nil {
		return nil, nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	s.auditor.Log(ctx, enrollment.UserID, model.AuditActionUpdate, model.AuditEntityEnrollment, enrollment.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"score": score, "status": enrollment.Status},
	})

	var cert *model.Certification
	if enrollment.Status == model.EnrollmentStatusPassed {
		cert, err = s.certSvc.Issue(ctx, enrollment, course)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to issue certification: %w", err)
		}
	}

	return enrollment, cert, nil
}

func (s *Service) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*model.Enrollment, error) {
	return s.repo.ListEnrollments(ctx, userID)
}
