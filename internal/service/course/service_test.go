package course

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/service/audit"
	"github.com/pedready/pedready-api/internal/service/certification"
)

type fakeCourseRepo struct {
	courses     map[uuid.UUID]*model.Course
	enrollments map[uuid.UUID]*model.Enrollment
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:     make(map[uuid.UUID]*model.Course),
		enrollments: make(map[uuid.UUID]*model.Enrollment),
	}
}

func (f *fakeCourseRepo) Create(ctx context.Context, c *model.Course) error {
	f.courses[c.ID] = c
	return nil
}

func (f *fakeCourseRepo) Get(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, fmt.Errorf("course not found")
	}
	return c, nil
}

func (f *fakeCourseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	for _, c := range f.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, fmt.Errorf("course not found")
}

func (f *fakeCourseRepo) Update(ctx context.Context, c *model.Course) error {
	f.courses[c.ID] = c
	return nil
}

func (f *fakeCourseRepo) List(ctx context.Context, filters *model.CourseFilters) ([]*model.Course, error) {
	var out []*model.Course
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourseRepo) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	f.enrollments[e.ID] = e
	return nil
}

func (f *fakeCourseRepo) GetEnrollment(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, fmt.Errorf("enrollment not found")
	}
	return e, nil
}

func (f *fakeCourseRepo) GetActiveEnrollment(ctx context.Context, courseID, userID uuid.UUID) (*model.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.CourseID == courseID && e.UserID == userID && e.Status == model.EnrollmentStatusEnrolled {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeCourseRepo) UpdateEnrollment(ctx context.Context, e *model.Enrollment) error {
	f.enrollments[e.ID] = e
	return nil
}

func (f *fakeCourseRepo) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*model.Enrollment, error) {
	var out []*model.Enrollment
	for _, e := range f.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCertRepo struct {
	certs map[uuid.UUID]*model.Certification
}

func (f *fakeCertRepo) Create(ctx context.Context, c *model.Certification) error {
	f.certs[c.ID] = c
	return nil
}

func (f *fakeCertRepo) Get(ctx context.Context, id uuid.UUID) (*model.Certification, error) {
	c, ok := f.certs[id]
	if !ok {
		return nil, fmt.Errorf("certification not found")
	}
	return c, nil
}

func (f *fakeCertRepo) GetByVerificationCode(ctx context.Context, code string) (*model.Certification, error) {
	for _, c := range f.certs {
		if c.VerificationCode == code {
			return c, nil
		}
	}
	return nil, fmt.Errorf("certification not found")
}

func (f *fakeCertRepo) Update(ctx context.Context, c *model.Certification) error {
	f.certs[c.ID] = c
	return nil
}

func (f *fakeCertRepo) List(ctx context.Context, filters *model.CertificationFilters) ([]*model.Certification, error) {
	return nil, nil
}

func (f *fakeCertRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*model.Certification, error) {
	return nil, nil
}

func (f *fakeCertRepo) MarkExpiredBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct{}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error { return nil }
func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return &model.User{Base: model.Base{ID: id}, FirstName: "Ada", LastName: "Nwosu"}, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, fmt.Errorf("user not found")
}
func (f *fakeUserRepo) Update(ctx context.Context, u *model.User) error { return nil }
func (f *fakeUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

type fakeAuditRepo struct {
	logs []*model.AuditLog
}

func (f *fakeAuditRepo) Create(ctx context.Context, l *model.AuditLog) error {
	f.logs = append(f.logs, l)
	return nil
}
func (f *fakeAuditRepo) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error) {
	return nil, nil
}
func (f *fakeAuditRepo) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(ctx context.Context, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}
func (f *fakeOutboxRepo) GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error {
	return nil
}
func (f *fakeOutboxRepo) MoveToDeadLetter(ctx context.Context, e *model.OutboxEvent) error {
	return nil
}
func (f *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newTestService() (*Service, *fakeCourseRepo, *fakeOutboxRepo) {
	courseRepo := newFakeCourseRepo()
	certRepo := &fakeCertRepo{certs: make(map[uuid.UUID]*model.Certification)}
	outboxRepo := &fakeOutboxRepo{}
	auditor := audit.NewService(&fakeAuditRepo{})

	certSvc := certification.NewService(certRepo, &fakeUserRepo{}, courseRepo, outboxRepo, auditor, nil)
	svc := NewService(courseRepo, certSvc, auditor)
	return svc, courseRepo, outboxRepo
}

func createCourse(t *testing.T, svc *Service) *model.Course {
	t.Helper()
	course, err := svc.CreateCourse(context.Background(), &model.CreateCourseRequest{
		Code:           "PALS",
		Title:          "Pediatric Advanced Life Support",
		Discipline:     "pediatrics",
		ValidityMonths: 24,
		PassingScore:   84,
	})
	require.NoError(t, err)
	return course
}

func TestCreateCourse_AuditRecordsActor(t *testing.T) {
	courseRepo := newFakeCourseRepo()
	auditRepo := &fakeAuditRepo{}
	auditor := audit.NewService(auditRepo)
	certRepo := &fakeCertRepo{certs: make(map[uuid.UUID]*model.Certification)}
	certSvc := certification.NewService(certRepo, &fakeUserRepo{}, courseRepo, &fakeOutboxRepo{}, auditor, nil)
	svc := NewService(courseRepo, certSvc, auditor)

	actor := uuid.New()
	ctx := model.ContextWithUserID(context.Background(), actor)

	_, err := svc.CreateCourse(ctx, &model.CreateCourseRequest{
		Code:           "NRP",
		Title:          "Neonatal Resuscitation Program",
		Discipline:     "neonatology",
		ValidityMonths: 24,
		PassingScore:   84,
	})
	require.NoError(t, err)

	require.Len(t, auditRepo.logs, 1)
	assert.Equal(t, actor, auditRepo.logs[0].UserID)
	assert.Equal(t, model.AuditEntityCourse, auditRepo.logs[0].EntityType)
}

func TestCreateCourse_DuplicateCode(t *testing.T) {
	svc, _, _ := newTestService()
	createCourse(t, svc)

	_, err := svc.CreateCourse(context.Background(), &model.CreateCourseRequest{
		Code:           "PALS",
		Title:          "Duplicate",
		Discipline:     "pediatrics",
		ValidityMonths: 24,
		PassingScore:   84,
	})
	assert.ErrorContains(t, err, "already exists")
}

func TestEnroll_DuplicateActiveEnrollment(t *testing.T) {
	svc, _, _ := newTestService()
	course := createCourse(t, svc)
	userID := uuid.New()

	_, err := svc.Enroll(context.Background(), course.ID, userID)
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), course.ID, userID)
	assert.ErrorContains(t, err, "already enrolled")
}

func TestEnroll_InactiveCourse(t *testing.T) {
	svc, repo, _ := newTestService()
	course := createCourse(t, svc)
	course.Active = false
	repo.courses[course.ID] = course

	_, err := svc.Enroll(context.Background(), course.ID, uuid.New())
	assert.ErrorContains(t, err, "not open for enrollment")
}

func TestComplete_PassIssuesCertification(t *testing.T) {
	svc, _, outbox := newTestService()
	course := createCourse(t, svc)
	userID := uuid.New()

	enrollment, err := svc.Enroll(context.Background(), course.ID, userID)
	require.NoError(t, err)

	updated, cert, err := svc.Complete(context.Background(), enrollment.ID, 91)
	require.NoError(t, err)

	assert.Equal(t, model.EnrollmentStatusPassed, updated.Status)
	require.NotNil(t, updated.Score)
	assert.Equal(t, 91, *updated.Score)

	require.NotNil(t, cert)
	assert.Equal(t, userID, cert.UserID)
	assert.Equal(t, course.ID, cert.CourseID)
	assert.Equal(t, model.CertificationStatusActive, cert.Status)
	assert.NotEmpty(t, cert.VerificationCode)

	// 24 month validity window.
	wantExpiry := cert.IssuedAt.AddDate(0, 24, 0)
	assert.Equal(t, wantExpiry, cert.ExpiresAt)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventCertificationIssued, outbox.events[0].EventType)
}

func TestComplete_FailBelowPassingScore(t *testing.T) {
	svc, _, outbox := newTestService()
	course := createCourse(t, svc)

	enrollment, err := svc.Enroll(context.Background(), course.ID, uuid.New())
	require.NoError(t, err)

	updated, cert, err := svc.Complete(context.Background(), enrollment.ID, 83)
	require.NoError(t, err)

	assert.Equal(t, model.EnrollmentStatusFailed, updated.Status)
	assert.Nil(t, cert)
	assert.Empty(t, outbox.events)
}

func TestComplete_ExactPassingScore(t *testing.T) {
	svc, _, _ := newTestService()
	course := createCourse(t, svc)

	enrollment, err := svc.Enroll(context.Background(), course.ID, uuid.New())
	require.NoError(t, err)

	updated, cert, err := svc.Complete(context.Background(), enrollment.ID, 84)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentStatusPassed, updated.Status)
	assert.NotNil(t, cert)
}

func TestComplete_AlreadyCompleted(t *testing.T) {
	svc, _, _ := newTestService()
	course := createCourse(t, svc)

	enrollment, err := svc.Enroll(context.Background(), course.ID, uuid.New())
	require.NoError(t, err)

	_, _, err = svc.Complete(context.Background(), enrollment.ID, 90)
	require.NoError(t, err)

	_, _, err = svc.Complete(context.Background(), enrollment.ID, 95)
	assert.ErrorContains(t, err, "already passed")
}
