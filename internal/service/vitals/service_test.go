package vitals

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
)

type fakeVitalsRepo struct {
	readings    []*model.VitalSignReading
	assessments []*model.TriageAssessment
}

func (f *fakeVitalsRepo) CreateReading(ctx context.Context, r *model.VitalSignReading) error {
	r.CreatedAt = time.Now()
	f.readings = append(f.readings, r)
	return nil
}

func (f *fakeVitalsRepo) CreateAssessment(ctx context.Context, a *model.TriageAssessment) error {
	a.CreatedAt = time.Now()
	f.assessments = append(f.assessments, a)
	return nil
}

func (f *fakeVitalsRepo) ListReadings(ctx context.Context, patientID uuid.UUID, filters *model.VitalsFilters) ([]*model.VitalSignReading, error) {
	var out []*model.VitalSignReading
	for _, r := range f.readings {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeVitalsRepo) GetLatest(ctx context.Context, patientID uuid.UUID) (*model.VitalSignReading, *model.TriageAssessment, error) {
	if len(f.readings) == 0 {
		return nil, nil, fmt.Errorf("no readings for patient")
	}
	reading := f.readings[len(f.readings)-1]
	for _, a := range f.assessments {
		if a.ReadingID == reading.ID {
			return reading, a, nil
		}
	}
	return reading, nil, nil
}

func (f *fakeVitalsRepo) GetAssessment(ctx context.Context, readingID uuid.UUID) (*model.TriageAssessment, error) {
	for _, a := range f.assessments {
		if a.ReadingID == readingID {
			return a, nil
		}
	}
	return nil, fmt.Errorf("assessment not found")
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error {
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient not found")
	}
	return p, nil
}

func (f *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (f *fakePatientRepo) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

type fakeOutboxRepo struct {
	events    []*model.OutboxEvent
	createErr error
}

func (f *fakeOutboxRepo) Create(ctx context.Context, e *model.OutboxEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
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

type fakeAuditRepo struct {
	logs []*model.AuditLog
}

func (f *fakeAuditRepo) Create(ctx context.Context, l *model.AuditLog) error {
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error) {
	return f.logs, nil
}

func (f *fakeAuditRepo) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func intPtr(v int) *int { return &v }

func decimalPtr(v float64) *model.Decimal {
	d := model.Decimal(v)
	return &d
}

func newTestService() (*Service, *fakeVitalsRepo, *fakePatientRepo, *fakeOutboxRepo) {
	vitalsRepo := &fakeVitalsRepo{}
	patientRepo := &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
	outboxRepo := &fakeOutboxRepo{}
	auditor := audit.NewService(&fakeAuditRepo{})

	svc := NewService(vitalsRepo, patientRepo, outboxRepo, auditor, nil)
	return svc, vitalsRepo, patientRepo, outboxRepo
}

func addPatient(repo *fakePatientRepo) uuid.UUID {
	id := uuid.New()
	repo.patients[id] = &model.Patient{
		Base:      model.Base{ID: id},
		FirstName: "Mia",
		Status:    string(model.PatientStatusActive),
	}
	return id
}

func TestRecordVitals_NormalReading(t *testing.T) {
	svc, repo, patientRepo, outbox := newTestService()
	patientID := addPatient(patientRepo)

	resp, err := svc.RecordVitals(context.Background(), patientID, uuid.New(), &model.RecordVitalsRequest{
		HeartRate:        intPtr(90),
		RespiratoryRate:  intPtr(18),
		OxygenSaturation: intPtr(98),
		Temperature:      decimalPtr(37.0),
		SystolicBP:       intPtr(100),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Assessment.RiskScore)
	assert.Equal(t, "low", resp.Assessment.Severity)
	assert.Equal(t, 1, resp.Assessment.BandTableVersion)
	assert.Len(t, repo.readings, 1)
	assert.Len(t, repo.assessments, 1)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventVitalsRecorded, outbox.events[0].EventType)
}

func TestRecordVitals_CriticalEmitsAlertEvent(t *testing.T) {
	svc, _, patientRepo, outbox := newTestService()
	patientID := addPatient(patientRepo)

	// HR 120 (10) + RR 35 (30) + SpO2 92 (15) + temp 39.5 (20) = 75
	resp, err := svc.RecordVitals(context.Background(), patientID, uuid.New(), &model.RecordVitalsRequest{
		HeartRate:        intPtr(120),
		RespiratoryRate:  intPtr(35),
		OxygenSaturation: intPtr(92),
		Temperature:      decimalPtr(39.5),
	})
	require.NoError(t, err)

	assert.Equal(t, 75, resp.Assessment.RiskScore)
	assert.Equal(t, "critical", resp.Assessment.Severity)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventVitalsCritical, outbox.events[0].EventType)
}

func TestRecordVitals_TemperatureConversion(t *testing.T) {
	svc, repo, patientRepo, _ := newTestService()
	patientID := addPatient(patientRepo)

	var req model.RecordVitalsRequest
	req.Temperature = decimalPtr(38.7)

	resp, err := svc.RecordVitals(context.Background(), patientID, uuid.New(), &req)
	require.NoError(t, err)

	require.NotNil(t, repo.readings[0].Temperature)
	assert.InDelta(t, 38.7, *repo.readings[0].Temperature, 1e-9)
	assert.Equal(t, 10, resp.Assessment.RiskScore)
}

func TestRecordVitals_OutboxFailureDoesNotFailRequest(t *testing.T) {
	svc, repo, patientRepo, outbox := newTestService()
	patientID := addPatient(patientRepo)
	outbox.createErr = fmt.Errorf("connection refused")

	resp, err := svc.RecordVitals(context.Background(), patientID, uuid.New(), &model.RecordVitalsRequest{
		HeartRate:        intPtr(120),
		RespiratoryRate:  intPtr(35),
		OxygenSaturation: intPtr(92),
		Temperature:      decimalPtr(39.5),
	})
	require.NoError(t, err)

	// Reading and assessment are persisted even though the alert
	// event could not be enqueued.
	assert.Equal(t, "critical", resp.Assessment.Severity)
	require.Len(t, repo.readings, 1)
	require.Len(t, repo.assessments, 1)
	assert.Empty(t, outbox.events)
}

func TestRecordVitals_ImplausibleTemperature(t *testing.T) {
	svc, repo, patientRepo, _ := newTestService()
	patientID := addPatient(patientRepo)

	var req model.RecordVitalsRequest
	req.Temperature = decimalPtr(98.6)

	_, err := svc.RecordVitals(context.Background(), patientID, uuid.New(), &req)
	require.Error(t, err)
	assert.Empty(t, repo.readings)
}

func TestRecordVitals_UnknownPatient(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.RecordVitals(context.Background(), uuid.New(), uuid.New(), &model.RecordVitalsRequest{
		HeartRate: intPtr(90),
	})
	assert.Error(t, err)
}

func TestRecordVitals_DefaultsRecordedAt(t *testing.T) {
	svc, repo, patientRepo, _ := newTestService()
	patientID := addPatient(patientRepo)

	before := time.Now()
	_, err := svc.RecordVitals(context.Background(), patientID, uuid.New(), &model.RecordVitalsRequest{
		HeartRate: intPtr(90),
	})
	require.NoError(t, err)

	recordedAt := repo.readings[0].RecordedAt
	assert.False(t, recordedAt.Before(before))
	assert.False(t, recordedAt.After(time.Now()))
}

func TestGetLatest(t *testing.T) {
	svc, _, patientRepo, _ := newTestService()
	patientID := addPatient(patientRepo)

	_, err := svc.RecordVitals(context.Background(), patientID, uuid.New(), &model.RecordVitalsRequest{
		OxygenSaturation: intPtr(83),
	})
	require.NoError(t, err)

	latest, err := svc.GetLatest(context.Background(), patientID)
	require.NoError(t, err)
	require.NotNil(t, latest.Assessment)
	assert.Equal(t, 40, latest.Assessment.RiskScore)
}
