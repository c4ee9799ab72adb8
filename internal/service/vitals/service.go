package vitals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/repository"
	"github.com/pedready/pedready-api/internal/service/audit"
	"github.com/pedready/pedready-api/internal/triage"
	"github.com/pedready/pedready-api/pkg/metrics"
	"github.com/pedready/pedready-api/pkg/validator"
)

var requestValidator = validator.New()

type VitalsService interface {
	RecordVitals(ctx context.Context, patientID, recordedBy uuid.UUID, req *model.RecordVitalsRequest) (*model.VitalsResponse, error)
	ListVitals(ctx context.Context, patientID uuid.UUID, filters *model.VitalsFilters) ([]*model.VitalSignReading, error)
	GetLatest(ctx context.Context, patientID uuid.UUID) (*model.VitalsResponse, error)
}

type Service struct {
	repo        repository.VitalsRepository
	patientRepo repository.PatientRepository
	outboxRepo  repository.OutboxRepository
	auditor     *audit.Service
	metrics     *metrics.Metrics
}

func NewService(repo repository.VitalsRepository, patientRepo repository.PatientRepository,
	outboxRepo repository.OutboxRepository, auditor *audit.Service, m *metrics.Metrics) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		outboxRepo:  outboxRepo,
		auditor:     auditor,
		metrics:     m,
	}
}

// RecordVitals persists an append-only reading, scores it, and stores
// the triage assessment alongside. A critical severity additionally
// emits a VITALS_CRITICAL outbox event for downstream alerting.
func (s *Service) RecordVitals(ctx context.Context, patientID, recordedBy uuid.UUID, req *model.RecordVitalsRequest) (*model.VitalsResponse, error) {
	if err := requestValidator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	reading := s.buildReading(patientID, recordedBy, req)
	if err := s.repo.CreateReading(ctx, reading); err != nil {
		return nil, fmt.Errorf("failed to record vitals: %w", err)
	}

	score, severity, recommendation := triage.Assess(triage.Reading{
		HeartRate:        reading.HeartRate,
		RespiratoryRate:  reading.RespiratoryRate,
		OxygenSaturation: reading.OxygenSaturation,
		Temperature:      reading.Temperature,
		SystolicBP:       reading.SystolicBP,
		DiastolicBP:      reading.DiastolicBP,
	})

	assessment := &model.TriageAssessment{
		ID:               uuid.New(),
		ReadingID:        reading.ID,
		PatientID:        patientID,
		RiskScore:        score,
		Severity:         string(severity),
		Recommendation:   recommendation,
		BandTableVersion: triage.BandTableVersion,
	}
	if err := s.repo.CreateAssessment(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to store assessment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.VitalsRecorded.WithLabelValues(string(severity)).Inc()
		s.metrics.RiskScoreDistribution.Observe(float64(score))
	}

	s.auditor.Log(ctx, recordedBy, model.AuditActionCreate, model.AuditEntityVitals, reading.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{
			"patient_id": patientID,
			"risk_score": score,
			"severity":   severity,
		},
	})

	s.emitEvents(ctx, reading, assessment)

	return &model.VitalsResponse{Reading: reading, Assessment: assessment}, nil
}

func (s *Service) ListVitals(ctx context.Context, patientID uuid.UUID, filters *model.VitalsFilters) ([]*model.VitalSignReading, error) {
	readings, err := s.repo.ListReadings(ctx, patientID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list vitals: %w", err)
	}
	return readings, nil
}

func (s *Service) GetLatest(ctx context.Context, patientID uuid.UUID) (*model.VitalsResponse, error) {
	reading, assessment, err := s.repo.GetLatest(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return &model.VitalsResponse{Reading: reading, Assessment: assessment}, nil
}

func (s *Service) buildReading(patientID, recordedBy uuid.UUID, req *model.RecordVitalsRequest) *model.VitalSignReading {
	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	var temperature *float64
	if req.Temperature != nil {
		t := req.Temperature.Float64()
		temperature = &t
	}

	return &model.VitalSignReading{
		ID:               uuid.New(),
		PatientID:        patientID,
		RecordedBy:       recordedBy,
		HeartRate:        req.HeartRate,
		RespiratoryRate:  req.RespiratoryRate,
		OxygenSaturation: req.OxygenSaturation,
		Temperature:      temperature,
		SystolicBP:       req.SystolicBP,
		DiastolicBP:      req.DiastolicBP,
		RecordedAt:       recordedAt,
	}
}

// emitEvents is best effort: the reading is already persisted and a
// missed event must not fail the request. Failures are still logged
// and counted so a dropped critical alert is visible.
func (s *Service) emitEvents(ctx context.Context, reading *model.VitalSignReading, assessment *model.TriageAssessment) {
	eventType := model.EventVitalsRecorded
	if assessment.Severity == string(triage.SeverityCritical) {
		eventType = model.EventVitalsCritical
	}

	payload, err := json.Marshal(model.VitalsResponse{Reading: reading, Assessment: assessment})
	if err != nil {
		s.reportDroppedEvent(eventType, reading.ID, err)
		return
	}

	if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}); err != nil {
		s.reportDroppedEvent(eventType, reading.ID, err)
	}
}

func (s *Service) reportDroppedEvent(eventType string, readingID uuid.UUID, err error) {
	log.Error().
		Err(err).
		Str("event_type", eventType).
		Str("reading_id", readingID.String()).
		Msg("failed to enqueue outbox event")

	if s.metrics != nil {
		s.metrics.OutboxEventsDropped.WithLabelValues(eventType).Inc()
	}
}
