package facility

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pedready/pedready-api/internal/accreditation"
	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/repository"
	"github.com/pedready/pedready-api/internal/service/audit"
	apperrors "github.com/pedready/pedready-api/pkg/errors"
)

type FacilityService interface {
	Create(ctx context.Context, req *model.CreateFacilityRequest) (*model.Facility, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Facility, error)
	Update(ctx context.Context, facility *model.Facility) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Facility, error)
	SubmitReadiness(ctx context.Context, facilityID, reporterID uuid.UUID, req *model.SubmitReadinessRequest) (*model.ReadinessResult, error)
	GetReadiness(ctx context.Context, facilityID uuid.UUID) (*model.ReadinessResult, error)
}

type Service struct {
	repo    repository.FacilityRepository
	auditor *audit.Service
}

func NewService(repo repository.FacilityRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, req *model.CreateFacilityRequest) (*model.Facility, error) {
	facility := &model.Facility{
		Base:         model.Base{ID: uuid.New()},
		Name:         req.Name,
		Type:         model.FacilityType(req.Type),
		BedCount:     req.BedCount,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
	}

	if err := s.repo.Create(ctx, facility); err != nil {
		return nil, fmt.Errorf("failed to create facility: %w", err)
	}
	return facility, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	facility, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("facility", err)
	}
	return facility, nil
}

func (s *Service) Update(ctx context.Context, facility *model.Facility) error {
	if _, err := s.repo.Get(ctx, facility.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, facility)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Facility, error) {
	return s.repo.List(ctx)
}

// SubmitReadiness appends a new readiness report and returns its
// scored result. Earlier reports are kept for trend queries.
func (s *Service) SubmitReadiness(ctx context.Context, facilityID, reporterID uuid.UUID, req *model.SubmitReadinessRequest) (*model.ReadinessResult, error) {
	if _, err := s.repo.Get(ctx, facilityID); err != nil {
		return nil, apperrors.NotFound("facility", err)
	}

	report := &model.ReadinessReport{
		ID:                uuid.New(),
		FacilityID:        facilityID,
		EquipmentCoverage: req.EquipmentCoverage,
		StaffingCoverage:  req.StaffingCoverage,
		CertifiedRatio:    req.CertifiedRatio,
		DrillsPerQuarter:  req.DrillsPerQuarter,
		ReportedBy:        reporterID,
	}

	if err := s.repo.CreateReadinessReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create readiness report: %w", err)
	}

	s.auditor.Log(ctx, reporterID, model.AuditActionCreate, model.AuditEntityFacility, facilityID, &audit.LogOptions{
		Metadata: map[string]interface{}{"report_id": report.ID},
	})

	return scoreReport(report), nil
}

func (s *Service) GetReadiness(ctx context.Context, facilityID uuid.UUID) (*model.ReadinessResult, error) {
	if _, err := s.repo.Get(ctx, facilityID); err != nil {
		return nil, apperrors.NotFound("facility", err)
	}

	report, err := s.repo.GetLatestReadinessReport(ctx, facilityID)
	if err != nil {
		return nil, apperrors.NotFound("readiness report", err)
	}

	return scoreReport(report), nil
}

func scoreReport(report *model.ReadinessReport) *model.ReadinessResult {
	score := accreditation.Score(accreditation.Inputs{
		EquipmentCoverage: report.EquipmentCoverage,
		StaffingCoverage:  report.StaffingCoverage,
		CertifiedRatio:    report.CertifiedRatio,
		DrillsPerQuarter:  report.DrillsPerQuarter,
	})

	return &model.ReadinessResult{
		FacilityID: report.FacilityID,
		Score:      score,
		Level:      string(accreditation.LevelFor(score)),
		Report:     report,
	}
}
