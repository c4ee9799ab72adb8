package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/repository"
	"github.com/pedready/pedready-api/internal/service/audit"
)

type PatientService interface {
	CreatePatient(ctx context.Context, patient *model.Patient) (*model.Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
	ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
}

type Service struct {
	repo    repository.PatientRepository
	auditor *audit.Service
}

func NewService(repo repository.PatientRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) CreatePatient(ctx context.Context, patient *model.Patient) (*model.Patient, error) {
	if err := s.validatePatient(patient); err != nil {
		return nil, fmt.Errorf("invalid patient data: %w", err)
	}

	patient.ID = uuid.New()
	patient.Status = string(model.PatientStatusActive)
	patient.AgeMonths = ageInMonths(patient.DateOfBirth, time.Now())

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.auditor.Log(ctx, model.UserIDFromContext(ctx), model.AuditActionCreate, model.AuditEntityPatient, patient.ID, &audit.LogOptions{
		Changes: patient,
	})

	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	s.auditor.Log(ctx, model.UserIDFromContext(ctx), model.AuditActionRead, model.AuditEntityPatient, id, nil)
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.WeightKg != nil {
		patient.WeightKg = req.WeightKg
	}
	if req.Status != nil {
		patient.Status = *req.Status
	}
	if req.Notes != nil {
		patient.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	s.auditor.Log(ctx, model.UserIDFromContext(ctx), model.AuditActionUpdate, model.AuditEntityPatient, patient.ID, &audit.LogOptions{
		Changes: req,
	})

	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("failed to get patient: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	s.auditor.Log(ctx, model.UserIDFromContext(ctx), model.AuditActionDelete, model.AuditEntityPatient, id, nil)
	return nil
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) validatePatient(patient *model.Patient) error {
	if patient.FacilityID == uuid.Nil {
		return fmt.Errorf("facility ID is required")
	}
	if patient.ProviderID == uuid.Nil {
		return fmt.Errorf("provider ID is required")
	}
	if patient.FirstName == "" {
		return fmt.Errorf("first name is required")
	}
	if patient.LastName == "" {
		return fmt.Errorf("last name is required")
	}
	if patient.DateOfBirth.IsZero() {
		return fmt.Errorf("date of birth is required")
	}
	if patient.DateOfBirth.After(time.Now()) {
		return fmt.Errorf("date of birth cannot be in the future")
	}
	return nil
}

func ageInMonths(dob, now time.Time) int {
	months := (now.Year()-dob.Year())*12 + int(now.Month()) - int(dob.Month())
	if now.Day() < dob.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
