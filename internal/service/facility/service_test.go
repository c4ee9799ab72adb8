package facility

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

type fakeFacilityRepo struct {
	facilities map[uuid.UUID]*model.Facility
	reports    []*model.ReadinessReport
}

func newFakeFacilityRepo() *fakeFacilityRepo {
	return &fakeFacilityRepo{facilities: make(map[uuid.UUID]*model.Facility)}
}

func (f *fakeFacilityRepo) Create(ctx context.Context, fac *model.Facility) error {
	f.facilities[fac.ID] = fac
	return nil
}

func (f *fakeFacilityRepo) Get(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	fac, ok := f.facilities[id]
	if !ok {
		return nil, fmt.Errorf("facility not found")
	}
	return fac, nil
}

func (f *fakeFacilityRepo) Update(ctx context.Context, fac *model.Facility) error {
	f.facilities[fac.ID] = fac
	return nil
}

func (f *fakeFacilityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.facilities, id)
	return nil
}

func (f *fakeFacilityRepo) List(ctx context.Context) ([]*model.Facility, error) {
	var out []*model.Facility
	for _, fac := range f.facilities {
		out = append(out, fac)
	}
	return out, nil
}

func (f *fakeFacilityRepo) CreateReadinessReport(ctx context.Context, r *model.ReadinessReport) error {
	r.CreatedAt = time.Now()
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeFacilityRepo) GetLatestReadinessReport(ctx context.Context, facilityID uuid.UUID) (*model.ReadinessReport, error) {
	for i := len(f.reports) - 1; i >= 0; i-- {
		if f.reports[i].FacilityID == facilityID {
			return f.reports[i], nil
		}
	}
	return nil, fmt.Errorf("no readiness report")
}

type fakeAuditRepo struct{}

func (f *fakeAuditRepo) Create(ctx context.Context, l *model.AuditLog) error { return nil }
func (f *fakeAuditRepo) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error) {
	return nil, nil
}
func (f *fakeAuditRepo) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newTestService() (*Service, *fakeFacilityRepo) {
	repo := newFakeFacilityRepo()
	return NewService(repo, audit.NewService(&fakeAuditRepo{})), repo
}

func createFacility(t *testing.T, svc *Service) *model.Facility {
	t.Helper()
	fac, err := svc.Create(context.Background(), &model.CreateFacilityRequest{
		Name:         "Riverside Children's ED",
		Type:         "emergency_department",
		BedCount:     12,
		ContactEmail: "ed@riverside.example.org",
	})
	require.NoError(t, err)
	return fac
}

func TestSubmitReadiness_FullCoverage(t *testing.T) {
	svc, _ := newTestService()
	fac := createFacility(t, svc)

	result, err := svc.SubmitReadiness(context.Background(), fac.ID, uuid.New(), &model.SubmitReadinessRequest{
		EquipmentCoverage: 1,
		StaffingCoverage:  1,
		CertifiedRatio:    1,
		DrillsPerQuarter:  3,
	})
	require.NoError(t, err)

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, "accredited", result.Level)
	assert.Equal(t, fac.ID, result.FacilityID)
}

func TestSubmitReadiness_PartialCoverage(t *testing.T) {
	svc, _ := newTestService()
	fac := createFacility(t, svc)

	// 0.35*0.8 + 0.25*0.6 + 0.30*0.5 + 0.10*(1/3) = 0.6133 -> 61
	result, err := svc.SubmitReadiness(context.Background(), fac.ID, uuid.New(), &model.SubmitReadinessRequest{
		EquipmentCoverage: 0.8,
		StaffingCoverage:  0.6,
		CertifiedRatio:    0.5,
		DrillsPerQuarter:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, 61, result.Score)
	assert.Equal(t, "provisional", result.Level)
}

func TestSubmitReadiness_UnknownFacility(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SubmitReadiness(context.Background(), uuid.New(), uuid.New(), &model.SubmitReadinessRequest{})
	assert.Error(t, err)
}

func TestGetReadiness_UsesLatestReport(t *testing.T) {
	svc, _ := newTestService()
	fac := createFacility(t, svc)

	_, err := svc.SubmitReadiness(context.Background(), fac.ID, uuid.New(), &model.SubmitReadinessRequest{
		EquipmentCoverage: 0.2,
	})
	require.NoError(t, err)

	_, err = svc.SubmitReadiness(context.Background(), fac.ID, uuid.New(), &model.SubmitReadinessRequest{
		EquipmentCoverage: 1,
		StaffingCoverage:  1,
		CertifiedRatio:    1,
		DrillsPerQuarter:  5,
	})
	require.NoError(t, err)

	result, err := svc.GetReadiness(context.Background(), fac.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
}

func TestGetReadiness_NoReports(t *testing.T) {
	svc, _ := newTestService()
	fac := createFacility(t, svc)

	_, err := svc.GetReadiness(context.Background(), fac.ID)
	assert.Error(t, err)
}
