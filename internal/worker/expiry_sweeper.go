package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/pedready/pedready-api/internal/email"
	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/repository"
	"github.com/pedready/pedready-api/pkg/metrics"
)

type ExpirySweeperConfig struct {
	Schedule         string
	NotifyDaysBefore int
}

// ExpirySweeper runs on a cron schedule, expiring certifications past
// their expiry date and notifying holders whose certifications expire
// within the notice window.
type ExpirySweeper struct {
	certRepo   repository.CertificationRepository
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	outboxRepo repository.OutboxRepository
	emailSvc   email.Service
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	config     ExpirySweeperConfig
	cron       *cron.Cron
}

func NewExpirySweeper(
	certRepo repository.CertificationRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	outboxRepo repository.OutboxRepository,
	emailSvc email.Service,
	m *metrics.Metrics,
	logger zerolog.Logger,
	config ExpirySweeperConfig,
) *ExpirySweeper {
	if config.Schedule == "" {
		config.Schedule = "0 2 * * *"
	}
	if config.NotifyDaysBefore == 0 {
		config.NotifyDaysBefore = 30
	}
	return &ExpirySweeper{
		certRepo:   certRepo,
		userRepo:   userRepo,
		courseRepo: courseRepo,
		outboxRepo: outboxRepo,
		emailSvc:   emailSvc,
		metrics:    m,
		logger:     logger,
		config:     config,
		cron:       cron.New(),
	}
}

func (s *ExpirySweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error().Err(err).Msg("certification expiry sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", s.config.Schedule).Msg("certification expiry sweeper started")

	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	return nil
}

// Sweep expires overdue certifications and sends expiry notices. Both
// halves are best-effort per certification so one bad row cannot
// block the rest.
func (s *ExpirySweeper) Sweep(ctx context.Context) error {
	now := time.Now()

	expired, err := s.certRepo.ListExpiringBetween(ctx, time.Time{}, now)
	if err != nil {
		return err
	}

	for _, cert := range expired {
		if payload, err := json.Marshal(cert); err == nil {
			if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
				EventType: model.EventCertificationExpired,
				Payload:   payload,
			}); err != nil {
				s.logger.Error().Err(err).Str("certification_id", cert.ID.String()).
					Msg("failed to create expiry event")
			}
		}
	}

	count, err := s.certRepo.MarkExpiredBefore(ctx, now)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info().Int64("count", count).Msg("expired certifications")
		if s.metrics != nil {
			s.metrics.CertificationsExpired.Add(float64(count))
		}
	}

	return s.notifyExpiring(ctx, now)
}

func (s *ExpirySweeper) notifyExpiring(ctx context.Context, now time.Time) error {
	window := now.AddDate(0, 0, s.config.NotifyDaysBefore)

	expiring, err := s.certRepo.ListExpiringBetween(ctx, now, window)
	if err != nil {
		return err
	}

	for _, cert := range expiring {
		user, err := s.userRepo.Get(ctx, cert.UserID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", cert.UserID.String()).
				Msg("failed to load certification holder")
			continue
		}

		course, err := s.courseRepo.Get(ctx, cert.CourseID)
		if err != nil {
			s.logger.Error().Err(err).Str("course_id", cert.CourseID.String()).
				Msg("failed to load course")
			continue
		}

		name := user.FirstName + " " + user.LastName
		if err := s.emailSvc.SendCertificationExpiryNotice(ctx, user.Email, name, cert, course.Title); err != nil {
			s.logger.Error().Err(err).Str("certification_id", cert.ID.String()).
				Msg("failed to send expiry notice")
		}
	}

	return nil
}
