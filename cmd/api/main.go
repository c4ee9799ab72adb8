package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/pedready/pedready-api/config"
	auditHandler "github.com/pedready/pedready-api/internal/handler/audit"
	authHandler "github.com/pedready/pedready-api/internal/handler/auth"
	certHandler "github.com/pedready/pedready-api/internal/handler/certification"
	courseHandler "github.com/pedready/pedready-api/internal/handler/course"
	facilityHandler "github.com/pedready/pedready-api/internal/handler/facility"
	healthHandler "github.com/pedready/pedready-api/internal/handler/health"
	patientHandler "github.com/pedready/pedready-api/internal/handler/patient"
	promHandler "github.com/pedready/pedready-api/internal/handler/prometheus"
	"github.com/pedready/pedready-api/internal/middleware"
	"github.com/pedready/pedready-api/internal/repository/postgres"
	"github.com/pedready/pedready-api/internal/router"
	auditService "github.com/pedready/pedready-api/internal/service/audit"
	authService "github.com/pedready/pedready-api/internal/service/auth"
	certService "github.com/pedready/pedready-api/internal/service/certification"
	courseService "github.com/pedready/pedready-api/internal/service/course"
	facilityService "github.com/pedready/pedready-api/internal/service/facility"
	patientService "github.com/pedready/pedready-api/internal/service/patient"
	vitalsService "github.com/pedready/pedready-api/internal/service/vitals"
	"github.com/pedready/pedready-api/pkg/auth"
	"github.com/pedready/pedready-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics(cfg.Metrics.Namespace)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	vitalsRepo := postgres.NewVitalsRepository(db)
	courseRepo := postgres.NewCourseRepository(db)
	certRepo := postgres.NewCertificationRepository(db)
	facilityRepo := postgres.NewFacilityRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	auditSvc := auditService.NewService(auditRepo)
	authSvc := authService.NewService(userRepo, tokenRepo, jwtSvc, auditSvc)
	patientSvc := patientService.NewService(patientRepo, auditSvc)
	vitalsSvc := vitalsService.NewService(vitalsRepo, patientRepo, outboxRepo, auditSvc, m)
	certSvc := certService.NewService(certRepo, userRepo, courseRepo, outboxRepo, auditSvc, m)
	courseSvc := courseService.NewService(courseRepo, certSvc, auditSvc)
	facilitySvc := facilityService.NewService(facilityRepo, auditSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	handlers := router.Handlers{
		Health:        healthHandler.NewHandler(db),
		Prometheus:    promHandler.New(),
		Auth:          authHandler.NewHandler(authSvc),
		Patient:       patientHandler.NewHandler(patientSvc, vitalsSvc),
		Course:        courseHandler.NewHandler(courseSvc),
		Certification: certHandler.NewHandler(certSvc),
		Facility:      facilityHandler.NewHandler(facilitySvc),
		Audit:         auditHandler.NewHandler(auditSvc),
	}

	r := router.NewRouter(authMiddleware, handlers, router.Config{
		RateLimit:  rate.Limit(cfg.RateLimit.RPS),
		RateBurst:  cfg.RateLimit.Burst,
		CORSConfig: middleware.DefaultCORSConfig(),
		CacheTTL:   time.Minute,
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
