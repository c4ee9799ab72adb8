package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/pedready/pedready-api/config"
	"github.com/pedready/pedready-api/internal/email"
	"github.com/pedready/pedready-api/internal/repository/postgres"
	"github.com/pedready/pedready-api/internal/worker"
	"github.com/pedready/pedready-api/pkg/logger"
	"github.com/pedready/pedready-api/pkg/messaging/redis"
	"github.com/pedready/pedready-api/pkg/metrics"
	outboxworker "github.com/pedready/pedready-api/pkg/worker"
)

func setupHealthCheck(l *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			l.Fatal(err, "health check server failed")
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	l := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		l.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, l.ZL())
	if err != nil {
		l.Fatal(err, "failed to create Redis broker")
	}
	defer broker.Close()

	m := metrics.NewMetrics(cfg.Metrics.Namespace)

	outboxRepo := postgres.NewOutboxRepository(db)
	certRepo := postgres.NewCertificationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	courseRepo := postgres.NewCourseRepository(db)

	processor := outboxworker.NewOutboxProcessor(
		outboxRepo,
		broker,
		outboxworker.OutboxProcessorConfig{
			BatchSize:    cfg.Outbox.BatchSize,
			PollInterval: cfg.Outbox.PollInterval,
			MaxRetries:   cfg.Outbox.MaxRetries,
			RetryDelay:   cfg.Outbox.RetryDelay,
		},
		l,
		m,
	)

	emailSvc := email.NewSMTPService(cfg.SMTP)
	sweeper := worker.NewExpirySweeper(
		certRepo,
		userRepo,
		courseRepo,
		outboxRepo,
		emailSvc,
		m,
		*l.ZL(),
		worker.ExpirySweeperConfig{
			Schedule:         cfg.Certification.SweepSchedule,
			NotifyDaysBefore: cfg.Certification.NotifyDaysBefore,
		},
	)

	setupHealthCheck(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("shutting down...")
		cancel()
	}()

	go func() {
		if err := sweeper.Start(ctx); err != nil {
			l.Error(err, "expiry sweeper stopped")
		}
	}()

	processor.Start(ctx)
}
