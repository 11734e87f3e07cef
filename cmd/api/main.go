package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/config"
	"github.com/jwalitptl/clinic-api/internal/email"
	appointmentHandler "github.com/jwalitptl/clinic-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/clinic-api/internal/handler/auth"
	clinicHandler "github.com/jwalitptl/clinic-api/internal/handler/clinic"
	doctorHandler "github.com/jwalitptl/clinic-api/internal/handler/doctor"
	"github.com/jwalitptl/clinic-api/internal/handler/health"
	"github.com/jwalitptl/clinic-api/internal/handler/page"
	patientHandler "github.com/jwalitptl/clinic-api/internal/handler/patient"
	"github.com/jwalitptl/clinic-api/internal/repository/postgres"
	"github.com/jwalitptl/clinic-api/internal/router"
	appointmentService "github.com/jwalitptl/clinic-api/internal/service/appointment"
	authService "github.com/jwalitptl/clinic-api/internal/service/auth"
	clinicService "github.com/jwalitptl/clinic-api/internal/service/clinic"
	doctorService "github.com/jwalitptl/clinic-api/internal/service/doctor"
	patientService "github.com/jwalitptl/clinic-api/internal/service/patient"
	"github.com/jwalitptl/clinic-api/internal/session"
	"github.com/jwalitptl/clinic-api/pkg/auth"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.Log)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	location, err := cfg.Schedule.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid schedule timezone")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	rdb, err := session.NewRedisClient(startCtx, cfg.Redis.URL)
	cancelStart()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(cfg.Metrics.Namespace, registry)

	// Repositories
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	clinicRepo := postgres.NewClinicRepository(base)
	membershipRepo := postgres.NewMembershipRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)

	// Sessions
	provider := session.NewProvider(auth.NewJWTService(cfg.Session.Secret), session.NewStore(rdb), cfg.Session.TTL, m)
	augmenter := session.NewAugmenter(membershipRepo)

	// Services
	authSvc := authService.NewService(
		userRepo,
		provider,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		email.NewService(cfg.SMTP),
		cfg.Auth,
		m,
	)
	clinicSvc := clinicService.NewService(clinicRepo)
	doctorSvc := doctorService.NewService(doctorRepo, m)
	patientSvc := patientService.NewService(patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, doctorRepo, patientRepo, location)

	r := router.NewRouter(
		router.RouterConfig{
			Mode:           cfg.Server.Mode,
			CookieName:     cfg.Session.CookieName,
			CookieSecure:   cfg.Session.CookieSecure,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			MaxBodyBytes:   cfg.Server.MaxBodyBytes,
			RateLimit:      cfg.RateLimit,
			Metrics:        cfg.Metrics,
		},
		router.Handlers{
			Auth:        authHandler.NewHandler(authSvc, cfg.Session),
			Clinic:      clinicHandler.NewHandler(clinicSvc),
			Doctor:      doctorHandler.NewHandler(doctorSvc),
			Patient:     patientHandler.NewHandler(patientSvc),
			Appointment: appointmentHandler.NewHandler(appointmentSvc),
			Page:        page.NewHandler(doctorSvc),
			Health:      health.NewHandler(db, rdb),
		},
		provider,
		augmenter,
		m,
		registry,
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited properly")
}
