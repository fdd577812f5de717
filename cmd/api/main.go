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

	"github.com/medconsult/consult-api/pkg/assets"
	"github.com/medconsult/consult-api/pkg/auth"
	"github.com/medconsult/consult-api/pkg/logger"
	"github.com/medconsult/consult-api/pkg/security"

	"github.com/medconsult/consult-api/internal/config"
	"github.com/medconsult/consult-api/internal/email"
	"github.com/medconsult/consult-api/internal/handler"
	authHandler "github.com/medconsult/consult-api/internal/handler/auth"
	doctorHandler "github.com/medconsult/consult-api/internal/handler/doctor"
	emrHandler "github.com/medconsult/consult-api/internal/handler/emr"
	"github.com/medconsult/consult-api/internal/i18n"
	"github.com/medconsult/consult-api/internal/middleware"
	"github.com/medconsult/consult-api/internal/repository/postgres"
	"github.com/medconsult/consult-api/internal/router"
	authService "github.com/medconsult/consult-api/internal/service/auth"
	doctorService "github.com/medconsult/consult-api/internal/service/doctor"
	emrService "github.com/medconsult/consult-api/internal/service/emr"
	reportService "github.com/medconsult/consult-api/internal/service/report"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	translator, err := i18n.NewTranslator(cfg.Report.LocaleDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load locale bundles")
	}

	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	emrRepo := postgres.NewEMRRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	hasher := security.NewBcryptHasher(12)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	emailSvc := email.NewService(cfg.SMTP, translator)
	logoFetcher := assets.NewHTTPFetcher(cfg.Report.LogoURL)

	policyFlags := emrService.PolicyFlags{
		StrictFields:             cfg.Policy.StrictFields,
		DoctorEditsPatientFields: cfg.Policy.DoctorEditsPatientFields,
	}

	authSvc := authService.NewService(userRepo, doctorRepo, hasher, jwtSvc)
	doctorSvc := doctorService.NewService(userRepo, doctorRepo, outboxRepo, hasher, appLogger)
	emrSvc := emrService.NewService(emrRepo, userRepo, outboxRepo, hasher, emailSvc, appLogger, policyFlags)
	reportSvc := reportService.NewService(emrRepo, outboxRepo, translator, logoFetcher, appLogger, cfg.Policy.RequirePaymentForReport)

	h := handler.NewHandler()

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	r := router.NewRouter(
		router.Config{
			RateLimit:  rate.Limit(cfg.Server.RateLimit),
			RateBurst:  cfg.Server.RateBurst,
			CORSConfig: corsConfig,
		},
		h,
		authHandler.NewHandler(authSvc),
		emrHandler.NewHandler(emrSvc, reportSvc),
		doctorHandler.NewHandler(doctorSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

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
