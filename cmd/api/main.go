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

	"github.com/clinio/clinio-api/config"
	"github.com/clinio/clinio-api/internal/email"
	"github.com/clinio/clinio-api/internal/handler"
	appointmentHandler "github.com/clinio/clinio-api/internal/handler/appointment"
	authHandler "github.com/clinio/clinio-api/internal/handler/auth"
	doctorHandler "github.com/clinio/clinio-api/internal/handler/doctor"
	patientHandler "github.com/clinio/clinio-api/internal/handler/patient"
	"github.com/clinio/clinio-api/internal/middleware"
	"github.com/clinio/clinio-api/internal/repository/postgres"
	"github.com/clinio/clinio-api/internal/router"
	accountService "github.com/clinio/clinio-api/internal/service/account"
	appointmentService "github.com/clinio/clinio-api/internal/service/appointment"
	authService "github.com/clinio/clinio-api/internal/service/auth"
	doctorService "github.com/clinio/clinio-api/internal/service/doctor"
	schedulingService "github.com/clinio/clinio-api/internal/service/scheduling"
	pkgauth "github.com/clinio/clinio-api/pkg/auth"
	"github.com/clinio/clinio-api/pkg/logger"
	"github.com/clinio/clinio-api/pkg/messaging"
	redisbroker "github.com/clinio/clinio-api/pkg/messaging/redis"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := postgres.InitSchema(initCtx, db); err != nil {
		initCancel()
		log.Fatal().Err(err).Msg("failed to initialize schema")
	}
	initCancel()

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(db, cfg.Database.TxTimeout)
	appointmentRepo := postgres.NewAppointmentRepository(db, cfg.Database.TxTimeout)

	// Initialize Redis message broker when configured
	var broker messaging.Publisher
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewBroker(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	mailer := email.NewNoop()
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPService(cfg.SMTP)
	}

	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.TTL)

	// Initialize services
	accountSvc := accountService.NewService(accountRepo)
	authSvc := authService.NewService(accountRepo, jwtSvc)
	appointmentSvc := appointmentService.NewService(appointmentRepo, accountRepo, broker, mailer)
	schedulingSvc := schedulingService.NewService(appointmentRepo)
	doctorSvc := doctorService.NewService(accountRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(accountSvc, authSvc),
		doctorHandler.NewHandler(doctorSvc, schedulingSvc, appointmentSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		patientHandler.NewHandler(appointmentSvc),
		handler.NewHandler(db),
		router.Config{
			RateLimit:      cfg.RateLimit,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
