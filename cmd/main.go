package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"jobly/apperror"
	"jobly/domain"
	"jobly/infrastructure"
	"jobly/interfaces"
)

const tokenTTL = 24 * time.Hour

func main() {
	// Load .env
	_ = godotenv.Load()

	cfg, err := infrastructure.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := infrastructure.NewLogger(cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Schema, then pool
	if err := infrastructure.Migrate(cfg.DatabaseURL, log); err != nil {
		log.WithError(err).Fatal("migrate database")
	}
	pool, err := infrastructure.NewPostgresPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	defer pool.Close()

	companies := infrastructure.NewCompanyRepository(pool)
	jobs := infrastructure.NewJobRepository(pool)
	users := infrastructure.NewUserRepository(pool, cfg.BcryptCost)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		seedAdmin(ctx, users, cfg, log)
	}

	// RabbitMQ is optional
	var notifier domain.ApplicationNotifier = infrastructure.LogNotifier{Log: log}
	if cfg.RabbitMQURL != "" {
		rmq, err := infrastructure.NewRabbitMQ(cfg.RabbitMQURL, log)
		if err != nil {
			log.WithError(err).Fatal("connect rabbitmq")
		}
		defer rmq.Close()

		err = rmq.ConsumeApplications(func(event domain.ApplicationEvent) {
			log.WithFields(logrus.Fields{
				"username":   event.Username,
				"job_id":     event.JobID,
				"applied_at": event.AppliedAt,
			}).Info("application received")
		})
		if err != nil {
			log.WithError(err).Fatal("consume applications")
		}
		notifier = rmq
	}

	router := gin.New()
	interfaces.NewHTTPHandler(router, interfaces.Dependencies{
		Companies:         companies,
		Jobs:              jobs,
		Users:             users,
		Tokens:            infrastructure.NewTokenSigner(cfg.SecretKey, tokenTTL),
		Notifier:          notifier,
		Log:               log,
		Ping:              pool.Ping,
		AuthRatePerMinute: cfg.AuthRatePerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("server running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

// seedAdmin creates the configured admin account unless it already exists.
func seedAdmin(ctx context.Context, users *infrastructure.UserRepository, cfg infrastructure.Config, log *logrus.Logger) {
	_, err := users.Register(ctx, domain.UserRegister{
		Username:  cfg.AdminUsername,
		Password:  cfg.AdminPassword,
		FirstName: "Admin",
		LastName:  "Admin",
		Email:     cfg.AdminUsername + "@jobly.local",
		IsAdmin:   true,
	})
	switch {
	case err == nil:
		log.WithField("username", cfg.AdminUsername).Info("admin user created")
	case errors.Is(err, apperror.ErrBadRequest):
	default:
		log.WithError(err).Fatal("seed admin")
	}
}
