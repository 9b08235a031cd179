package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicore/emr-system/internal/api"
	"github.com/clinicore/emr-system/internal/core/service"
	"github.com/clinicore/emr-system/internal/infrastructure/config"
	mongodb "github.com/clinicore/emr-system/internal/infrastructure/db/mongo"
	redisdb "github.com/clinicore/emr-system/internal/infrastructure/db/redis"
	"github.com/clinicore/emr-system/internal/infrastructure/mailer"
	"github.com/clinicore/emr-system/internal/infrastructure/queue"
	"github.com/clinicore/emr-system/internal/infrastructure/storage"
	"github.com/clinicore/emr-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic("config: " + err.Error())
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Databases ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	patientRepo := mongodb.NewPatientRepository(db)
	appointmentRepo := mongodb.NewAppointmentRepository(db)
	recordRepo := mongodb.NewRecordRepository(db)
	sequenceRepo := mongodb.NewSequenceRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":        userRepo.EnsureIndexes,
		"patients":     patientRepo.EnsureIndexes,
		"appointments": appointmentRepo.EnsureIndexes,
		"records":      recordRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Attachments and mail ---
	fileStore, err := storage.NewMinioStore(ctx, storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("object storage unavailable")
	}

	smtpMailer := mailer.NewSMTPMailer(mailer.Config{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		From: cfg.SMTP.From,
	})

	dispatcherCtx, stopDispatcher := context.WithCancel(ctx)
	defer stopDispatcher()
	dispatcher := queue.NewDispatcher(cfg.Workers, smtpMailer, log)
	dispatcher.Start(dispatcherCtx)

	// --- Services ---
	tokenService := service.NewTokenService(service.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	revocations := redisdb.NewRevocationStore(rdb)
	authService := service.NewAuthService(userRepo, tokenService, revocations, service.LockPolicy{
		MaxAttempts: cfg.Lockout.MaxAttempts,
		Window:      cfg.Lockout.Window,
	}, log)
	patientService := service.NewPatientService(patientRepo, sequenceRepo, log)
	appointmentService := service.NewAppointmentService(appointmentRepo, patientRepo, userRepo, dispatcher, log)
	recordService := service.NewRecordService(recordRepo, patientRepo, fileStore, log)
	staffService := service.NewStaffService(userRepo, log)

	e := api.NewRouter(api.Deps{
		Log:          log,
		Mongo:        db,
		Redis:        rdb,
		Tokens:       tokenService,
		Users:        userRepo,
		Auth:         authService,
		Patients:     patientService,
		Appointments: appointmentService,
		Records:      recordService,
		Staff:        staffService,
		Sequences:    sequenceRepo,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down, draining in-flight requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	stopDispatcher()
	log.Info().Msg("server exited")
}
