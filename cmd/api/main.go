package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-ledger-api/internal/config"
	"github.com/noah-isme/campus-ledger-api/internal/database"
	"github.com/noah-isme/campus-ledger-api/internal/gateway"
	"github.com/noah-isme/campus-ledger-api/internal/handler"
	"github.com/noah-isme/campus-ledger-api/internal/lock"
	"github.com/noah-isme/campus-ledger-api/internal/middleware"
	"github.com/noah-isme/campus-ledger-api/internal/models"
	"github.com/noah-isme/campus-ledger-api/internal/repository"
	"github.com/noah-isme/campus-ledger-api/internal/router"
	"github.com/noah-isme/campus-ledger-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	ctx := context.Background()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, database.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Student{}, &models.SystemConfig{}, &models.LibraryRecord{}, &models.Payment{}, &models.ActivityLog{}, &models.ExamNotification{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var (
		redisClient *redis.Client
		locker      lock.Locker = lock.Noop{}
	)
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient, cfg.LockTTL).WithWait(cfg.LockWait)
	} else {
		logger.Warn().Msg("redis url not set, ledger writes rely on optimistic versioning only")
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}

	healthProbes := map[string]handler.HealthProbe{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		healthProbes["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	if natsConn != nil {
		healthProbes["nats"] = func(context.Context) error {
			if !natsConn.IsConnected() {
				return nats.ErrConnectionClosed
			}
			return nil
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	configRepo := repository.NewConfigRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	examRepo := repository.NewExamNotificationRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	notifier := service.NewBrokerPaymentNotifier(redisClient, natsConn, cfg.ChannelBase, logger)

	studentService := service.NewStudentService(studentRepo, configRepo, libraryRepo, validate, activityService, logger)
	departmentService := service.NewDepartmentService(studentRepo, locker, validate, activityService, logger)
	feeService := service.NewFeeAssignmentService(studentRepo, configRepo, locker, validate, activityService, logger)
	promotionService := service.NewPromotionService(studentRepo, libraryRepo, locker, validate, activityService, logger)
	examService := service.NewExamNotificationService(examRepo, studentRepo, validate, activityService, logger)
	paymentService := service.NewPaymentService(studentRepo, paymentRepo, libraryRepo, examRepo, locker, notifier, validate, cfg.GatewayModeLabel, logger)

	departmentHandlers := make(map[service.Department]*handler.DepartmentHandler, len(service.Departments))
	for _, dept := range service.Departments {
		departmentHandlers[dept] = handler.NewDepartmentHandler(dept, departmentService, studentService, logger)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowedOrigins: cfg.AllowedOrigins})
	router.Register(app, cfg, router.Dependencies{
		RegistrarHandler:     handler.NewRegistrarHandler(studentService, logger),
		DepartmentHandlers:   departmentHandlers,
		AdminFeeHandler:      handler.NewAdminFeeHandler(studentService, departmentService, feeService, promotionService, logger),
		AdminActivityHandler: handler.NewAdminActivityHandler(activityService, logger),
		PaymentHandler:       handler.NewPaymentHandler(paymentService, studentService, gateway.NewVerifier(cfg.GatewayKeySecret), logger),
		ExamHandler:          handler.NewExamNotificationHandler(examService, logger),
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
		VerifyLimiter:        middleware.FailedRequestLimit("payment_verify", cfg.RateLimitMax, cfg.RateLimitWindow),
		HealthProbes:         healthProbes,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, natsConn)
}

func waitForShutdown(app *fiber.App, natsConn *nats.Conn) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			log.Printf("nats drain failed: %v", err)
		}
	}

	log.Println("server stopped")
}
