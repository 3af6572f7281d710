package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ceh-soft/contract-api/docs"
	"github.com/ceh-soft/contract-api/internal/auth"
	"github.com/ceh-soft/contract-api/internal/config"
	"github.com/ceh-soft/contract-api/internal/database"
	"github.com/ceh-soft/contract-api/internal/http/handler"
	"github.com/ceh-soft/contract-api/internal/http/middleware"
	"github.com/ceh-soft/contract-api/internal/http/router"
	"github.com/ceh-soft/contract-api/internal/jobs"
	"github.com/ceh-soft/contract-api/internal/logger"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/ceh-soft/contract-api/internal/storage"
	"go.uber.org/zap"
)

// @title Contract API
// @version 1.0
// @description Contract lifecycle management API: contracts, warnings, master data, and administration
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@ceh-soft.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.Environment == "development" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Reload configuration with secret resolution now that logging is up
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load config with secrets: %w", err)
	}

	// Database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)

	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run auto-migration: %w", err)
		}
		log.Info("Auto-migration complete")
	}

	// File storage
	store, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Repositories
	contractRepo := repository.NewContractRepository(db)
	masterRepo := repository.NewMasterDataRepository(db)
	warningRepo := repository.NewWarningRepository(db)
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewUserGroupRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	configRepo := repository.NewSystemConfigRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Token issuance
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL())

	// Services
	configService := service.NewSystemConfigService(configRepo, log)
	if err := configService.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed system configs: %w", err)
	}

	daysAhead := configService.IntValue(ctx, "warning_days_before", cfg.Warnings.DaysAhead)

	contractService := service.NewContractService(contractRepo, masterRepo, warningRepo, store, log, db)
	masterService := service.NewMasterDataService(masterRepo, contractRepo, log)
	warningService := service.NewWarningService(warningRepo, contractRepo, log, daysAhead)
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, groupRepo, log)
	groupService := service.NewGroupService(groupRepo, userRepo, log)
	permissionService := service.NewPermissionService(permRepo, groupRepo, log)
	auditService := service.NewAuditLogService(auditRepo, log)
	attachmentService := service.NewAttachmentService(attachmentRepo, contractRepo, store, log)
	dashboardService := service.NewDashboardService(contractRepo, warningRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, auditService, log)
	contractHandler := handler.NewContractHandler(contractService, auditService, log)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService, auditService, cfg.Storage.MaxUploadSizeMB, log)
	masterDataHandler := handler.NewMasterDataHandler(masterService, auditService, log)
	warningHandler := handler.NewWarningHandler(warningService, auditService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	userHandler := handler.NewUserHandler(userService, auditService, log)
	groupHandler := handler.NewGroupHandler(groupService, permissionService, auditService, log)
	auditLogHandler := handler.NewAuditLogHandler(auditService, log)
	configHandler := handler.NewSystemConfigHandler(configService, auditService, log)

	// Router
	r := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		contractHandler,
		attachmentHandler,
		masterDataHandler,
		warningHandler,
		dashboardHandler,
		userHandler,
		groupHandler,
		auditLogHandler,
		configHandler,
	)

	// Background jobs
	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterWarningJob(scheduler, warningService, log, cfg.Warnings.GenerateCron, 0, cfg.Warnings.GenerateOnStartup); err != nil {
		return fmt.Errorf("failed to register warning job: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      r.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in a goroutine so shutdown signals can be handled
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt or server failure
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("Server stopped")
	}

	return nil
}
