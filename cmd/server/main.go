package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/securecase/securecase/internal/api"
	"github.com/securecase/securecase/internal/config"
	"github.com/securecase/securecase/internal/db"
	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/services"
	"github.com/securecase/securecase/internal/utils"
	"github.com/securecase/securecase/pkg/logger"
	"github.com/securecase/securecase/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	config.LogConfig(cfg, zapLogger)

	database, err := db.Initialize(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}

	metricsCollector := metrics.NewMetricsCollector()

	if err := seedDatabase(database, zapLogger); err != nil {
		zapLogger.Fatal("Failed to seed database", zap.Error(err))
	}

	tokenService := services.NewTokenService(cfg.Security.SessionTimeout, zapLogger, metricsCollector)
	defer tokenService.Close()

	auditService := services.NewAuditService(database, zapLogger, metricsCollector)
	caseService := services.NewCaseService(database, auditService, zapLogger, metricsCollector)
	documentService := services.NewDocumentService(database, caseService, auditService, zapLogger, metricsCollector)
	collabService := services.NewCollabService(database, caseService, auditService, zapLogger, metricsCollector)
	adminService := services.NewAdminService(database, tokenService, auditService, zapLogger, metricsCollector)

	router := api.NewRouter(cfg, zapLogger, metricsCollector,
		tokenService, caseService, documentService, collabService, adminService, auditService, database)
	router.SetupRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}
	go func() {
		if err := router.Run(":" + port); err != nil {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	zapLogger.Info("Server started", zap.String("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	router.Close()
	sqlDB, err := database.DB()
	if err == nil {
		sqlDB.Close()
	}
	zapLogger.Info("Server gracefully stopped")
}

func seedDatabase(database *gorm.DB, zapLogger *zap.Logger) error {
	var count int64
	database.Model(&models.User{}).Count(&count)
	if count > 0 {
		zapLogger.Info("Database already seeded, skipping")
		return nil
	}
	zapLogger.Info("Seeding database with initial admin user")

	password := os.Getenv("SECURECASE_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme-admin"
	}
	hash, err := utils.EncryptPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:            "admin@securecase.local",
		PasswordHash:     hash,
		Role:             models.RoleAdmin,
		ClearanceLevel:   models.SensitivityCritical,
		OrganizationName: "SecureCase",
		Enabled:          true,
	}
	if err := database.Create(&admin).Error; err != nil {
		return err
	}
	zapLogger.Info("Created initial admin user", zap.String("email", admin.Email))
	return nil
}
