package main

import (
	"os"
	"os/signal"
	"syscall"

	"loanhub/internal/adapters/http/middleware"
	"loanhub/internal/adapters/http/routes"
	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/config"
	"loanhub/internal/pkg/clock"
	"loanhub/internal/pkg/idgen"
	"loanhub/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	_ "loanhub/docs" // Swagger docs
)

// @title loanhub API
// @version 1.0
// @description Retail installment loan lifecycle and amortization engine

// @contact.name API Support
// @contact.email support@loanhub.example.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("❌ Failed to load configuration: %v", err)
	}
	logger.Setup(cfg.AppMode, cfg.LogLevel)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logrus.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		logrus.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	logrus.Info("✅ Database migration completed")

	if err := config.SeedMasterData(db); err != nil {
		logrus.Warnf("⚠️ Warning: Failed to seed master data: %v", err)
	}
	if cfg.IsDev() {
		if err := config.NewSeeder(db).Run(); err != nil {
			logrus.Warnf("⚠️ Warning: Failed to seed demo data: %v", err)
		}
	}

	svc := routes.NewServices(db, cfg.Loan, clock.System{}, idgen.UUIDGenerator{})

	// Overdue sweep; every instance schedules it, the job lease lets one run
	if err := svc.Cron.Start(); err != nil {
		logrus.Fatalf("❌ Failed to start cron: %v", err)
	}
	defer svc.Cron.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "loanhub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, cfg, svc)

	go gracefulShutdown(app)

	logrus.Infof("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logrus.Errorf("❌ Error during shutdown: %v", err)
	}
	logrus.Info("✅ Server stopped gracefully")
}
