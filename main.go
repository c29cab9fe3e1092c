package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/haulhub-io/haulhub-backend/database"
	"github.com/haulhub-io/haulhub-backend/internal/config"
	"github.com/haulhub-io/haulhub-backend/internal/models"
	"github.com/haulhub-io/haulhub-backend/internal/routes"
	"github.com/haulhub-io/haulhub-backend/internal/services"
	"github.com/haulhub-io/haulhub-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	// Initialize storage
	var store storage.Store
	storageType := "PostgreSQL Database"

	if cfg.UseMemoryStore {
		logrus.Warn("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
		storageType = "In-Memory (Testing)"
	} else {
		logrus.Info("📦 Connecting to PostgreSQL database...")
		database.Connect(cfg)

		logrus.Info("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Trip{},
			&models.Broker{},
			&models.User{},
			&models.Truck{},
			&models.Trailer{},
		)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to migrate database")
		}
		logrus.Info("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
	}

	// Dashboard services
	queries := services.NewTripQueryService(store)
	dashboards := services.NewDashboardService(queries, cfg.AggMaxRecords, cfg.AggTimeout)

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "HaulHub Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-carrier-id, x-pagination-token",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, store, dashboards, cfg.JWTSecret, storageType)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logrus.Info("🛑 Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	logrus.Info("========================================")
	logrus.Infof("🚀 HaulHub Backend starting on port %s", cfg.Port)
	logrus.Infof("📊 Storage: %s", storageType)
	logrus.Infof("⚙️  Aggregation budget: %d records / %s", cfg.AggMaxRecords, cfg.AggTimeout)
	logrus.Info("========================================")

	logrus.Fatal(app.Listen(":" + cfg.Port))
}
