package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/haulhub-io/haulhub-backend/internal/handlers"
	"github.com/haulhub-io/haulhub-backend/internal/middleware"
	"github.com/haulhub-io/haulhub-backend/internal/services"
	"github.com/haulhub-io/haulhub-backend/internal/storage"
)

// SetupRoutes configures all API routes.
func SetupRoutes(app *fiber.App, store storage.Store, dashboards *services.DashboardService, jwtSecret, storageType string) {
	healthHandler := handlers.NewHealthHandler("1.0.0", storageType)
	app.Get("/health", healthHandler.Check)

	// Everything under /carrier is scoped to the authenticated carrier.
	carrier := app.Group("/carrier", middleware.CarrierAuth(jwtSecret))

	dashboardHandler := handlers.NewDashboardHandler(dashboards)
	carrier.Get("/dashboard-unified", dashboardHandler.GetDashboardUnified)

	tripHandler := handlers.NewTripHandler(store)
	carrier.Get("/trips", dashboardHandler.GetTrips)
	carrier.Post("/trips", tripHandler.DispatchTrip)
	carrier.Get("/trips/:id", tripHandler.GetTrip)
	carrier.Put("/trips/:id", tripHandler.UpdateTrip)
	carrier.Patch("/trips/:id/status", tripHandler.UpdateTripStatus)

	brokerHandler := handlers.NewBrokerHandler(store)
	brokers := carrier.Group("/brokers")
	brokers.Get("/", brokerHandler.ListBrokers)
	brokers.Post("/", brokerHandler.CreateBroker)
	brokers.Get("/:id", brokerHandler.GetBroker)
	brokers.Put("/:id", brokerHandler.UpdateBroker)
	brokers.Delete("/:id", brokerHandler.DeleteBroker)

	userHandler := handlers.NewUserHandler(store)
	users := carrier.Group("/users")
	users.Get("/", userHandler.ListUsers)
	users.Post("/", userHandler.CreateUser)
	users.Get("/:id", userHandler.GetUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	equipmentHandler := handlers.NewEquipmentHandler(store)
	trucks := carrier.Group("/trucks")
	trucks.Get("/", equipmentHandler.ListTrucks)
	trucks.Post("/", equipmentHandler.CreateTruck)
	trucks.Get("/:id", equipmentHandler.GetTruck)
	trucks.Put("/:id", equipmentHandler.UpdateTruck)
	trucks.Delete("/:id", equipmentHandler.DeleteTruck)

	trailers := carrier.Group("/trailers")
	trailers.Get("/", equipmentHandler.ListTrailers)
	trailers.Post("/", equipmentHandler.CreateTrailer)
	trailers.Get("/:id", equipmentHandler.GetTrailer)
	trailers.Put("/:id", equipmentHandler.UpdateTrailer)
	trailers.Delete("/:id", equipmentHandler.DeleteTrailer)

	resolveHandler := handlers.NewResolveHandler(store)
	carrier.Post("/entities/resolve", resolveHandler.ResolveEntities)
}
