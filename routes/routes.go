package routes

import (
	"app/handlers"
	"app/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/login", handlers.HandleLogin)

	// --- Authenticated Dashboard Routes ---
	dash := api.Group("", middleware.JWTMiddleware)

	// Dimension lists for filter dropdowns
	dash.Get("/outlets", handlers.HandleListOutlets)
	dash.Get("/categories", handlers.HandleListCategories)
	dash.Get("/skus", handlers.HandleListSKUs)

	// Forecast table, summary, and export
	dash.Get("/forecasts", handlers.HandleGetForecasts)
	dash.Get("/forecasts/summary", handlers.HandleGetForecastSummary)
	dash.Get("/forecasts/export", handlers.HandleExportForecastCSV)

	// Historical comparison analysis
	dash.Get("/analysis/comparison", handlers.HandleGetComparison)

	// AI commentary, planners and admins only
	dash.Post("/ai/commentary", middleware.PlannerRequired, handlers.HandleForecastCommentary)

	// --- Admin Routes ---
	admin := api.Group("/admin", middleware.JWTMiddleware, middleware.AdminRequired)

	// Dashboard
	admin.Get("/dashboard/summary", handlers.HandleGetAdminDashboardSummary)

	// Event Management
	admin.Post("/events", handlers.HandleCreateEvent)
	admin.Get("/events", handlers.HandleListEvents)
	admin.Get("/events/:eventId", handlers.HandleGetEventByID)
	admin.Put("/events/:eventId", handlers.HandleUpdateEvent)
	admin.Put("/events/:eventId/status", handlers.HandleSetEventEnabled)
	admin.Delete("/events/:eventId", handlers.HandleDeleteEvent)

	// User Management
	admin.Post("/users/invite", handlers.HandleInviteUser)
	admin.Get("/users", handlers.HandleGetUsers)
	admin.Get("/users/:userId", handlers.HandleGetUserByID)
	admin.Put("/users/:userId/role", handlers.HandleUpdateUserRole)
	admin.Put("/users/:userId/status", handlers.HandleSetUserStatus)
	admin.Delete("/users/:userId", handlers.HandleDeleteUser)

	// Organization
	admin.Get("/organization", handlers.HandleGetOrganization)
	admin.Put("/organization", handlers.HandleUpdateOrganization)
}
