package handlers

import (
	"app/database"
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
)

// HandleGetAdminDashboardSummary returns org-level counts for the admin
// landing page.
// GET /api/v1/admin/dashboard/summary
func HandleGetAdminDashboardSummary(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)

	var summary struct {
		TotalUsers     int `json:"total_users"`
		ActiveUsers    int `json:"active_users"`
		TotalOutlets   int `json:"total_outlets"`
		TotalSKUs      int `json:"total_skus"`
		TotalEvents    int `json:"total_events"`
		EnabledEvents  int `json:"enabled_events"`
		UpcomingEvents int `json:"upcoming_events"`
	}

	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE org_id = $1", orgID).Scan(&summary.TotalUsers); err != nil {
		log.Printf("Error counting users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count users"})
	}

	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE org_id = $1 AND is_active = true", orgID).Scan(&summary.ActiveUsers); err != nil {
		log.Printf("Error counting active users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count active users"})
	}

	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM outlets WHERE org_id = $1", orgID).Scan(&summary.TotalOutlets); err != nil {
		log.Printf("Error counting outlets: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count outlets"})
	}

	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM skus WHERE org_id = $1", orgID).Scan(&summary.TotalSKUs); err != nil {
		log.Printf("Error counting SKUs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count SKUs"})
	}

	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM events WHERE org_id = $1", orgID).Scan(&summary.TotalEvents); err != nil {
		log.Printf("Error counting events: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count events"})
	}

	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM events WHERE org_id = $1 AND enabled = true", orgID).Scan(&summary.EnabledEvents); err != nil {
		log.Printf("Error counting enabled events: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count enabled events"})
	}

	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM events WHERE org_id = $1 AND enabled = true AND start_date >= CURRENT_DATE", orgID).Scan(&summary.UpcomingEvents); err != nil {
		log.Printf("Error counting upcoming events: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count upcoming events"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": summary})
}
