package handlers

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// HandleGetOrganization returns the caller's organization.
// GET /api/v1/admin/organization
func HandleGetOrganization(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(string)

	var org models.Organization
	var timezone sql.NullString
	err := database.GetDB().QueryRow(context.Background(),
		"SELECT id, name, timezone, created_at, updated_at FROM organizations WHERE id = $1", orgID).Scan(
		&org.ID, &org.Name, &timezone, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Organization not found"})
		}
		log.Printf("Error fetching organization %s: %v", orgID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}
	org.Timezone = utils.NullStringToStringPtr(timezone)

	return c.JSON(fiber.Map{"status": "success", "data": org})
}

// HandleUpdateOrganization renames the organization or changes its timezone.
// PUT /api/v1/admin/organization
func HandleUpdateOrganization(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(string)

	var req models.UpdateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Organization name is required"})
	}

	var org models.Organization
	var timezone sql.NullString
	err := database.GetDB().QueryRow(context.Background(),
		"UPDATE organizations SET name = $1, timezone = $2, updated_at = NOW() WHERE id = $3 RETURNING id, name, timezone, created_at, updated_at",
		req.Name, req.Timezone, orgID).Scan(
		&org.ID, &org.Name, &timezone, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Organization not found"})
		}
		log.Printf("Error updating organization %s: %v", orgID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update organization"})
	}
	org.Timezone = utils.NullStringToStringPtr(timezone)

	return c.JSON(fiber.Map{"status": "success", "data": org})
}
