package handlers

import (
	"context"
	"database/sql"
	"log"
	"strconv"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleListOutlets returns the org's outlets for filter dropdowns.
// GET /api/v1/outlets
func HandleListOutlets(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(string)

	rows, err := database.GetDB().Query(context.Background(),
		"SELECT id, org_id, name, city, format, created_at, updated_at FROM outlets WHERE org_id = $1 ORDER BY name", orgID)
	if err != nil {
		log.Printf("Error fetching outlets: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch outlets"})
	}
	defer rows.Close()

	outlets := make([]models.Outlet, 0)
	for rows.Next() {
		var o models.Outlet
		var city, format sql.NullString
		if err := rows.Scan(&o.ID, &o.OrgID, &o.Name, &city, &format, &o.CreatedAt, &o.UpdatedAt); err != nil {
			log.Printf("Error scanning outlet row: %v", err)
			continue
		}
		o.City = utils.NullStringToStringPtr(city)
		o.Format = utils.NullStringToStringPtr(format)
		outlets = append(outlets, o)
	}

	return c.JSON(fiber.Map{"status": "success", "data": outlets})
}

// HandleListCategories returns the org's categories.
// GET /api/v1/categories
func HandleListCategories(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(string)

	rows, err := database.GetDB().Query(context.Background(),
		"SELECT id, org_id, name, created_at, updated_at FROM categories WHERE org_id = $1 ORDER BY name", orgID)
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch categories"})
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.OrgID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			log.Printf("Error scanning category row: %v", err)
			continue
		}
		categories = append(categories, cat)
	}

	return c.JSON(fiber.Map{"status": "success", "data": categories})
}

// HandleListSKUs returns the org's SKUs. New products are excluded from
// filter lists by default; pass include_new=true to see them.
// GET /api/v1/skus
func HandleListSKUs(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(string)
	includeNew, _ := strconv.ParseBool(c.Query("include_new", "false"))

	query := `
        SELECT id, org_id, name, category_id, price_per_unit, min_quantity, is_new_product, created_at, updated_at
        FROM skus
        WHERE org_id = $1`
	args := []interface{}{orgID}
	if !includeNew {
		query += " AND is_new_product = FALSE"
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query += " AND category_id = $2"
		args = append(args, categoryID)
	}
	query += " ORDER BY name"

	rows, err := database.GetDB().Query(context.Background(), query, args...)
	if err != nil {
		log.Printf("Error fetching SKUs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch SKUs"})
	}
	defer rows.Close()

	skus := make([]models.SKU, 0)
	for rows.Next() {
		var s models.SKU
		var categoryID sql.NullString
		if err := rows.Scan(&s.ID, &s.OrgID, &s.Name, &categoryID, &s.PricePerUnit, &s.MinQuantity, &s.IsNewProduct, &s.CreatedAt, &s.UpdatedAt); err != nil {
			log.Printf("Error scanning SKU row: %v", err)
			continue
		}
		s.CategoryID = utils.NullStringToStringPtr(categoryID)
		skus = append(skus, s)
	}

	return c.JSON(fiber.Map{"status": "success", "data": skus})
}
