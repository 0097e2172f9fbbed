package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

const eventColumns = `
	id, org_id, name, type, start_date::text, end_date::text,
	scope_outlet_id, scope_category_id, scope_sku_id,
	mode, uplift_pct, enabled, comparison_method,
	historical_ly_start_date::text, historical_ly_end_date::text,
	historical_ly2_start_date::text, historical_ly2_end_date::text,
	created_at, updated_at`

// scanEvent reads one event row; scan targets must match eventColumns.
func scanEvent(row pgx.Row) (models.Event, error) {
	var ev models.Event
	err := row.Scan(
		&ev.ID, &ev.OrgID, &ev.Name, &ev.Type, &ev.StartDate, &ev.EndDate,
		&ev.ScopeOutletID, &ev.ScopeCategoryID, &ev.ScopeSKUID,
		&ev.Mode, &ev.UpliftPct, &ev.Enabled, &ev.ComparisonMethod,
		&ev.HistoricalLYStartDate, &ev.HistoricalLYEndDate,
		&ev.HistoricalLY2StartDate, &ev.HistoricalLY2EndDate,
		&ev.CreatedAt, &ev.UpdatedAt,
	)
	return ev, err
}

// validateEventRequest checks an event payload at the API boundary; the
// forecast engine assumes well-formed events and does not re-validate.
// Returns a user-facing message when the payload is rejected.
func validateEventRequest(req *models.EventRequest) (string, bool) {
	if strings.TrimSpace(req.Name) == "" {
		return "Event name is required", false
	}
	switch req.Type {
	case models.EventTypeHoliday, models.EventTypePromo, models.EventTypeCustom:
	default:
		return "Event type must be holiday, promo, or custom", false
	}
	switch req.Mode {
	case models.EventModeFlag, models.EventModeUplift:
	default:
		return "Event mode must be flag or uplift", false
	}
	if !utils.IsISODate(req.StartDate) || !utils.IsISODate(req.EndDate) {
		return "Start and end dates must be YYYY-MM-DD", false
	}
	if req.StartDate > req.EndDate {
		return "Start date must not be after end date", false
	}
	if req.Mode == models.EventModeUplift && (req.UpliftPct < models.MinUpliftPct || req.UpliftPct > models.MaxUpliftPct) {
		return fmt.Sprintf("Uplift percentage must be between %d and %d", models.MinUpliftPct, models.MaxUpliftPct), false
	}
	if req.ComparisonMethod == "" {
		req.ComparisonMethod = models.ComparisonCalendar
	}
	switch req.ComparisonMethod {
	case models.ComparisonCalendar, models.ComparisonSameEvent:
	default:
		return "Comparison method must be calendar or same_event", false
	}
	if msg, ok := validateHistoricalRange(req.HistoricalLYStartDate, req.HistoricalLYEndDate, "last-year"); !ok {
		return msg, false
	}
	if msg, ok := validateHistoricalRange(req.HistoricalLY2StartDate, req.HistoricalLY2EndDate, "two-years-ago"); !ok {
		return msg, false
	}
	return "", true
}

func validateHistoricalRange(start, end *string, label string) (string, bool) {
	if (start == nil) != (end == nil) {
		return fmt.Sprintf("Both %s historical dates must be set together", label), false
	}
	if start == nil {
		return "", true
	}
	if !utils.IsISODate(*start) || !utils.IsISODate(*end) {
		return fmt.Sprintf("Historical %s dates must be YYYY-MM-DD", label), false
	}
	if *start > *end {
		return fmt.Sprintf("Historical %s start must not be after its end", label), false
	}
	return "", true
}

// HandleCreateEvent creates a new event for the organization.
// POST /api/v1/admin/events
func HandleCreateEvent(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)

	var req models.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if msg, ok := validateEventRequest(&req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	query := `
        INSERT INTO events (
            org_id, name, type, start_date, end_date,
            scope_outlet_id, scope_category_id, scope_sku_id,
            mode, uplift_pct, enabled, comparison_method,
            historical_ly_start_date, historical_ly_end_date,
            historical_ly2_start_date, historical_ly2_end_date
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING ` + eventColumns

	ev, err := scanEvent(db.QueryRow(ctx, query,
		orgID, req.Name, req.Type, req.StartDate, req.EndDate,
		req.ScopeOutletID, req.ScopeCategoryID, req.ScopeSKUID,
		req.Mode, req.UpliftPct, enabled, req.ComparisonMethod,
		req.HistoricalLYStartDate, req.HistoricalLYEndDate,
		req.HistoricalLY2StartDate, req.HistoricalLY2EndDate,
	))
	if err != nil {
		log.Printf("Error creating event for org %s: %v", orgID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create event"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": ev})
}

// HandleListEvents fetches a paginated and filtered list of the org's events.
// GET /api/v1/admin/events
func HandleListEvents(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "10"))
	page, pageSize = utils.ClampPageParams(page, pageSize)
	eventType := c.Query("type")
	enabledStr := c.Query("enabled")
	searchTerm := c.Query("q")

	whereClauses := []string{"org_id = $1"}
	args := []interface{}{orgID}
	argCount := 2

	if eventType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("type = $%d", argCount))
		args = append(args, eventType)
		argCount++
	}
	if enabledStr != "" {
		if enabled, err := strconv.ParseBool(enabledStr); err == nil {
			whereClauses = append(whereClauses, fmt.Sprintf("enabled = $%d", argCount))
			args = append(args, enabled)
			argCount++
		}
	}
	if searchTerm != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("name ILIKE $%d", argCount))
		args = append(args, "%"+searchTerm+"%")
		argCount++
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	countQuery := "SELECT COUNT(*) FROM events " + whereClause
	var totalItems int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&totalItems); err != nil {
		log.Printf("Error counting events: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count events"})
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf("SELECT %s FROM events %s ORDER BY start_date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		eventColumns, whereClause, argCount, argCount+1)
	args = append(args, pageSize, offset)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error fetching events: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch events"})
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			log.Printf("Error scanning event row: %v", err)
			continue
		}
		events = append(events, ev)
	}

	return c.JSON(models.PaginatedEventsResponse{
		Data:       events,
		Pagination: utils.CreatePagination(totalItems, page, pageSize),
	})
}

// HandleGetEventByID fetches a single event.
// GET /api/v1/admin/events/:eventId
func HandleGetEventByID(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)
	eventID := c.Params("eventId")

	query := "SELECT " + eventColumns + " FROM events WHERE id = $1 AND org_id = $2"
	ev, err := scanEvent(db.QueryRow(ctx, query, eventID, orgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Event not found"})
		}
		log.Printf("Error fetching event %s: %v", eventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": ev})
}

// HandleUpdateEvent updates an existing event.
// PUT /api/v1/admin/events/:eventId
func HandleUpdateEvent(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)
	eventID := c.Params("eventId")

	var req models.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if msg, ok := validateEventRequest(&req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	query := `
        UPDATE events
        SET name = $1, type = $2, start_date = $3, end_date = $4,
            scope_outlet_id = $5, scope_category_id = $6, scope_sku_id = $7,
            mode = $8, uplift_pct = $9, enabled = $10, comparison_method = $11,
            historical_ly_start_date = $12, historical_ly_end_date = $13,
            historical_ly2_start_date = $14, historical_ly2_end_date = $15,
            updated_at = NOW()
        WHERE id = $16 AND org_id = $17
        RETURNING ` + eventColumns

	ev, err := scanEvent(db.QueryRow(ctx, query,
		req.Name, req.Type, req.StartDate, req.EndDate,
		req.ScopeOutletID, req.ScopeCategoryID, req.ScopeSKUID,
		req.Mode, req.UpliftPct, enabled, req.ComparisonMethod,
		req.HistoricalLYStartDate, req.HistoricalLYEndDate,
		req.HistoricalLY2StartDate, req.HistoricalLY2EndDate,
		eventID, orgID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Event not found"})
		}
		log.Printf("Error updating event %s: %v", eventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update event"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": ev})
}

// HandleSetEventEnabled toggles whether an event participates in computation.
// PUT /api/v1/admin/events/:eventId/status
func HandleSetEventEnabled(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)
	eventID := c.Params("eventId")

	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}

	commandTag, err := db.Exec(ctx,
		"UPDATE events SET enabled = $1, updated_at = NOW() WHERE id = $2 AND org_id = $3",
		body.Enabled, eventID, orgID)
	if err != nil {
		log.Printf("Error toggling event %s: %v", eventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update event status"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Event not found"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Event status updated"})
}

// HandleDeleteEvent removes an event.
// DELETE /api/v1/admin/events/:eventId
func HandleDeleteEvent(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)
	eventID := c.Params("eventId")

	commandTag, err := db.Exec(ctx, "DELETE FROM events WHERE id = $1 AND org_id = $2", eventID, orgID)
	if err != nil {
		log.Printf("Error deleting event %s: %v", eventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete event"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Event not found"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Event deleted"})
}

// fetchOrgEvents loads every event for the org; the engine itself skips
// disabled ones, and list views may want both.
func fetchOrgEvents(ctx context.Context, orgID string) ([]models.Event, error) {
	rows, err := database.GetDB().Query(ctx,
		"SELECT "+eventColumns+" FROM events WHERE org_id = $1 ORDER BY start_date, created_at", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
