package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"

	"app/database"
	"app/forecast"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// HandleGetComparison builds a like-for-like trend comparison: the current
// adjusted forecast series against historical sales aligned to it under the
// selected event's comparison method (calendar when no event is selected).
// GET /api/v1/analysis/comparison?offset=-1&event_id=...
func HandleGetComparison(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(string)
	ctx := context.Background()

	offset, err := strconv.Atoi(c.Query("offset", strconv.Itoa(forecast.OffsetLastYear)))
	if err != nil || (offset != forecast.OffsetLastYear && offset != forecast.OffsetTwoYearsAgo) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "offset must be -1 or -2"})
	}

	f, msg, ok := parseForecastFilters(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	var event *models.Event
	if eventID := c.Query("event_id"); eventID != "" {
		query := "SELECT " + eventColumns + " FROM events WHERE id = $1 AND org_id = $2"
		ev, err := scanEvent(database.GetDB().QueryRow(ctx, query, eventID, orgID))
		if err != nil {
			if err == pgx.ErrNoRows {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Event not found"})
			}
			log.Printf("Error fetching event %s for comparison: %v", eventID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
		}
		event = &ev
	}

	strategy := forecast.StrategyFor(event, offset)

	histStart, histEnd, err := historicalWindow(f, event, strategy.Method(), offset)
	if err != nil {
		log.Printf("Error deriving historical window: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to derive comparison window"})
	}

	sales, err := fetchHistoricalSales(ctx, orgID, f, histStart, histEnd)
	if err != nil {
		log.Printf("Error fetching historical sales for org %s: %v", orgID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch historical sales"})
	}

	// When a specific event drives the analysis, history outside its scope
	// is excluded, matching the forecast-side rules.
	sales = forecast.FilterByEventScope(sales, event)
	historical := forecast.AlignSales(sales, strategy)

	current, _, err := fetchAdjustedForecasts(ctx, orgID, f)
	if err != nil {
		log.Printf("Error building current series for org %s: %v", orgID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch forecasts"})
	}

	resp := models.ComparisonResponse{
		Offset:     offset,
		Method:     strategy.Method(),
		Current:    bucketForecasts(current),
		Historical: historical,
	}
	if event != nil {
		resp.EventID = &event.ID
	}

	return c.JSON(fiber.Map{"status": "success", "data": resp})
}

// historicalWindow picks the sale-date range to load: the event's explicit
// range under same-event semantics, otherwise the current window shifted back
// by the offset in whole years.
func historicalWindow(f forecastFilters, event *models.Event, method string, offset int) (string, string, error) {
	if method == models.ComparisonSameEvent && event != nil {
		switch offset {
		case forecast.OffsetLastYear:
			return *event.HistoricalLYStartDate, *event.HistoricalLYEndDate, nil
		case forecast.OffsetTwoYearsAgo:
			return *event.HistoricalLY2StartDate, *event.HistoricalLY2EndDate, nil
		}
	}
	start, err := utils.ShiftYears(f.StartDate, offset)
	if err != nil {
		return "", "", err
	}
	end, err := utils.ShiftYears(f.EndDate, offset)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

func fetchHistoricalSales(ctx context.Context, orgID string, f forecastFilters, start, end string) ([]models.HistoricalSale, error) {
	whereClauses := []string{"h.org_id = $1", "h.sale_date >= $2", "h.sale_date <= $3"}
	args := []interface{}{orgID, start, end}
	argCount := 4

	if f.OutletID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("h.outlet_id = $%d", argCount))
		args = append(args, f.OutletID)
		argCount++
	}
	if f.SKUID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("h.sku_id = $%d", argCount))
		args = append(args, f.SKUID)
		argCount++
	}
	if f.CategoryID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("s.category_id = $%d", argCount))
		args = append(args, f.CategoryID)
		argCount++
	}

	query := `
        SELECT h.outlet_id, h.sku_id, s.category_id, h.sale_date::text, h.actual_sales, h.revenue
        FROM historical_sales h
        LEFT JOIN skus s ON s.id = h.sku_id
        WHERE ` + joinClauses(whereClauses) + `
        ORDER BY h.sale_date`

	rows, err := database.GetDB().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]models.HistoricalSale, 0)
	for rows.Next() {
		var s models.HistoricalSale
		var categoryID sql.NullString
		if err := rows.Scan(&s.OutletID, &s.SKUID, &categoryID, &s.SaleDate, &s.ActualSales, &s.Revenue); err != nil {
			log.Printf("Error scanning historical sale: %v", err)
			continue
		}
		s.CategoryID = utils.NullStringToStringPtr(categoryID)
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// bucketForecasts collapses adjusted rows into per-date chart points.
func bucketForecasts(rows []models.AdjustedForecast) []models.ForecastBucket {
	buckets := make([]models.ForecastBucket, 0)
	index := make(map[string]int)
	for _, row := range rows {
		i, exists := index[row.ForecastDate]
		if !exists {
			i = len(buckets)
			index[row.ForecastDate] = i
			buckets = append(buckets, models.ForecastBucket{Date: row.ForecastDate, Revenue: decimal.Zero})
		}
		buckets[i].Units += row.AdjustedValue
		buckets[i].Revenue = buckets[i].Revenue.Add(row.Revenue)
		if row.UpliftApplied {
			buckets[i].Uplifted = true
		}
	}
	return buckets
}
