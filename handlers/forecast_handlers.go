package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	"app/config"
	"app/database"
	"app/forecast"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// forecastFilters are the query-string filters shared by the forecast table,
// summary, export, and comparison endpoints.
type forecastFilters struct {
	OutletID   string
	CategoryID string
	SKUID      string
	StartDate  string
	EndDate    string
}

// parseForecastFilters reads and validates the filter params. Missing dates
// default to a two-week window starting today.
func parseForecastFilters(c *fiber.Ctx) (forecastFilters, string, bool) {
	f := forecastFilters{
		OutletID:   c.Query("outlet_id"),
		CategoryID: c.Query("category_id"),
		SKUID:      c.Query("sku_id"),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
	}
	if f.StartDate == "" {
		f.StartDate = time.Now().Format(utils.ISODateLayout)
	}
	if f.EndDate == "" {
		end, _ := time.Parse(utils.ISODateLayout, f.StartDate)
		f.EndDate = end.AddDate(0, 0, 13).Format(utils.ISODateLayout)
	}
	if !utils.IsISODate(f.StartDate) || !utils.IsISODate(f.EndDate) {
		return f, "start_date and end_date must be YYYY-MM-DD", false
	}
	if f.StartDate > f.EndDate {
		return f, "start_date must not be after end_date", false
	}
	return f, "", true
}

func (f forecastFilters) cacheKey(orgID string) string {
	return fmt.Sprintf("forecast:summary:%s:%s:%s:%s:%s:%s",
		orgID, f.OutletID, f.CategoryID, f.SKUID, f.StartDate, f.EndDate)
}

// fetchAdjustedForecasts loads the filtered forecast rows, resolves their SKU
// and outlet references, and runs each through the event engine. Rows whose
// SKU cannot be resolved are dropped and counted, never fatal.
func fetchAdjustedForecasts(ctx context.Context, orgID string, f forecastFilters) ([]models.AdjustedForecast, int, error) {
	db := database.GetDB()

	events, err := fetchOrgEvents(ctx, orgID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load events: %w", err)
	}

	whereClauses := []string{"f.org_id = $1", "f.forecast_date >= $2", "f.forecast_date <= $3"}
	args := []interface{}{orgID, f.StartDate, f.EndDate}
	argCount := 4

	if f.OutletID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("f.outlet_id = $%d", argCount))
		args = append(args, f.OutletID)
		argCount++
	}
	if f.SKUID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("f.sku_id = $%d", argCount))
		args = append(args, f.SKUID)
		argCount++
	}
	if f.CategoryID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("s.category_id = $%d", argCount))
		args = append(args, f.CategoryID)
		argCount++
	}

	query := `
        SELECT f.outlet_id, o.name, f.sku_id, s.name, s.category_id,
               s.price_per_unit, s.min_quantity,
               f.forecast_date::text, f.forecast_value,
               f.lower_bound, f.upper_bound, f.confidence_rating
        FROM forecasts f
        LEFT JOIN outlets o ON o.id = f.outlet_id
        LEFT JOIN skus s ON s.id = f.sku_id`
	query += "\n        WHERE " + joinClauses(whereClauses)
	query += "\n        ORDER BY f.forecast_date, o.name, s.name"

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query forecasts: %w", err)
	}
	defer rows.Close()

	adjusted := make([]models.AdjustedForecast, 0)
	dropped := 0
	for rows.Next() {
		var s forecastScan
		if err := rows.Scan(
			&s.row.OutletID, &s.outletName, &s.row.SKUID, &s.skuName, &s.categoryID,
			&s.price, &s.minQuantity,
			&s.row.ForecastDate, &s.row.ForecastValue,
			&s.lowerBound, &s.upperBound, &s.confidence,
		); err != nil {
			log.Printf("Error scanning forecast row: %v", err)
			continue
		}

		adj, ok := resolveAndAdjust(s, events)
		if !ok {
			// Unresolved outlet or SKU reference is a data-integrity problem
			// in the upstream store: drop the row and keep going.
			log.Printf("Dropping forecast row with unresolved references (outlet %s, sku %s, date %s)",
				s.row.OutletID, s.row.SKUID, s.row.ForecastDate)
			dropped++
			continue
		}
		adjusted = append(adjusted, adj)
	}

	return adjusted, dropped, rows.Err()
}

// forecastScan holds one raw forecast row before its outlet and SKU references
// are resolved; the name columns come from left joins and may be NULL.
type forecastScan struct {
	row         models.ForecastRow
	outletName  sql.NullString
	skuName     sql.NullString
	categoryID  sql.NullString
	confidence  sql.NullString
	price       decimal.NullDecimal
	minQuantity sql.NullInt64
	lowerBound  sql.NullFloat64
	upperBound  sql.NullFloat64
}

// resolveAndAdjust turns a scanned row into an adjusted forecast. Rows whose
// outlet or SKU reference did not resolve report ok=false.
func resolveAndAdjust(s forecastScan, events []models.Event) (models.AdjustedForecast, bool) {
	if !s.outletName.Valid || !s.skuName.Valid || !s.price.Valid {
		return models.AdjustedForecast{}, false
	}

	row := s.row
	if s.lowerBound.Valid {
		row.LowerBound = &s.lowerBound.Float64
	}
	if s.upperBound.Valid {
		row.UpperBound = &s.upperBound.Float64
	}
	row.ConfidenceRating = utils.NullStringToStringPtr(s.confidence)

	scope := forecast.RowScope{
		OutletID:   row.OutletID,
		CategoryID: utils.NullStringToStringPtr(s.categoryID),
		SKUID:      row.SKUID,
	}
	applicable := forecast.ApplicableEvents(events, row.ForecastDate, scope)
	adj := forecast.Compose(row.ForecastValue, applicable, int(s.minQuantity.Int64), s.price.Decimal)
	lower, upper := forecast.Bounds(row)

	return models.AdjustedForecast{
		OutletID:         row.OutletID,
		OutletName:       s.outletName.String,
		SKUID:            row.SKUID,
		SKUName:          s.skuName.String,
		CategoryID:       scope.CategoryID,
		ForecastDate:     row.ForecastDate,
		RawValue:         row.ForecastValue,
		AdjustedValue:    adj.Quantity,
		LowerBound:       lower,
		UpperBound:       upper,
		ConfidenceRating: forecast.Confidence(row),
		Multiplier:       adj.Multiplier,
		UpliftApplied:    adj.UpliftApplied,
		IsOverridden:     adj.IsOverridden,
		Revenue:          adj.Revenue,
		Events:           forecast.Badges(applicable),
	}, true
}

func joinClauses(clauses []string) string {
	out := clauses[0]
	for _, clause := range clauses[1:] {
		out += " AND " + clause
	}
	return out
}

func summarize(rows []models.AdjustedForecast, dropped int) models.ForecastSummary {
	summary := models.ForecastSummary{
		RowCount:     len(rows),
		DroppedRows:  dropped,
		TotalRevenue: decimal.Zero,
	}
	for _, row := range rows {
		summary.TotalUnits += row.AdjustedValue
		summary.TotalRevenue = summary.TotalRevenue.Add(row.Revenue)
		if row.UpliftApplied {
			summary.UpliftedRows++
		}
		if row.IsOverridden {
			summary.OverriddenRows++
		}
	}
	return summary
}

// HandleGetForecasts returns the adjusted forecast table for the filters.
// GET /api/v1/forecasts
func HandleGetForecasts(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(string)

	f, msg, ok := parseForecastFilters(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	rows, dropped, err := fetchAdjustedForecasts(context.Background(), orgID, f)
	if err != nil {
		log.Printf("Error building forecast table for org %s: %v", orgID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch forecasts"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": rows, "dropped_rows": dropped})
}

// HandleGetForecastSummary returns window totals, cached per org and filters.
// GET /api/v1/forecasts/summary
func HandleGetForecastSummary(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(string)
	ctx := context.Background()

	f, msg, ok := parseForecastFilters(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	key := f.cacheKey(orgID)
	var cached models.ForecastSummary
	if hit, err := database.CacheGetJSON(ctx, key, &cached); err != nil {
		log.Printf("Cache read failed for %s: %v", key, err)
	} else if hit {
		return c.JSON(fiber.Map{"status": "success", "data": cached, "cached": true})
	}

	rows, dropped, err := fetchAdjustedForecasts(ctx, orgID, f)
	if err != nil {
		log.Printf("Error building forecast summary for org %s: %v", orgID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to compute summary"})
	}

	summary := summarize(rows, dropped)
	if err := database.CacheSetJSON(ctx, key, summary, config.AppConfig.CacheTTL); err != nil {
		log.Printf("Cache write failed for %s: %v", key, err)
	}

	return c.JSON(fiber.Map{"status": "success", "data": summary, "cached": false})
}

// HandleExportForecastCSV streams the adjusted forecast table as a CSV
// attachment for spreadsheet use.
// GET /api/v1/forecasts/export
func HandleExportForecastCSV(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(string)

	f, msg, ok := parseForecastFilters(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	rows, _, err := fetchAdjustedForecasts(context.Background(), orgID, f)
	if err != nil {
		log.Printf("Error building forecast export for org %s: %v", orgID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to export forecasts"})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{
		"date", "outlet", "sku", "raw_forecast", "adjusted_forecast",
		"lower_bound", "upper_bound", "confidence", "uplift_applied",
		"min_qty_override", "revenue", "events",
	})
	for _, row := range rows {
		eventNames := ""
		for i, ev := range row.Events {
			if i > 0 {
				eventNames += "; "
			}
			eventNames += ev.Name
		}
		_ = w.Write([]string{
			row.ForecastDate,
			row.OutletName,
			row.SKUName,
			strconv.FormatFloat(row.RawValue, 'f', 2, 64),
			strconv.Itoa(row.AdjustedValue),
			strconv.FormatFloat(row.LowerBound, 'f', 2, 64),
			strconv.FormatFloat(row.UpperBound, 'f', 2, 64),
			row.ConfidenceRating,
			strconv.FormatBool(row.UpliftApplied),
			strconv.FormatBool(row.IsOverridden),
			row.Revenue.StringFixed(2),
			eventNames,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("Error writing forecast CSV: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to write CSV"})
	}

	filename := fmt.Sprintf("forecast_%s_%s.csv", f.StartDate, f.EndDate)
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}
