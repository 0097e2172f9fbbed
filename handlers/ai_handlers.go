package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"app/config"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// HandleForecastCommentary generates a short narrative over a filtered
// forecast window using the Gemini API: totals, event effects, and anything a
// planner should look at.
// POST /api/v1/ai/commentary
func HandleForecastCommentary(c *fiber.Ctx) error {
	if config.AppConfig.GeminiAPIKey == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": "AI commentary is not configured"})
	}

	orgID := c.Locals("orgID").(string)

	var req models.CommentaryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if !utils.IsISODate(req.StartDate) || !utils.IsISODate(req.EndDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "startDate and endDate must be YYYY-MM-DD"})
	}

	f := forecastFilters{
		OutletID:   req.OutletID,
		CategoryID: req.CategoryID,
		SKUID:      req.SKUID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}

	ctx := context.Background()
	rows, dropped, err := fetchAdjustedForecasts(ctx, orgID, f)
	if err != nil {
		log.Printf("Error building commentary data for org %s: %v", orgID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch forecasts"})
	}
	summary := summarize(rows, dropped)

	commentary, err := generateCommentary(ctx, f, summary, rows)
	if err != nil {
		log.Printf("Error generating commentary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to generate commentary"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"summary": summary, "commentary": commentary}})
}

// generateCommentary asks Gemini for a planner-facing narrative.
func generateCommentary(ctx context.Context, f forecastFilters, summary models.ForecastSummary, rows []models.AdjustedForecast) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	eventNames := map[string]bool{}
	for _, row := range rows {
		for _, ev := range row.Events {
			eventNames[ev.Name] = true
		}
	}
	names := make([]string, 0, len(eventNames))
	for name := range eventNames {
		names = append(names, name)
	}

	prompt := fmt.Sprintf(
		`You are a demand-planning assistant for a food retail operation. Write a short (3-5 sentence) commentary for the forecast window %s to %s.
Totals: %d units, revenue %s, across %d rows. %d rows were uplifted by events, %d rows hit their minimum-order floor.
Active events in this window: %s.
Mention notable event effects and anything a planner should double-check. Plain prose, no markdown.`,
		f.StartDate, f.EndDate,
		summary.TotalUnits, summary.TotalRevenue.StringFixed(2), summary.RowCount,
		summary.UpliftedRows, summary.OverriddenRows,
		strings.Join(names, ", "),
	)

	model := client.GenerativeModel("gemini-1.5-pro")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate commentary: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return strings.TrimSpace(fmt.Sprint(resp.Candidates[0].Content.Parts[0])), nil
}
