package main

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestForecastRouteSmoke(t *testing.T) {
	app := fiber.New()
	app.Get("/api/v1/forecasts", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success"})
	})

	req := httptest.NewRequest("GET", "/api/v1/forecasts", nil)

	resp, _ := app.Test(req, 1)

	assert.Equal(t, 200, resp.StatusCode)
}
