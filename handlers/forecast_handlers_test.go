package handlers

import (
	"database/sql"
	"testing"

	"app/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func resolvedScan() forecastScan {
	return forecastScan{
		row: models.ForecastRow{
			OutletID:      "out-1",
			SKUID:         "sku-1",
			ForecastDate:  "2025-12-22",
			ForecastValue: 100,
		},
		outletName:  sql.NullString{String: "Downtown", Valid: true},
		skuName:     sql.NullString{String: "Croissant", Valid: true},
		price:       decimal.NullDecimal{Decimal: decimal.NewFromInt(3), Valid: true},
		minQuantity: sql.NullInt64{Int64: 0, Valid: true},
	}
}

func TestResolveAndAdjustDropsUnresolvedReferences(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*forecastScan)
	}{
		{"missing outlet", func(s *forecastScan) { s.outletName = sql.NullString{} }},
		{"missing sku name", func(s *forecastScan) { s.skuName = sql.NullString{} }},
		{"missing sku price", func(s *forecastScan) { s.price = decimal.NullDecimal{} }},
	}
	for _, c := range cases {
		s := resolvedScan()
		c.mutate(&s)
		_, ok := resolveAndAdjust(s, nil)
		assert.False(t, ok, c.name)
	}
}

func TestResolveAndAdjustAppliesEvents(t *testing.T) {
	uplift := 20
	ev := models.Event{
		ID:        "ev-1",
		Name:      "Christmas Week",
		Type:      models.EventTypeHoliday,
		StartDate: "2025-12-20",
		EndDate:   "2025-12-26",
		Mode:      models.EventModeUplift,
		UpliftPct: uplift,
		Enabled:   true,
	}

	adj, ok := resolveAndAdjust(resolvedScan(), []models.Event{ev})
	assert.True(t, ok)
	assert.Equal(t, "Downtown", adj.OutletName)
	assert.Equal(t, "Croissant", adj.SKUName)
	assert.Equal(t, 120, adj.AdjustedValue)
	assert.True(t, adj.UpliftApplied)
	assert.Equal(t, "360", adj.Revenue.String())
	if assert.Len(t, adj.Events, 1) {
		assert.Equal(t, "ev-1", adj.Events[0].ID)
	}
}
