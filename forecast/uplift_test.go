package forecast

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"app/models"
)

func flagEvent(id string) models.Event {
	return models.Event{
		ID:        id,
		Name:      id,
		Type:      models.EventTypeHoliday,
		StartDate: "2025-12-20",
		EndDate:   "2025-12-26",
		Mode:      models.EventModeFlag,
		Enabled:   true,
	}
}

func TestComposeAdditiveNotMultiplicative(t *testing.T) {
	events := []models.Event{
		upliftEvent("plus10", "2025-12-20", "2025-12-26", 10),
		upliftEvent("plus15", "2025-12-20", "2025-12-26", 15),
	}
	adj := Compose(100, events, 0, decimal.Zero)

	// 100 × (1 + 0.10 + 0.15) = 125, not 100 × 1.10 × 1.15 = 126.5.
	assert.Equal(t, 125, adj.Quantity)
	assert.InDelta(t, 1.25, adj.Multiplier, 1e-9)
	assert.True(t, adj.UpliftApplied)
	assert.False(t, adj.IsOverridden)
}

func TestComposeNoEvents(t *testing.T) {
	adj := Compose(100.4, nil, 0, decimal.NewFromInt(3))
	assert.Equal(t, 100, adj.Quantity)
	assert.InDelta(t, 1.0, adj.Multiplier, 1e-9)
	assert.False(t, adj.UpliftApplied)
	assert.False(t, adj.IsOverridden)
	assert.True(t, adj.Revenue.Equal(decimal.NewFromInt(300)))
}

func TestComposeSingleUplift(t *testing.T) {
	events := []models.Event{upliftEvent("xmas", "2025-12-20", "2025-12-26", 20)}
	adj := Compose(100, events, 0, decimal.NewFromFloat(2.5))

	assert.Equal(t, 120, adj.Quantity)
	assert.True(t, adj.UpliftApplied)
	assert.False(t, adj.IsOverridden)
	assert.True(t, adj.Revenue.Equal(decimal.NewFromInt(300)), "revenue = 120 × 2.5")
}

func TestComposeMinQuantityFloor(t *testing.T) {
	events := []models.Event{upliftEvent("xmas", "2025-12-20", "2025-12-26", 20)}
	adj := Compose(100, events, 150, decimal.NewFromInt(1))

	assert.Equal(t, 150, adj.Quantity)
	assert.True(t, adj.IsOverridden)
	assert.True(t, adj.UpliftApplied)
	assert.True(t, adj.Revenue.Equal(decimal.NewFromInt(150)))
}

func TestComposeZeroMinQuantityNeverFloors(t *testing.T) {
	events := []models.Event{upliftEvent("deep-cut", "2025-12-20", "2025-12-26", -90)}
	adj := Compose(100, events, 0, decimal.NewFromInt(1))

	assert.Equal(t, 10, adj.Quantity)
	assert.False(t, adj.IsOverridden)
}

func TestComposeFlagEventsContributeNothing(t *testing.T) {
	events := []models.Event{flagEvent("training-signal")}
	adj := Compose(100, events, 0, decimal.NewFromInt(1))

	assert.Equal(t, 100, adj.Quantity)
	assert.InDelta(t, 1.0, adj.Multiplier, 1e-9)
	assert.False(t, adj.UpliftApplied, "flag events never set upliftApplied")
}

func TestComposeZeroPctUpliftDoesNotApply(t *testing.T) {
	events := []models.Event{upliftEvent("noop", "2025-12-20", "2025-12-26", 0)}
	adj := Compose(100, events, 0, decimal.NewFromInt(1))

	assert.Equal(t, 100, adj.Quantity)
	assert.False(t, adj.UpliftApplied)
}

func TestComposeNegativeMultiplierClampsToZero(t *testing.T) {
	// Two overlapping negative uplifts drive the composed multiplier to -0.5.
	// The quantity clamps to zero rather than going negative; the multiplier
	// itself is reported un-clamped.
	events := []models.Event{
		upliftEvent("cancel", "2025-12-20", "2025-12-26", -100),
		upliftEvent("half-off", "2025-12-20", "2025-12-26", -50),
	}
	adj := Compose(100, events, 0, decimal.NewFromInt(4))

	assert.Equal(t, 0, adj.Quantity)
	assert.InDelta(t, -0.5, adj.Multiplier, 1e-9)
	assert.True(t, adj.UpliftApplied)
	assert.True(t, adj.Revenue.Equal(decimal.Zero))
}

func TestComposeClampThenFloor(t *testing.T) {
	// The floor still applies after the zero clamp.
	events := []models.Event{upliftEvent("cancel", "2025-12-20", "2025-12-26", -100)}
	adj := Compose(100, events, 25, decimal.NewFromInt(1))

	assert.Equal(t, 25, adj.Quantity)
	assert.True(t, adj.IsOverridden)
}

func TestComposeRounding(t *testing.T) {
	cases := []struct {
		raw  float64
		pct  int
		want int
	}{
		{10, 5, 11},   // 10.5 rounds half away from zero
		{10, 4, 10},   // 10.4 rounds down
		{33, 10, 36},  // 36.3 rounds down
		{15, -10, 14}, // 13.5 rounds up
	}
	for _, c := range cases {
		events := []models.Event{upliftEvent("e", "2025-01-01", "2025-12-31", c.pct)}
		adj := Compose(c.raw, events, 0, decimal.Zero)
		if adj.Quantity != c.want {
			t.Fatalf("Compose(%v, %+d%%) = %d, want %d", c.raw, c.pct, adj.Quantity, c.want)
		}
	}
}

func TestBoundsDefaults(t *testing.T) {
	row := models.ForecastRow{ForecastValue: 200}
	lower, upper := Bounds(row)
	assert.InDelta(t, 170, lower, 1e-9)
	assert.InDelta(t, 230, upper, 1e-9)

	lb, ub := 180.0, 260.0
	row.LowerBound, row.UpperBound = &lb, &ub
	lower, upper = Bounds(row)
	assert.InDelta(t, 180, lower, 1e-9)
	assert.InDelta(t, 260, upper, 1e-9)
}

func TestConfidenceDefault(t *testing.T) {
	row := models.ForecastRow{ForecastValue: 1}
	assert.Equal(t, "medium", Confidence(row))

	high := "high"
	row.ConfidenceRating = &high
	assert.Equal(t, "high", Confidence(row))
}

// End-to-end scenario: an unscoped uplift holiday applied through the matcher
// and the composer together.
func TestMatchThenCompose(t *testing.T) {
	ev := upliftEvent("xmas", "2025-12-20", "2025-12-26", 20)
	scope := RowScope{OutletID: "O1", SKUID: "S1"}

	applicable := ApplicableEvents([]models.Event{ev}, "2025-12-23", scope)
	assert.Len(t, applicable, 1)

	adj := Compose(100, applicable, 0, decimal.NewFromInt(1))
	assert.Equal(t, 120, adj.Quantity)
	assert.False(t, adj.IsOverridden)
	assert.True(t, adj.UpliftApplied)

	adj = Compose(100, applicable, 150, decimal.NewFromInt(1))
	assert.Equal(t, 150, adj.Quantity)
	assert.True(t, adj.IsOverridden)
}
