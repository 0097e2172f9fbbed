package forecast

import (
	"math"

	"github.com/shopspring/decimal"

	"app/models"
)

// Adjustment is the result of applying the applicable events to one raw
// forecast value.
type Adjustment struct {
	// Quantity is the final adjusted forecast in whole units, after the
	// zero clamp and the min-quantity floor.
	Quantity int
	// Multiplier is the composed uplift multiplier (1.0 when no uplift
	// event applies). It is reported un-clamped even when the quantity was
	// clamped to zero.
	Multiplier float64
	// UpliftApplied is true when at least one uplift event with a non-zero
	// percentage changed the rounded value before the floor substitution.
	UpliftApplied bool
	// IsOverridden is true when the min-quantity floor replaced the
	// adjusted value.
	IsOverridden bool
	// Revenue is Quantity times the SKU price per unit.
	Revenue decimal.Decimal
}

// Compose combines the applicable events' uplift percentages into a single
// multiplier and applies it to a raw forecast value.
//
// Percentages are additive, not multiplicative: two +10% events yield +20%.
// Flag-mode events never contribute. The multiplied value rounds to whole
// units; overlapping negative uplifts can drive it below zero, in which case
// the quantity clamps to zero (negative demand has no order-planning meaning).
// If the result then falls below a positive minQuantity, the floor replaces it.
func Compose(rawValue float64, events []models.Event, minQuantity int, pricePerUnit decimal.Decimal) Adjustment {
	accumulator := 0.0
	hasUplift := false
	for _, ev := range events {
		if ev.Mode != models.EventModeUplift || ev.UpliftPct == 0 {
			continue
		}
		accumulator += float64(ev.UpliftPct) / 100
		hasUplift = true
	}
	multiplier := 1 + accumulator

	adjusted := int(math.Round(rawValue * multiplier))
	if adjusted < 0 {
		adjusted = 0
	}

	adj := Adjustment{
		Quantity:      adjusted,
		Multiplier:    multiplier,
		UpliftApplied: hasUplift && adjusted != int(math.Round(rawValue)),
	}

	if adj.Quantity < minQuantity && minQuantity > 0 {
		adj.Quantity = minQuantity
		adj.IsOverridden = true
	}

	adj.Revenue = decimal.NewFromInt(int64(adj.Quantity)).Mul(pricePerUnit)
	return adj
}

// Bound defaults for rows where the model emitted no interval, and the
// confidence assigned to such rows.
const (
	DefaultLowerBoundRatio = 0.85
	DefaultUpperBoundRatio = 1.15
	DefaultConfidence      = "medium"
)

// Bounds returns the forecast interval for a row, substituting the default
// ratios when the model supplied none.
func Bounds(row models.ForecastRow) (lower, upper float64) {
	lower = row.ForecastValue * DefaultLowerBoundRatio
	upper = row.ForecastValue * DefaultUpperBoundRatio
	if row.LowerBound != nil {
		lower = *row.LowerBound
	}
	if row.UpperBound != nil {
		upper = *row.UpperBound
	}
	return lower, upper
}

// Confidence returns the row's confidence rating, defaulted when absent.
func Confidence(row models.ForecastRow) string {
	if row.ConfidenceRating != nil {
		return *row.ConfidenceRating
	}
	return DefaultConfidence
}
