package models

import "github.com/shopspring/decimal"

// ForecastRow is one outlet×SKU×date prediction as produced by the model.
// Bounds and confidence are optional; defaults are filled in by the engine.
type ForecastRow struct {
	OutletID         string   `json:"outlet_id"`
	SKUID            string   `json:"sku_id"`
	ForecastDate     string   `json:"forecast_date"`
	ForecastValue    float64  `json:"forecast_value"`
	LowerBound       *float64 `json:"lower_bound,omitempty"`
	UpperBound       *float64 `json:"upper_bound,omitempty"`
	ConfidenceRating *string  `json:"confidence_rating,omitempty"`
}

// EventBadge is the slimmed event representation attached to adjusted rows
// so the UI can badge which events applied, flag-mode ones included.
type EventBadge struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Mode      string `json:"mode"`
	UpliftPct int    `json:"uplift_pct"`
}

// AdjustedForecast is one forecast row after event adjustment, ready for the
// detail table and CSV export.
type AdjustedForecast struct {
	OutletID         string          `json:"outlet_id"`
	OutletName       string          `json:"outlet_name"`
	SKUID            string          `json:"sku_id"`
	SKUName          string          `json:"sku_name"`
	CategoryID       *string         `json:"category_id,omitempty"`
	ForecastDate     string          `json:"forecast_date"`
	RawValue         float64         `json:"raw_value"`
	AdjustedValue    int             `json:"adjusted_value"`
	LowerBound       float64         `json:"lower_bound"`
	UpperBound       float64         `json:"upper_bound"`
	ConfidenceRating string          `json:"confidence_rating"`
	Multiplier       float64         `json:"multiplier"`
	UpliftApplied    bool            `json:"uplift_applied"`
	IsOverridden     bool            `json:"is_overridden"`
	Revenue          decimal.Decimal `json:"revenue"`
	Events           []EventBadge    `json:"events"`
}

// ForecastSummary aggregates an adjusted forecast window.
type ForecastSummary struct {
	TotalUnits     int             `json:"total_units"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	RowCount       int             `json:"row_count"`
	UpliftedRows   int             `json:"uplifted_rows"`
	OverriddenRows int             `json:"overridden_rows"`
	DroppedRows    int             `json:"dropped_rows"`
}

// HistoricalSale is an actual past sales record used for trend comparison.
// CategoryID is resolved from the SKU so event scope rules can be reapplied.
type HistoricalSale struct {
	OutletID    string          `json:"outlet_id"`
	SKUID       string          `json:"sku_id"`
	CategoryID  *string         `json:"category_id,omitempty"`
	SaleDate    string          `json:"sale_date"`
	ActualSales int             `json:"actual_sales"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// ComparisonBucket is one aligned historical bucket: either a shifted calendar
// date or a whole-occasion label ("LY" / "LY-1").
type ComparisonBucket struct {
	Bucket      string          `json:"bucket"`
	ActualSales int             `json:"actual_sales"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// ForecastBucket is one current-forecast date with adjusted totals, for the
// comparison chart.
type ForecastBucket struct {
	Date     string          `json:"date"`
	Units    int             `json:"units"`
	Revenue  decimal.Decimal `json:"revenue"`
	Uplifted bool            `json:"uplifted"`
}

// ComparisonResponse pairs the current forecast series with one aligned
// historical series.
type ComparisonResponse struct {
	Offset     int                `json:"offset"`
	Method     string             `json:"method"`
	EventID    *string            `json:"event_id,omitempty"`
	Current    []ForecastBucket   `json:"current"`
	Historical []ComparisonBucket `json:"historical"`
}
