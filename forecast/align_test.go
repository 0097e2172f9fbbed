package forecast

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"app/models"
)

func sale(outlet, sku, date string, qty int) models.HistoricalSale {
	return models.HistoricalSale{
		OutletID:    outlet,
		SKUID:       sku,
		SaleDate:    date,
		ActualSales: qty,
		Revenue:     decimal.NewFromInt(int64(qty)),
	}
}

func TestCalendarAlignmentShiftsYears(t *testing.T) {
	cases := []struct {
		date   string
		offset int
		want   string
	}{
		{"2024-03-15", OffsetLastYear, "2025-03-15"},
		{"2024-03-15", OffsetTwoYearsAgo, "2026-03-15"},
		{"2023-12-31", OffsetLastYear, "2024-12-31"},
		{"2024-02-29", OffsetLastYear, "2025-03-01"}, // leap day normalizes forward
	}
	for _, c := range cases {
		strategy := StrategyFor(nil, c.offset)
		bucket, ok := strategy.Align(sale("O1", "S1", c.date, 1))
		if !ok || bucket != c.want {
			t.Fatalf("Align(%s, %d) = (%q, %v), want %q", c.date, c.offset, bucket, ok, c.want)
		}
	}
}

func TestCalendarAlignmentRejectsMalformedDate(t *testing.T) {
	strategy := StrategyFor(nil, OffsetLastYear)
	_, ok := strategy.Align(sale("O1", "S1", "15/03/2024", 1))
	assert.False(t, ok)
}

func sameEventFixture() *models.Event {
	return &models.Event{
		ID:                     "lunar",
		Name:                   "Lunar Festival",
		Type:                   models.EventTypeHoliday,
		StartDate:              "2025-11-08",
		EndDate:                "2025-11-24",
		Mode:                   models.EventModeFlag,
		Enabled:                true,
		ComparisonMethod:       models.ComparisonSameEvent,
		HistoricalLYStartDate:  strPtr("2024-10-20"),
		HistoricalLYEndDate:    strPtr("2024-11-05"),
		HistoricalLY2StartDate: strPtr("2023-10-01"),
		HistoricalLY2EndDate:   strPtr("2023-10-17"),
	}
}

func TestSameEventAlignmentBuckets(t *testing.T) {
	ev := sameEventFixture()

	strategy := StrategyFor(ev, OffsetLastYear)
	assert.Equal(t, models.ComparisonSameEvent, strategy.Method())

	bucket, ok := strategy.Align(sale("O1", "S1", "2024-10-25", 5))
	assert.True(t, ok, "sale inside the LY range is included")
	assert.Equal(t, BucketLY, bucket)

	_, ok = strategy.Align(sale("O1", "S1", "2024-11-10", 5))
	assert.False(t, ok, "sale outside the LY range is excluded")

	strategy = StrategyFor(ev, OffsetTwoYearsAgo)
	bucket, ok = strategy.Align(sale("O1", "S1", "2023-10-10", 5))
	assert.True(t, ok)
	assert.Equal(t, BucketLY1, bucket)
}

func TestSameEventWithoutRangesFallsBackToCalendar(t *testing.T) {
	ev := sameEventFixture()
	ev.HistoricalLYStartDate = nil
	ev.HistoricalLYEndDate = nil

	strategy := StrategyFor(ev, OffsetLastYear)
	assert.Equal(t, models.ComparisonCalendar, strategy.Method())

	bucket, ok := strategy.Align(sale("O1", "S1", "2024-03-15", 1))
	assert.True(t, ok)
	assert.Equal(t, "2025-03-15", bucket)
}

func TestCalendarEventIgnoresExplicitRanges(t *testing.T) {
	ev := sameEventFixture()
	ev.ComparisonMethod = models.ComparisonCalendar

	strategy := StrategyFor(ev, OffsetLastYear)
	assert.Equal(t, models.ComparisonCalendar, strategy.Method())
}

func TestFilterByEventScope(t *testing.T) {
	ev := sameEventFixture()
	ev.ScopeOutletID = strPtr("O1")

	sales := []models.HistoricalSale{
		sale("O1", "S1", "2024-10-25", 5),
		sale("O2", "S1", "2024-10-25", 7),
		sale("O1", "S2", "2024-10-26", 3),
	}
	kept := FilterByEventScope(sales, ev)
	assert.Len(t, kept, 2)
	for _, s := range kept {
		assert.Equal(t, "O1", s.OutletID)
	}

	assert.Len(t, FilterByEventScope(sales, nil), 3)
}

func TestAlignSalesAggregatesPerBucket(t *testing.T) {
	ev := sameEventFixture()
	sales := []models.HistoricalSale{
		sale("O1", "S1", "2024-10-21", 5),
		sale("O1", "S1", "2024-10-22", 7),
		sale("O1", "S1", "2024-11-10", 100), // outside the LY range
	}

	buckets := AlignSales(sales, StrategyFor(ev, OffsetLastYear))
	assert.Len(t, buckets, 1)
	assert.Equal(t, BucketLY, buckets[0].Bucket)
	assert.Equal(t, 12, buckets[0].ActualSales)
	assert.True(t, buckets[0].Revenue.Equal(decimal.NewFromInt(12)))
}

func TestAlignSalesCalendarPerDate(t *testing.T) {
	sales := []models.HistoricalSale{
		sale("O1", "S1", "2024-12-23", 4),
		sale("O1", "S2", "2024-12-23", 6),
		sale("O1", "S1", "2024-12-24", 9),
	}

	buckets := AlignSales(sales, StrategyFor(nil, OffsetLastYear))
	assert.Len(t, buckets, 2)
	assert.Equal(t, "2025-12-23", buckets[0].Bucket)
	assert.Equal(t, 10, buckets[0].ActualSales)
	assert.Equal(t, "2025-12-24", buckets[1].Bucket)
	assert.Equal(t, 9, buckets[1].ActualSales)
}
