package forecast

import (
	"sort"
	"time"

	"app/models"
)

// Comparison year offsets supported by the dashboard.
const (
	OffsetLastYear    = -1
	OffsetTwoYearsAgo = -2
)

// Bucket labels for same-event aggregation, where historical dates do not map
// day-for-day onto the current occurrence.
const (
	BucketLY  = "LY"
	BucketLY1 = "LY-1"
)

const isoDateLayout = "2006-01-02"

// AlignmentStrategy maps a historical sale onto the forecast bucket it should
// be compared under.
type AlignmentStrategy interface {
	// Align returns the bucket for the sale and whether the sale
	// participates in the comparison at all.
	Align(sale models.HistoricalSale) (bucket string, ok bool)
	// Method names the comparison semantics in effect.
	Method() string
}

// StrategyFor selects the alignment strategy for an analysis view.
//
// event may be nil (the "all events" view), which always compares
// calendar-aligned. Same-event alignment applies only when the selected
// event's comparison method is same_event and it carries an explicit
// historical range for the requested offset; otherwise it falls back to
// calendar alignment.
func StrategyFor(event *models.Event, offset int) AlignmentStrategy {
	if event == nil || event.ComparisonMethod != models.ComparisonSameEvent {
		return calendarAlignment{offset: offset}
	}
	switch offset {
	case OffsetLastYear:
		if event.HistoricalLYStartDate != nil && event.HistoricalLYEndDate != nil {
			return sameEventAlignment{
				start: *event.HistoricalLYStartDate,
				end:   *event.HistoricalLYEndDate,
				label: BucketLY,
			}
		}
	case OffsetTwoYearsAgo:
		if event.HistoricalLY2StartDate != nil && event.HistoricalLY2EndDate != nil {
			return sameEventAlignment{
				start: *event.HistoricalLY2StartDate,
				end:   *event.HistoricalLY2EndDate,
				label: BucketLY1,
			}
		}
	}
	return calendarAlignment{offset: offset}
}

// calendarAlignment shifts the sale date forward by the offset in whole years,
// keeping month and day, assuming demand repeats on the same calendar date.
type calendarAlignment struct{ offset int }

func (a calendarAlignment) Align(sale models.HistoricalSale) (string, bool) {
	d, err := time.Parse(isoDateLayout, sale.SaleDate)
	if err != nil {
		return "", false
	}
	// offset is negative (years back), so shifting forward negates it.
	return d.AddDate(-a.offset, 0, 0).Format(isoDateLayout), true
}

func (a calendarAlignment) Method() string { return models.ComparisonCalendar }

// sameEventAlignment admits only sales inside the event's explicit historical
// range and collapses them into one labeled bucket, because the occasion's
// past dates do not line up with its current ones.
type sameEventAlignment struct {
	start, end string
	label      string
}

func (a sameEventAlignment) Align(sale models.HistoricalSale) (string, bool) {
	if sale.SaleDate < a.start || sale.SaleDate > a.end {
		return "", false
	}
	return a.label, true
}

func (a sameEventAlignment) Method() string { return models.ComparisonSameEvent }

// FilterByEventScope drops historical rows outside the event's scope
// dimensions, mirroring the rules applied to forecast rows. A nil event keeps
// everything.
func FilterByEventScope(sales []models.HistoricalSale, event *models.Event) []models.HistoricalSale {
	if event == nil {
		return sales
	}
	kept := make([]models.HistoricalSale, 0, len(sales))
	for _, s := range sales {
		rowScope := RowScope{OutletID: s.OutletID, CategoryID: s.CategoryID, SKUID: s.SKUID}
		if ScopeMatches(*event, rowScope) {
			kept = append(kept, s)
		}
	}
	return kept
}

// AlignSales runs every sale through the strategy and aggregates the admitted
// ones per bucket, returning buckets sorted by label for deterministic output.
func AlignSales(sales []models.HistoricalSale, strategy AlignmentStrategy) []models.ComparisonBucket {
	totals := make(map[string]*models.ComparisonBucket)
	for _, s := range sales {
		bucket, ok := strategy.Align(s)
		if !ok {
			continue
		}
		agg, exists := totals[bucket]
		if !exists {
			agg = &models.ComparisonBucket{Bucket: bucket}
			totals[bucket] = agg
		}
		agg.ActualSales += s.ActualSales
		agg.Revenue = agg.Revenue.Add(s.Revenue)
	}

	buckets := make([]models.ComparisonBucket, 0, len(totals))
	for _, agg := range totals {
		buckets = append(buckets, *agg)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Bucket < buckets[j].Bucket })
	return buckets
}
