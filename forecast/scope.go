// Package forecast implements the event-uplift and historical-comparison
// engine behind the dashboard: deciding which events apply to a forecast row,
// composing their uplift percentages into an adjusted quantity, and mapping
// historical sales onto comparable forecast buckets.
//
// The package is pure computation. Callers fetch events, forecast rows, SKUs
// and historical sales once per request and pass them in as snapshots; nothing
// here touches the database or mutates its inputs, so re-invocation with the
// same inputs always yields the same result.
//
// All dates are ISO 8601 strings (YYYY-MM-DD). Lexical comparison on that
// format is chronological comparison, and the matching rules depend on it.
package forecast

import "app/models"

// RowScope identifies the dimension values of one forecast or sales row.
// CategoryID is a pointer because a SKU may be uncategorized.
type RowScope struct {
	OutletID   string
	CategoryID *string
	SKUID      string
}

// ApplicableEvents returns the events that apply to a row on the given date.
// An event applies when it is enabled, the date falls inside its inclusive
// range, and every scope dimension it constrains matches the row. Input order
// is preserved; callers must not read meaning into position beyond that.
func ApplicableEvents(events []models.Event, date string, scope RowScope) []models.Event {
	applicable := make([]models.Event, 0)
	for _, ev := range events {
		if !ev.Enabled {
			continue
		}
		if date < ev.StartDate || date > ev.EndDate {
			continue
		}
		if !ScopeMatches(ev, scope) {
			continue
		}
		applicable = append(applicable, ev)
	}
	return applicable
}

// ScopeMatches reports whether all of the event's scope constraints hold for
// the row. Constraints are conjunctive; a nil scope field is unconstrained.
// An event with all three fields nil matches every row.
func ScopeMatches(ev models.Event, scope RowScope) bool {
	if ev.ScopeOutletID != nil && *ev.ScopeOutletID != scope.OutletID {
		return false
	}
	if ev.ScopeCategoryID != nil {
		if scope.CategoryID == nil || *ev.ScopeCategoryID != *scope.CategoryID {
			return false
		}
	}
	if ev.ScopeSKUID != nil && *ev.ScopeSKUID != scope.SKUID {
		return false
	}
	return true
}

// Badges converts applicable events into their display representation.
func Badges(events []models.Event) []models.EventBadge {
	badges := make([]models.EventBadge, 0, len(events))
	for _, ev := range events {
		badges = append(badges, models.EventBadge{
			ID:        ev.ID,
			Name:      ev.Name,
			Type:      ev.Type,
			Mode:      ev.Mode,
			UpliftPct: ev.UpliftPct,
		})
	}
	return badges
}
