package forecast

import (
	"testing"

	"app/models"
)

func strPtr(s string) *string { return &s }

func upliftEvent(id string, start, end string, pct int) models.Event {
	return models.Event{
		ID:        id,
		Name:      id,
		Type:      models.EventTypeHoliday,
		StartDate: start,
		EndDate:   end,
		Mode:      models.EventModeUplift,
		UpliftPct: pct,
		Enabled:   true,
	}
}

func TestApplicableEventsSkipsDisabled(t *testing.T) {
	ev := upliftEvent("e1", "2025-12-20", "2025-12-26", 20)
	ev.Enabled = false

	scope := RowScope{OutletID: "O1", SKUID: "S1"}
	got := ApplicableEvents([]models.Event{ev}, "2025-12-23", scope)
	if len(got) != 0 {
		t.Fatalf("disabled event must never match, got %d events", len(got))
	}
}

func TestApplicableEventsDateRange(t *testing.T) {
	ev := upliftEvent("e1", "2025-12-20", "2025-12-26", 20)
	scope := RowScope{OutletID: "O1", SKUID: "S1"}

	cases := []struct {
		date string
		want bool
	}{
		{"2025-12-19", false},
		{"2025-12-20", true}, // inclusive start
		{"2025-12-23", true},
		{"2025-12-26", true}, // inclusive end
		{"2025-12-27", false},
		{"2024-12-23", false},
	}
	for _, c := range cases {
		got := ApplicableEvents([]models.Event{ev}, c.date, scope)
		if (len(got) == 1) != c.want {
			t.Fatalf("date %s: matched=%v, want %v", c.date, len(got) == 1, c.want)
		}
	}
}

func TestScopeMatchingIsConjunctive(t *testing.T) {
	ev := upliftEvent("e1", "2025-12-20", "2025-12-26", 20)
	ev.ScopeOutletID = strPtr("O1")
	ev.ScopeSKUID = strPtr("S1")

	cases := []struct {
		name  string
		scope RowScope
		want  bool
	}{
		{"both match", RowScope{OutletID: "O1", SKUID: "S1"}, true},
		{"outlet mismatch", RowScope{OutletID: "O2", SKUID: "S1"}, false},
		{"sku mismatch", RowScope{OutletID: "O1", SKUID: "S2"}, false},
		{"both mismatch", RowScope{OutletID: "O2", SKUID: "S2"}, false},
	}
	for _, c := range cases {
		if got := ScopeMatches(ev, c.scope); got != c.want {
			t.Fatalf("%s: ScopeMatches = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestScopeCategoryConstraint(t *testing.T) {
	ev := upliftEvent("e1", "2025-12-20", "2025-12-26", 20)
	ev.ScopeCategoryID = strPtr("C1")

	if !ScopeMatches(ev, RowScope{OutletID: "O1", CategoryID: strPtr("C1"), SKUID: "S1"}) {
		t.Fatalf("matching category must pass")
	}
	if ScopeMatches(ev, RowScope{OutletID: "O1", CategoryID: strPtr("C2"), SKUID: "S1"}) {
		t.Fatalf("mismatching category must fail")
	}
	// An uncategorized SKU cannot satisfy a category constraint.
	if ScopeMatches(ev, RowScope{OutletID: "O1", CategoryID: nil, SKUID: "S1"}) {
		t.Fatalf("nil row category must fail a category-constrained event")
	}
}

func TestUnscopedEventMatchesEverything(t *testing.T) {
	ev := upliftEvent("e1", "2025-12-20", "2025-12-26", 20)

	scopes := []RowScope{
		{OutletID: "O1", SKUID: "S1"},
		{OutletID: "O9", CategoryID: strPtr("C3"), SKUID: "S77"},
	}
	for _, s := range scopes {
		if !ScopeMatches(ev, s) {
			t.Fatalf("unscoped event must match %+v", s)
		}
	}
}

func TestApplicableEventsPreservesInputOrder(t *testing.T) {
	events := []models.Event{
		upliftEvent("first", "2025-12-01", "2025-12-31", 10),
		upliftEvent("second", "2025-12-01", "2025-12-31", 15),
		upliftEvent("third", "2025-12-01", "2025-12-31", 5),
	}
	got := ApplicableEvents(events, "2025-12-10", RowScope{OutletID: "O1", SKUID: "S1"})
	if len(got) != 3 {
		t.Fatalf("expected all 3 events, got %d", len(got))
	}
	for i, id := range []string{"first", "second", "third"} {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}
