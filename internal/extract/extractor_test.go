package extract

import (
	"reflect"
	"testing"

	"hotel_assistant/internal/domain"
)

func TestExtract_FullScenario(t *testing.T) {
	e := New()

	prefs := e.Extract("I'd like a family hotel in Paris with pool and wifi for 2 guests", domain.Preferences{})

	if prefs.Location != "Paris" {
		t.Errorf("location = %q, want Paris", prefs.Location)
	}
	if prefs.HotelType != "family-friendly" {
		t.Errorf("hotel type = %q, want family-friendly", prefs.HotelType)
	}
	if !reflect.DeepEqual(prefs.PreferredAmenities, []string{"pool", "wifi"}) {
		t.Errorf("amenities = %v, want [pool wifi]", prefs.PreferredAmenities)
	}
	if prefs.Guests != 2 {
		t.Errorf("guests = %d, want 2", prefs.Guests)
	}
}

func TestExtract_Location(t *testing.T) {
	e := New()

	tests := []struct {
		name    string
		message string
		prior   string
		want    string
	}{
		{"in phrase", "looking for a place in barcelona", "", "Barcelona"},
		{"near phrase", "somewhere near lisbon, please", "", "Lisbon"},
		{"suffix phrase", "bangkok hotel would be great", "", "Bangkok"},
		{"stopword rejected", "a hotel would be nice", "", ""},
		{"too short rejected", "stay in ny please", "", ""},
		{"overwrites prior", "actually in rome instead", "Paris", "Rome"},
		{"no match keeps prior", "something with breakfast", "Paris", "Paris"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.message, domain.Preferences{Location: tt.prior})
			if got.Location != tt.want {
				t.Errorf("location = %q, want %q", got.Location, tt.want)
			}
		})
	}
}

func TestExtract_DatePair(t *testing.T) {
	e := New()

	prefs := e.Extract("checking in 12/01/2025 and leaving 12/05/2025", domain.Preferences{})
	if prefs.CheckInDate != "12/01/2025" || prefs.CheckOutDate != "12/05/2025" {
		t.Fatalf("dates = %q/%q, want 12/01/2025 and 12/05/2025", prefs.CheckInDate, prefs.CheckOutDate)
	}

	// A later lone date must not disturb either recorded date.
	prefs = e.Extract("maybe 12/10/2025 works better", prefs)
	if prefs.CheckInDate != "12/01/2025" {
		t.Errorf("check-in overwritten to %q", prefs.CheckInDate)
	}
	if prefs.CheckOutDate != "12/05/2025" {
		t.Errorf("check-out overwritten to %q", prefs.CheckOutDate)
	}
}

func TestExtract_SingleDateFillsCheckInOnly(t *testing.T) {
	e := New()

	prefs := e.Extract("arriving 3/14/2026", domain.Preferences{})
	if prefs.CheckInDate != "3/14/2026" {
		t.Errorf("check-in = %q, want 3/14/2026", prefs.CheckInDate)
	}
	if prefs.CheckOutDate != "" {
		t.Errorf("check-out = %q, want empty", prefs.CheckOutDate)
	}
}

func TestExtract_BudgetPriority(t *testing.T) {
	e := New()

	// "under" must win over "around" and the bare dollar form.
	prefs := e.Extract("under $80 near the beach, around $500", domain.Preferences{})
	if prefs.BudgetRange != "Under $80" {
		t.Errorf("budget = %q, want Under $80", prefs.BudgetRange)
	}
}

func TestExtract_BudgetLabels(t *testing.T) {
	e := New()

	tests := []struct {
		message string
		want    string
	}{
		{"under $80 please", "Under $80"},
		{"budget of $150", "$100-$200"},
		{"around $250 a night", "Around $250"},
		{"$99 tops", "Under $99"},
		{"less than 120 dollars", "$70-$170"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := e.Extract(tt.message, domain.Preferences{})
			if got.BudgetRange != tt.want {
				t.Errorf("budget = %q, want %q", got.BudgetRange, tt.want)
			}
		})
	}
}

func TestExtract_AmenitiesAccumulate(t *testing.T) {
	e := New()

	prefs := e.Extract("needs a pool", domain.Preferences{})
	prefs = e.Extract("and free wifi", prefs)
	prefs = e.Extract("what about breakfast", prefs)

	want := []string{"pool", "wifi", "breakfast"}
	if !reflect.DeepEqual(prefs.PreferredAmenities, want) {
		t.Fatalf("amenities = %v, want %v", prefs.PreferredAmenities, want)
	}

	// Monotonic: a turn without any amenity keyword removes nothing.
	prefs = e.Extract("2 guests, arriving 12/01/2025", prefs)
	if !reflect.DeepEqual(prefs.PreferredAmenities, want) {
		t.Fatalf("amenities after unrelated turn = %v, want %v", prefs.PreferredAmenities, want)
	}
}

func TestExtract_AmenityNoDuplicates(t *testing.T) {
	e := New()

	// "pool" and "swimming" map to the same tag; it must appear once.
	prefs := e.Extract("a swimming pool is a must", domain.Preferences{})
	if !reflect.DeepEqual(prefs.PreferredAmenities, []string{"pool"}) {
		t.Errorf("amenities = %v, want [pool]", prefs.PreferredAmenities)
	}
}

func TestExtract_HotelType(t *testing.T) {
	e := New()

	tests := []struct {
		message string
		want    string
	}{
		{"a luxury stay", "luxury"},
		{"family trip", "family-friendly"},
		{"romantic getaway", "romantic"},
		{"some boutique place", "boutique"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := e.Extract(tt.message, domain.Preferences{})
			if got.HotelType != tt.want {
				t.Errorf("hotel type = %q, want %q", got.HotelType, tt.want)
			}
		})
	}

	// First table entry wins within a message, and a later match overwrites.
	prefs := e.Extract("luxury resort weekend", domain.Preferences{})
	if prefs.HotelType != "luxury" {
		t.Errorf("hotel type = %q, want luxury", prefs.HotelType)
	}
	prefs = e.Extract("on second thought, boutique", prefs)
	if prefs.HotelType != "boutique" {
		t.Errorf("hotel type = %q, want boutique", prefs.HotelType)
	}
}

func TestExtract_Guests(t *testing.T) {
	e := New()

	prefs := e.Extract("4 people total", domain.Preferences{})
	if prefs.Guests != 4 {
		t.Errorf("guests = %d, want 4", prefs.Guests)
	}
	prefs = e.Extract("make that 2 adults", prefs)
	if prefs.Guests != 2 {
		t.Errorf("guests = %d, want 2", prefs.Guests)
	}
}

func TestExtract_PriorNotMutated(t *testing.T) {
	e := New()

	prior := domain.Preferences{PreferredAmenities: []string{"pool"}}
	_ = e.Extract("with spa and bar", prior)
	if !reflect.DeepEqual(prior.PreferredAmenities, []string{"pool"}) {
		t.Fatalf("prior snapshot mutated: %v", prior.PreferredAmenities)
	}
}

func TestExtract_MalformedInput(t *testing.T) {
	e := New()

	// Nothing recognizable: every field stays zero, nothing panics.
	prefs := e.Extract("?!?? 12/ $ in", domain.Preferences{})
	if prefs.Location != "" || prefs.CheckInDate != "" || prefs.Guests != 0 || prefs.BudgetRange != "" {
		t.Fatalf("unexpected extraction from noise: %+v", prefs)
	}
}
