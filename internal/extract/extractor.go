// Package extract turns free-text chat messages into preference snapshots.
//
// Each field has its own recognizer; the extractor runs them in a fixed
// pipeline order over the lower-cased message. A recognizer that finds
// nothing leaves its field untouched, so extraction never fails.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"hotel_assistant/internal/domain"
)

// Recognizer updates one preference field from the lower-cased message.
type Recognizer interface {
	Recognize(lowered string, prefs *domain.Preferences)
}

type Extractor struct {
	pipeline []Recognizer
}

// New builds the extractor with the default recognizer pipeline. The order is
// fixed; amenity and type tables are scanned in declaration order so results
// are deterministic.
func New() *Extractor {
	return &Extractor{pipeline: []Recognizer{
		locationRecognizer{},
		dateRecognizer{},
		guestRecognizer{},
		budgetRecognizer{},
		amenityRecognizer{},
		typeRecognizer{},
	}}
}

// Extract returns the prior snapshot updated with whatever the message
// yields. The prior snapshot is never mutated.
func (e *Extractor) Extract(message string, prior domain.Preferences) domain.Preferences {
	lowered := strings.ToLower(message)
	updated := prior.Clone()
	for _, r := range e.pipeline {
		r.Recognize(lowered, &updated)
	}
	return updated
}

// ---- location ----

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`in\s+([a-z\s]+?)(?:\s|$|,)`),
	regexp.MustCompile(`(?:near|at|around)\s+([a-z\s]+?)(?:\s|$|,)`),
	regexp.MustCompile(`([a-z\s]+?)\s+(?:hotel|resort|accommodation)`),
}

var locationStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "hotel": {}, "resort": {},
}

type locationRecognizer struct{}

func (locationRecognizer) Recognize(lowered string, prefs *domain.Preferences) {
	for _, re := range locationPatterns {
		m := re.FindStringSubmatch(lowered)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if len(candidate) <= 2 {
			continue
		}
		if _, stop := locationStopwords[candidate]; stop {
			continue
		}
		prefs.Location = titleCase(candidate)
		return
	}
}

// titleCase uppercases the first letter of every word, matching how accepted
// locations are displayed ("new york" -> "New York").
func titleCase(s string) string {
	out := []rune(s)
	prevLetter := false
	for i, r := range out {
		if unicode.IsLetter(r) {
			if !prevLetter {
				out[i] = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return string(out)
}

// ---- dates ----

var (
	numericDateRe = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	monthDateRe   = regexp.MustCompile(`(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}`)
)

type dateRecognizer struct{}

// Recognize collects date-like tokens: every numeric token first, then every
// month-name token. Two or more tokens fill check-in then check-out by
// position; a lone token fills check-in only when it is still empty, and a
// recorded check-out is never touched by a single match. Assignment is purely
// positional, with no "from X to Y" anchoring; a known accuracy limitation
// kept for compatibility.
func (dateRecognizer) Recognize(lowered string, prefs *domain.Preferences) {
	var found []string
	found = append(found, numericDateRe.FindAllString(lowered, -1)...)
	for _, m := range monthDateRe.FindAllStringSubmatch(lowered, -1) {
		found = append(found, m[1])
	}

	switch {
	case len(found) >= 2:
		prefs.CheckInDate = found[0]
		prefs.CheckOutDate = found[1]
	case len(found) == 1:
		if prefs.CheckInDate == "" {
			prefs.CheckInDate = found[0]
		}
	}
}

// ---- guests ----

var guestRe = regexp.MustCompile(`(\d+)\s+(?:guest|person|people|adult)`)

type guestRecognizer struct{}

func (guestRecognizer) Recognize(lowered string, prefs *domain.Preferences) {
	m := guestRe.FindStringSubmatch(lowered)
	if m == nil {
		return
	}
	if n, err := strconv.Atoi(m[1]); err == nil {
		prefs.Guests = n
	}
}

// ---- budget ----

// Ordered: "under $80 ... around $500" must resolve to "Under $80", so the
// bare "$N" form is tried last.
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`under\s+\$?(\d+)`),
	regexp.MustCompile(`less\s+than\s+\$?(\d+)`),
	regexp.MustCompile(`budget\s+of\s+\$?(\d+)`),
	regexp.MustCompile(`around\s+\$?(\d+)`),
	regexp.MustCompile(`\$(\d+)`),
}

type budgetRecognizer struct{}

func (budgetRecognizer) Recognize(lowered string, prefs *domain.Preferences) {
	for _, re := range budgetPatterns {
		m := re.FindStringSubmatch(lowered)
		if m == nil {
			continue
		}
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		prefs.BudgetRange = budgetLabel(amount)
		return
	}
}

func budgetLabel(amount int) string {
	switch {
	case amount < 100:
		return "Under $" + strconv.Itoa(amount)
	case amount < 200:
		return "$" + strconv.Itoa(amount-50) + "-$" + strconv.Itoa(amount+50)
	default:
		return "Around $" + strconv.Itoa(amount)
	}
}

// ---- amenities ----

type keywordTag struct {
	keyword string
	tag     string
}

var amenityTable = []keywordTag{
	{"pool", "pool"},
	{"swimming", "pool"},
	{"wifi", "wifi"},
	{"internet", "wifi"},
	{"parking", "parking"},
	{"breakfast", "breakfast"},
	{"gym", "fitness"},
	{"fitness", "fitness"},
	{"spa", "spa"},
	{"beach", "beach access"},
	{"restaurant", "restaurant"},
	{"bar", "bar"},
	{"pet", "pet-friendly"},
}

type amenityRecognizer struct{}

// Recognize accumulates tags across turns: once added, a tag stays.
func (amenityRecognizer) Recognize(lowered string, prefs *domain.Preferences) {
	for _, kt := range amenityTable {
		if strings.Contains(lowered, kt.keyword) && !prefs.HasAmenity(kt.tag) {
			prefs.PreferredAmenities = append(prefs.PreferredAmenities, kt.tag)
		}
	}
}

// ---- hotel type ----

var typeTable = []keywordTag{
	{"luxury", "luxury"},
	{"budget", "budget"},
	{"boutique", "boutique"},
	{"resort", "resort"},
	{"business", "business"},
	{"family", "family-friendly"},
	{"romantic", "romantic"},
}

type typeRecognizer struct{}

func (typeRecognizer) Recognize(lowered string, prefs *domain.Preferences) {
	for _, kt := range typeTable {
		if strings.Contains(lowered, kt.keyword) {
			prefs.HotelType = kt.tag
			return
		}
	}
}
