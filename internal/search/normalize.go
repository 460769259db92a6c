package search

import (
	"strings"

	"hotel_assistant/internal/domain"
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// asFloat accepts float64/int/int64 (JSON numbers and test literals).
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// stringList coerces a value into a list: a delimited string is split on
// commas with segments trimmed and empties dropped, a list-like value passes
// through, anything else becomes an empty list.
func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		out := []string{}
		for _, part := range strings.Split(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// amenityMap coerces the nested amenities mapping (category -> feature tags).
// With dropEmpty set, categories whose value coerces to nothing are removed;
// the primary path passes everything through.
func amenityMap(v any, dropEmpty bool) map[string][]string {
	raw, ok := v.(map[string]any)
	if !ok {
		if typed, ok := v.(map[string][]string); ok {
			out := make(map[string][]string, len(typed))
			for k, vs := range typed {
				if dropEmpty && len(vs) == 0 {
					continue
				}
				out[k] = append([]string(nil), vs...)
			}
			return out
		}
		return map[string][]string{}
	}
	out := make(map[string][]string, len(raw))
	for category, val := range raw {
		tags := stringList(val)
		if dropEmpty && len(tags) == 0 {
			continue
		}
		out[category] = tags
	}
	return out
}

// lookupGeo reads the first allLocations entry's locations sub-object,
// defaulting to the zero point when absent or malformed.
func lookupGeo(m map[string]any) domain.GeoPoint {
	arr, ok := lookupAny(m, "allLocations").([]any)
	if !ok || len(arr) == 0 {
		return domain.GeoPoint{}
	}
	entry, ok := arr[0].(map[string]any)
	if !ok {
		return domain.GeoPoint{}
	}
	loc, ok := entry["locations"].(map[string]any)
	if !ok {
		return domain.GeoPoint{}
	}
	var gp domain.GeoPoint
	if f, ok := asFloat(loc["lon"]); ok {
		gp.Lon = f
	}
	if f, ok := asFloat(loc["lat"]); ok {
		gp.Lat = f
	}
	return gp
}

/********** hit normalizer **********/

// normalizeHit maps a raw store hit onto the canonical hotel record. Every
// field has a fallback, so a malformed hit yields a zero-valued hotel rather
// than an error.
//
// Primary hits carry the description as the hit's text payload and pass the
// amenities mapping through unfiltered. Fallback hits are whole source
// documents: the description comes from the embedding_text field and
// empty-valued amenity categories are dropped.
func normalizeHit(h Hit, fallback bool) domain.Hotel {
	meta := h.Metadata
	hotel := domain.Hotel{
		ID:    lookupStr(meta, "basics.id"),
		Title: firstNonEmpty(lookupStr(meta, "basics.title"), lookupStr(meta, "basics.name")),
		URL:   lookupStr(meta, "basics.url"),
	}

	if fallback {
		hotel.Description = lookupStr(meta, "embedding_text")
		hotel.Amenities = amenityMap(lookupAny(meta, "amenities"), true)
	} else {
		hotel.Description = h.Content
		hotel.Amenities = amenityMap(lookupAny(meta, "amenities"), false)
	}

	hotel.Highlights = stringList(lookupAny(meta, "basics.highlights"))
	hotel.LocalTips = stringList(lookupAny(meta, "basics.local_tips"))
	hotel.Location = lookupGeo(meta)
	return hotel
}
