package domain

// GeoPoint is a lon/lat pair as stored in the hotel index.
type GeoPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Hotel is the canonical record built from a raw search hit. Constructed per
// search response, never persisted.
type Hotel struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Amenities   map[string][]string `json:"amenities"`
	Location    GeoPoint            `json:"location"`
	Highlights  []string            `json:"highlights"`
	LocalTips   []string            `json:"local_tips"`
	URL         string              `json:"url"`
}
