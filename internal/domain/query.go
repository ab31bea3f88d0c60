package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Query describes one tournament search. It is immutable per request.
type Query struct {
	Latitude  float64
	Longitude float64
	RadiusKm  int
	Locality  string
	DateStart string // YYYY-MM-DD
	DateEnd   string // YYYY-MM-DD
	Level     string
	EventType string
}

// Fingerprint derives the deterministic cache key for the query.
// Coordinates are rounded to 4 decimals so sub-meter jitter from
// geocoders maps to the same key; all fields are sorted by name and
// joined so two equal queries always collide.
func (q Query) Fingerprint() string {
	fields := map[string]string{
		"lat":   formatCoord(q.Latitude),
		"lng":   formatCoord(q.Longitude),
		"rayon": strconv.Itoa(q.RadiusKm),
		"q":     q.Locality,
		"ds":    q.DateStart,
		"de":    q.DateEnd,
		"lvl":   q.Level,
		"et":    q.EventType,
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%s", k, fields[k]))
	}
	return strings.Join(parts, "|")
}

func formatCoord(v float64) string {
	rounded := math.Round(v*1e4) / 1e4
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
