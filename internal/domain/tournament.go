package domain

import (
	"encoding/json"
	"strconv"
)

// Tournament is a single tournament as returned by an upstream source.
// The two sources expose different field names for the same concepts, so
// items stay schemaless maps; normalization only ever adds fields.
type Tournament map[string]any

// IdentityKey returns the key used to merge duplicates across result
// pages: originalId when present, then id. An empty key means the item
// cannot be merged and is kept as-is.
func (t Tournament) IdentityKey() string {
	for _, field := range []string{"originalId", "id"} {
		if key := stringify(t[field]); key != "" {
			return key
		}
	}
	return ""
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

// NormalizeDates gives every item the canonical dateDebut/dateFin shape
// when only the mobile API's startDate/endDate fields are present. The
// original fields are preserved.
func NormalizeDates(items []Tournament) []Tournament {
	for _, item := range items {
		normalizeDate(item, "startDate", "dateDebut")
		normalizeDate(item, "endDate", "dateFin")
	}
	return items
}

func normalizeDate(item Tournament, src, dst string) {
	raw, ok := item[src]
	if !ok || raw == nil || raw == "" {
		return
	}
	if existing, ok := item[dst]; ok && existing != nil && existing != "" {
		return
	}
	item[dst] = map[string]any{"date": raw}
}
