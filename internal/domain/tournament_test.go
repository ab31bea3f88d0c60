package domain

import "testing"

func TestNormalizeDatesAddsCanonicalShape(t *testing.T) {
	items := []Tournament{
		{"startDate": "2026-03-01", "name": "Open de Lyon"},
	}

	NormalizeDates(items)

	debut, ok := items[0]["dateDebut"].(map[string]any)
	if !ok {
		t.Fatalf("expected dateDebut map, got %T", items[0]["dateDebut"])
	}
	if debut["date"] != "2026-03-01" {
		t.Errorf("expected canonical date 2026-03-01, got %v", debut["date"])
	}
	if items[0]["startDate"] != "2026-03-01" {
		t.Error("original startDate field must be preserved")
	}
	if _, ok := items[0]["dateFin"]; ok {
		t.Error("dateFin must not appear when endDate is absent")
	}
}

func TestNormalizeDatesKeepsExistingCanonicalField(t *testing.T) {
	existing := map[string]any{"date": "2026-02-10"}
	items := []Tournament{
		{"startDate": "2026-03-01", "dateDebut": existing, "endDate": "2026-03-02"},
	}

	NormalizeDates(items)

	if got := items[0]["dateDebut"]; got == nil || got.(map[string]any)["date"] != "2026-02-10" {
		t.Errorf("existing dateDebut overwritten: %v", got)
	}
	fin, ok := items[0]["dateFin"].(map[string]any)
	if !ok || fin["date"] != "2026-03-02" {
		t.Errorf("expected dateFin from endDate, got %v", items[0]["dateFin"])
	}
}

func TestIdentityKeyPrecedence(t *testing.T) {
	cases := []struct {
		name string
		item Tournament
		want string
	}{
		{"originalId wins", Tournament{"originalId": "abc", "id": "xyz"}, "abc"},
		{"id fallback", Tournament{"id": "xyz"}, "xyz"},
		{"numeric id", Tournament{"id": float64(42)}, "42"},
		{"no key", Tournament{"name": "sans id"}, ""},
		{"empty originalId falls through", Tournament{"originalId": "", "id": "xyz"}, "xyz"},
	}
	for _, tc := range cases {
		if got := tc.item.IdentityKey(); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
