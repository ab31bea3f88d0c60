package tenupweb

import (
	"fmt"
	"net/url"
	"strconv"

	"tenup-padel-service/internal/domain"
	"tenup-padel-service/internal/timeutil"
)

// The site expects DD/MM/YY; queries carry ISO dates. Unparseable input
// passes through unchanged so the site can reject it rather than us.
func formatSiteDate(iso string) string {
	t, err := timeutil.ParseDate(iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/06")
}

// buildPayload assembles the Drupal search form submission for a query.
// The locality feeds the autocomplete widget, which requires the chosen
// value mirrored across its value/label fields.
func buildPayload(q domain.Query, state formState) url.Values {
	locality := q.Locality
	if locality == "" {
		locality = "Ville"
	}
	lat := strconv.FormatFloat(q.Latitude, 'f', -1, 64)
	lng := strconv.FormatFloat(q.Longitude, 'f', -1, 64)

	v := url.Values{}
	v.Set("recherche_type", "ville")
	v.Set("ville[autocomplete][country]", "fr")
	v.Set("ville[autocomplete][textfield]", locality)
	v.Set("ville[autocomplete][value_container][value_field]", locality)
	v.Set("ville[autocomplete][value_container][label_field]", locality)
	v.Set("ville[autocomplete][value_container][lat_field]", lat)
	v.Set("ville[autocomplete][value_container][lng_field]", lng)
	v.Set("ville[distance][value_field]", strconv.Itoa(q.RadiusKm))
	v.Set("pratique", "PADEL")
	v.Set("date[start]", formatSiteDate(q.DateStart))
	v.Set("date[end]", formatSiteDate(q.DateEnd))
	v.Set("sort", "_DIST_")
	v.Set("form_id", "recherche_tournois_form")
	v.Set("form_build_id", state.buildID)
	v.Set("ajax_page_state[theme]", "met")
	v.Set("ajax_page_state[theme_token]", state.themeToken)
	v.Set("ajax_page_state[css]", "1")
	v.Set("ajax_page_state[js]", "1")
	v.Set("op", "Rechercher")
	v.Set("submit_main", "Rechercher")

	if q.Level != "" {
		v.Set(fmt.Sprintf("categorie_tournoi[%s]", q.Level), q.Level)
	}
	if q.EventType != "" {
		v.Set(fmt.Sprintf("epreuve[%s]", q.EventType), q.EventType)
	}
	return v
}

// markSearch flags the payload as the initial search submission.
func markSearch(v url.Values) {
	v.Set("page", "0")
	v.Set("_triggering_element_name", "submit_main")
	v.Set("_triggering_element_value", "Rechercher")
}

// markNextPage rewrites the payload for a pagination submission, carrying
// forward the most recent theme token.
func markNextPage(v url.Values, page int, themeToken string) {
	v.Set("ajax_page_state[theme_token]", themeToken)
	v.Set("page", strconv.Itoa(page))
	v.Set("_triggering_element_name", "submit_page")
	v.Set("_triggering_element_value", "Submit page")
	v.Set("submit_page", "Submit page")
	v.Del("submit_main")
	v.Del("op")
}
