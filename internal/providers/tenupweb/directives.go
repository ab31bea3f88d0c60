package tenupweb

import "tenup-padel-service/internal/domain"

// The AJAX endpoint answers with a sequence of typed directives. Only two
// matter here: "settings" can rotate the theme token mid-session, and the
// results directive carries the batch of items plus the site's own count.
const (
	commandSettings      = "settings"
	commandResultsUpdate = "recherche_tournois_update"
)

type directive struct {
	Command  string            `json:"command"`
	Settings directiveSettings `json:"settings"`
	Results  directiveResults  `json:"results"`
}

type directiveSettings struct {
	AjaxPageState struct {
		ThemeToken string `json:"theme_token"`
	} `json:"ajaxPageState"`
}

type directiveResults struct {
	NbResults int                 `json:"nb_results"`
	Items     []domain.Tournament `json:"items"`
}

// collector accumulates tournaments across pages, merging duplicates by
// identity key while preserving insertion order. Items without a key
// cannot be merged and are kept as-is.
type collector struct {
	items []domain.Tournament
	seen  map[string]struct{}
}

func newCollector() *collector {
	return &collector{seen: make(map[string]struct{})}
}

func (c *collector) add(item domain.Tournament) bool {
	key := item.IdentityKey()
	if key == "" {
		c.items = append(c.items, item)
		return true
	}
	if _, dup := c.seen[key]; dup {
		return false
	}
	c.seen[key] = struct{}{}
	c.items = append(c.items, item)
	return true
}

// apply folds one page of directives into the collector. It returns the
// number of newly collected items and the reported total, if any.
func (c *collector) apply(dirs []directive, themeToken *string) (added int, total int, totalSeen bool) {
	for _, d := range dirs {
		switch d.Command {
		case commandSettings:
			if tok := d.Settings.AjaxPageState.ThemeToken; tok != "" {
				*themeToken = tok
			}
		case commandResultsUpdate:
			total = d.Results.NbResults
			totalSeen = true
			for _, item := range d.Results.Items {
				if c.add(item) {
					added++
				}
			}
		}
	}
	return added, total, totalSeen
}
