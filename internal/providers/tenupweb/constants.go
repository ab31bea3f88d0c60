package tenupweb

import "time"

const providerName = "tenup_web"

// SearchPath is the tournament search page; the headless tier navigates
// to the same page to solve the anti-bot challenge.
const SearchPath = "/recherche/tournois"

const (
	ajaxPath = "/system/ajax"

	defaultBaseURL      = "https://tenup.fft.fr"
	defaultHTTPTimeout  = 30 * time.Second
	defaultMaxPages     = 10
	defaultPollInterval = time.Second

	// Host fragment of the third-party queuing service the site
	// redirects to when it distrusts the session.
	queueItHost = "queue-it.net"

	negotiationAttempts = 5
	snippetLimit        = 300
	maxBodyBytes        = 2 << 20
)
