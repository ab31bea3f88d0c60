package mobile

import "time"

const providerName = "mobile_api"

const (
	defaultBaseURL     = "https://api.fft.fr/fft/v1"
	defaultAppID       = "tenup-app"
	defaultHTTPTimeout = 30 * time.Second
	defaultLimit       = 100

	// The API serves several racket disciplines; this service only
	// searches padel.
	practicePadel = "PADEL"
)
