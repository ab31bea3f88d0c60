package server

import "time"

const (
	readTimeout = 10 * time.Second
	// A cold search can walk every tier, including a browser launch,
	// before the response is written.
	writeTimeout = 150 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
