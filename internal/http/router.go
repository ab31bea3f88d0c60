// Package http assembles the service's routes.
package http

import (
	nethttp "net/http"

	"tenup-padel-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux.
func NewRouter(handler *handlers.Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/api/tenup/search", handler.Search)
	mux.HandleFunc("/api/debug", handler.Debug)
	return mux
}
