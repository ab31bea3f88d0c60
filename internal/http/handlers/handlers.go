// Package handlers wires HTTP routes to the search orchestrator.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tenup-padel-service/internal/credstore"
	"tenup-padel-service/internal/domain"
	"tenup-padel-service/internal/providers"
	"tenup-padel-service/internal/search"
	"tenup-padel-service/internal/timeutil"
)

const (
	defaultRadiusKm   = 100
	defaultWindowDays = 90
)

// Searcher resolves a query through the tier cascade.
type Searcher interface {
	Search(ctx context.Context, q domain.Query) (domain.SearchResult, error)
}

// Diagnoser reports credential state for the debug endpoint.
type Diagnoser interface {
	Describe() credstore.Diagnostics
}

type nowFunc func() time.Time

type Handler struct {
	searcher Searcher
	diags    Diagnoser
	logger   *slog.Logger
	now      nowFunc
}

func NewHandler(searcher Searcher, diags Diagnoser, logger *slog.Logger) *Handler {
	return &Handler{
		searcher: searcher,
		diags:    diags,
		logger:   logger,
		now:      time.Now,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Search runs a tournament search from query parameters.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	q, err := h.parseQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	result, err := h.searcher.Search(r.Context(), q)
	if err != nil {
		status := statusForError(err)
		if logger != nil {
			logger.Warn("search failed", "error", err, slog.Int("status", status))
		}
		writeError(w, r, status, errorMessage(err), h.logger)
		return
	}

	if logger != nil {
		logger.Info("search served",
			slog.String("source", result.Source), slog.Int("count", result.Count))
	}
	writeJSON(w, http.StatusOK, result, h.logger)
}

// Debug reports credential presence and shape without secret values.
func (h *Handler) Debug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.diags == nil {
		writeError(w, r, http.StatusNotFound, "diagnostics unavailable", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.diags.Describe(), h.logger)
}

func (h *Handler) parseQuery(r *http.Request) (domain.Query, error) {
	params := r.URL.Query()

	lat, err := requiredFloat(params.Get("lat"))
	if err != nil {
		return domain.Query{}, errors.New("lat is required and must be a number")
	}
	lng, err := requiredFloat(params.Get("lng"))
	if err != nil {
		return domain.Query{}, errors.New("lng is required and must be a number")
	}

	radius := defaultRadiusKm
	if raw := params.Get("rayon_km"); raw != "" {
		radius, err = strconv.Atoi(raw)
		if err != nil || radius <= 0 {
			return domain.Query{}, errors.New("rayon_km must be a positive integer")
		}
	}

	dateStart := params.Get("date_start")
	dateEnd := params.Get("date_end")
	if dateStart == "" {
		dateStart = timeutil.FormatDate(h.now())
	}
	if dateEnd == "" {
		dateEnd = timeutil.FormatDate(h.now().AddDate(0, 0, defaultWindowDays))
	}

	return domain.Query{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  radius,
		Locality:  params.Get("q"),
		DateStart: dateStart,
		DateEnd:   dateEnd,
		Level:     params.Get("level"),
		EventType: params.Get("etype"),
	}, nil
}

func requiredFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, errors.New("missing")
	}
	return strconv.ParseFloat(raw, 64)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, providers.ErrUnauthorized):
		// The token was rejected and no later tier could step in.
		return http.StatusUnauthorized
	case errors.Is(err, search.ErrSourcesExhausted):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, providers.ErrUnauthorized):
		return "upstream rejected credentials"
	case errors.Is(err, search.ErrSourcesExhausted):
		return "all tournament sources failed"
	case errors.Is(err, context.DeadlineExceeded):
		return "search timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	default:
		return "internal error"
	}
}
