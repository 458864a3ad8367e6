package handler

import (
	"net/http"
	"strconv"
	"time"

	"yadoya/internal/availability"
	"yadoya/internal/state"
	apperrors "yadoya/pkg/errors"
	httputil "yadoya/pkg/http"
	"yadoya/pkg/logger"
	"yadoya/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// AvailabilityHandler serves the calendar view. Every request resolves
// against the current cache snapshot; there is no per-request remote
// fetch.
type AvailabilityHandler struct {
	resolver *availability.Resolver
	state    *state.State
	log      *logger.Logger
}

func NewAvailabilityHandler(resolver *availability.Resolver, st *state.State, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		resolver: resolver,
		state:    st,
		log:      log,
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/calendar", h.Calendar)
}

type calendarResponse struct {
	Year        int                    `json:"year"`
	Month       int                    `json:"month"`
	Days        []availability.DayView `json:"days"`
	LastRefresh time.Time              `json:"last_refresh"`
}

func (h *AvailabilityHandler) Calendar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	now := model.Today()
	year := now.Year
	month := now.Month

	if yearStr := query.Get("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < 2000 || parsed > 2200 {
			h.writeError(w, "Calendar", apperrors.InvalidInput("invalid year parameter: "+yearStr))
			return
		}
		year = parsed
	}
	if monthStr := query.Get("month"); monthStr != "" {
		parsed, err := strconv.Atoi(monthStr)
		if err != nil || parsed < 1 || parsed > 12 {
			h.writeError(w, "Calendar", apperrors.InvalidInput("invalid month parameter: "+monthStr))
			return
		}
		month = time.Month(parsed)
	}

	overrides, bookings := h.state.Snapshot()
	days := h.resolver.Month(year, month, overrides, bookings)

	if err := httputil.WriteSuccess(w, calendarResponse{
		Year:        year,
		Month:       int(month),
		Days:        days,
		LastRefresh: h.state.LastRefresh(),
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Calendar", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}
