package handler

import (
	"encoding/json"
	"net/http"

	"yadoya/internal/booking/service"
	"yadoya/internal/booking/validator"
	"yadoya/internal/selection"
	"yadoya/pkg/config"
	apperrors "yadoya/pkg/errors"
	httputil "yadoya/pkg/http"
	"yadoya/pkg/logger"
	"yadoya/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	cfg       *config.Config
	selection *selection.Engine
	service   service.BookingService
	log       *logger.Logger
}

func NewBookingHandler(cfg *config.Config, sel *selection.Engine, svc service.BookingService) *BookingHandler {
	return &BookingHandler{
		cfg:       cfg,
		selection: sel,
		service:   svc,
		log:       cfg.Log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/plans", h.Plans)

	router.POST("/api/sessions", h.CreateSession)
	router.POST("/api/sessions/:id/dates", h.ToggleDate)
	router.DELETE("/api/sessions/:id/dates/:date", h.RemoveDate)
	router.POST("/api/sessions/:id/range", h.SelectRange)
	router.PUT("/api/sessions/:id/plan", h.SetPlan)
	router.GET("/api/sessions/:id/quote", h.Quote)
	router.POST("/api/sessions/:id/bookings", h.Submit)

	router.GET("/api/bookings/:id", h.GetBooking)
	router.POST("/api/bookings/:id/cancel", h.CancelBooking)
}

func (h *BookingHandler) Plans(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.cfg.Plans); err != nil {
		h.log.Error("failed to write success response", "handler", "Plans", "error", err)
	}
}

func (h *BookingHandler) CreateSession(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	session := h.selection.CreateSession()
	if err := httputil.WriteCreated(w, map[string]string{"session_id": session.ID}); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateSession", "error", err)
	}
}

type dateRequest struct {
	Date model.Date `json:"date"`
}

func (h *BookingHandler) ToggleDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req dateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "ToggleDate", apperrors.InvalidInput("Invalid request body"))
		return
	}
	if req.Date.IsZero() {
		h.writeError(w, "ToggleDate", apperrors.InvalidInput("date is required"))
		return
	}

	event, err := h.selection.Toggle(r.Context(), ps.ByName("id"), req.Date)
	if err != nil {
		h.writeError(w, "ToggleDate", err)
		return
	}

	if err := httputil.WriteSuccess(w, event); err != nil {
		h.log.Error("failed to write success response", "handler", "ToggleDate", "error", err)
	}
}

func (h *BookingHandler) RemoveDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date, err := model.ParseDate(ps.ByName("date"))
	if err != nil {
		h.writeError(w, "RemoveDate", apperrors.InvalidInput("invalid date parameter"))
		return
	}

	event, err := h.selection.Remove(r.Context(), ps.ByName("id"), date)
	if err != nil {
		h.writeError(w, "RemoveDate", err)
		return
	}

	if err := httputil.WriteSuccess(w, event); err != nil {
		h.log.Error("failed to write success response", "handler", "RemoveDate", "error", err)
	}
}

type rangeRequest struct {
	Start model.Date `json:"start"`
	End   model.Date `json:"end"`
}

func (h *BookingHandler) SelectRange(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req rangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "SelectRange", apperrors.InvalidInput("Invalid request body"))
		return
	}
	if req.Start.IsZero() || req.End.IsZero() {
		h.writeError(w, "SelectRange", apperrors.InvalidInput("start and end are required"))
		return
	}

	event, err := h.selection.SelectRange(r.Context(), ps.ByName("id"), req.Start, req.End)
	if err != nil {
		h.writeError(w, "SelectRange", err)
		return
	}

	if err := httputil.WriteSuccess(w, event); err != nil {
		h.log.Error("failed to write success response", "handler", "SelectRange", "error", err)
	}
}

type planRequest struct {
	PlanID string `json:"plan_id"`
}

func (h *BookingHandler) SetPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "SetPlan", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.selection.SetPlan(ps.ByName("id"), req.PlanID); err != nil {
		h.writeError(w, "SetPlan", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Quote(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	quote, err := h.selection.Quote(ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	if err := httputil.WriteSuccess(w, quote); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "error", err)
	}
}

type submitRequest struct {
	Customer        model.Customer `json:"customer"`
	GuestCount      int            `json:"guest_count"`
	SpecialRequests string         `json:"special_requests"`
}

func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Submit", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.Submit(r.Context(), ps.ByName("id"), &validator.Submission{
		Customer:        req.Customer,
		GuestCount:      req.GuestCount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "error", err)
	}
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rows, err := h.service.Rows(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetBooking", err)
		return
	}

	if err := httputil.WriteSuccess(w, rows); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBooking", "error", err)
	}
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "CancelBooking", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}
