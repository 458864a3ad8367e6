package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"yadoya/internal/availability"
	"yadoya/internal/state"
	"yadoya/pkg/logger"
	"yadoya/pkg/model"
)

func newCalendarRouter(st *state.State) *httprouter.Router {
	resolver := availability.NewResolverAt(2, func() model.Date {
		return model.NewDate(2024, time.March, 1)
	})

	router := httprouter.New()
	NewAvailabilityHandler(resolver, st, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestCalendar(t *testing.T) {
	st := state.New()
	closed := model.NewDate(2024, time.March, 20)
	st.SetOverrides(map[model.Date]model.AvailabilityOverride{
		closed: {Date: closed, Status: model.OverrideClosed},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/calendar?year=2024&month=3", nil)
	rec := httptest.NewRecorder()
	newCalendarRouter(st).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Year  int                    `json:"year"`
			Month int                    `json:"month"`
			Days  []availability.DayView `json:"days"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Data.Year != 2024 || resp.Data.Month != 3 {
		t.Errorf("unexpected year/month: %d/%d", resp.Data.Year, resp.Data.Month)
	}
	if len(resp.Data.Days) != 31 {
		t.Fatalf("expected 31 days for March, got %d", len(resp.Data.Days))
	}

	for _, day := range resp.Data.Days {
		switch day.Date.String() {
		case "2024-02-29":
			t.Error("day outside the requested month")
		case "2024-03-20":
			if day.Status != availability.StatusClosed {
				t.Errorf("expected closed, got %s", day.Status)
			}
		}
	}
}

func TestCalendarInvalidParams(t *testing.T) {
	st := state.New()
	router := newCalendarRouter(st)

	for _, url := range []string{
		"/api/calendar?year=abc",
		"/api/calendar?year=1999",
		"/api/calendar?month=13",
		"/api/calendar?month=0",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", url, rec.Code)
		}
	}
}
