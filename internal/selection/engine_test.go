package selection

import (
	"context"
	"testing"
	"time"

	"yadoya/internal/availability"
	"yadoya/internal/state"
	"yadoya/pkg/config"
	apperrors "yadoya/pkg/errors"
	"yadoya/pkg/kafka"
	"yadoya/pkg/logger"
	"yadoya/pkg/model"
)

func newTestEngine(t *testing.T) (*Engine, *state.State) {
	t.Helper()

	cfg := &config.Config{
		DefaultCapacity: 2,
		ServiceCharge:   1000,
		Plans: []model.Plan{
			{ID: "standard", Name: "Standard Room", PricePerNight: 12800},
			{ID: "breakfast", Name: "With Breakfast", PricePerNight: 14300},
		},
		SessionTTL: 30 * time.Minute,
		Log:        logger.Discard(),
	}

	st := state.New()
	resolver := availability.NewResolverAt(cfg.DefaultCapacity, func() model.Date {
		return model.NewDate(2024, time.March, 1)
	})
	sessions := NewStore(cfg.SessionTTL)
	t.Cleanup(sessions.Stop)

	return NewEngine(cfg, sessions, resolver, st, &kafka.NopPublisher{}), st
}

func TestToggleAddsAndRemoves(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	session := engine.CreateSession()
	date := model.NewDate(2024, time.March, 10)

	event, err := engine.Toggle(ctx, session.ID, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(event.Dates) != 1 || event.Dates[0] != date {
		t.Errorf("expected date selected, got %v", event.Dates)
	}

	event, err = engine.Toggle(ctx, session.ID, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(event.Dates) != 0 {
		t.Errorf("expected toggle to deselect, got %v", event.Dates)
	}
}

func TestToggleKeepsDatesSorted(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	session := engine.CreateSession()

	for _, day := range []int{12, 10, 11} {
		if _, err := engine.Toggle(ctx, session.ID, model.NewDate(2024, time.March, day)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	dates, err := engine.Dates(session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Errorf("dates not sorted: %v", dates)
		}
	}
}

func TestToggleRejectsUnselectableDate(t *testing.T) {
	engine, st := newTestEngine(t)
	ctx := context.Background()
	session := engine.CreateSession()
	closed := model.NewDate(2024, time.March, 10)

	st.SetOverrides(map[model.Date]model.AvailabilityOverride{
		closed: {Date: closed, Status: model.OverrideClosed},
	})

	_, err := engine.Toggle(ctx, session.ID, closed)
	if err == nil {
		t.Fatal("expected error for closed date")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict error, got %v", err)
	}

	// Deselecting an already selected date stays allowed even after the
	// date turns unavailable.
	past := model.NewDate(2024, time.February, 1)
	session.mu.Lock()
	session.add(past)
	session.mu.Unlock()

	event, err := engine.Toggle(ctx, session.ID, past)
	if err != nil {
		t.Fatalf("unexpected error removing past date: %v", err)
	}
	if len(event.Dates) != 0 {
		t.Errorf("expected past date removed, got %v", event.Dates)
	}
}

func TestSelectRangeSkipsUnavailableDays(t *testing.T) {
	engine, st := newTestEngine(t)
	ctx := context.Background()
	session := engine.CreateSession()

	blocked := model.NewDate(2024, time.March, 11)
	st.SetOverrides(map[model.Date]model.AvailabilityOverride{
		blocked: {Date: blocked, Status: model.OverrideBooked},
	})

	start := model.NewDate(2024, time.March, 10)
	end := model.NewDate(2024, time.March, 13)

	event, err := engine.SelectRange(ctx, session.ID, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []model.Date{
		model.NewDate(2024, time.March, 10),
		model.NewDate(2024, time.March, 12),
	}
	if len(event.Dates) != len(want) {
		t.Fatalf("expected %v, got %v", want, event.Dates)
	}
	for i := range want {
		if event.Dates[i] != want[i] {
			t.Errorf("expected %v, got %v", want, event.Dates)
			break
		}
	}
	if event.Checkout == nil || event.Checkout.String() != "2024-03-13" {
		t.Errorf("unexpected checkout: %v", event.Checkout)
	}
}

func TestSelectRangeRejectsInvertedRange(t *testing.T) {
	engine, _ := newTestEngine(t)
	session := engine.CreateSession()

	start := model.NewDate(2024, time.March, 13)
	end := model.NewDate(2024, time.March, 10)

	if _, err := engine.SelectRange(context.Background(), session.ID, start, end); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestSetPlanAndQuote(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	session := engine.CreateSession()

	// Defaults to the first configured plan.
	plan, err := engine.Plan(session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.ID != "standard" {
		t.Errorf("expected default plan standard, got %s", plan.ID)
	}

	if err := engine.SetPlan(session.ID, "breakfast"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := engine.SetPlan(session.ID, "penthouse"); err == nil {
		t.Error("expected error for unknown plan")
	}

	if _, err := engine.Toggle(ctx, session.ID, model.NewDate(2024, time.March, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	quote, err := engine.Quote(session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Plan.ID != "breakfast" {
		t.Errorf("expected quote against the chosen plan, got %s", quote.Plan.ID)
	}
	if quote.RoomRate != 14300 {
		t.Errorf("expected room rate 14300, got %d", quote.RoomRate)
	}
}

func TestEngineUnknownSession(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Toggle(context.Background(), "missing", model.NewDate(2024, time.March, 10))
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestClearEmptiesSelection(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	session := engine.CreateSession()

	if _, err := engine.Toggle(ctx, session.ID, model.NewDate(2024, time.March, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := engine.Clear(ctx, session.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dates, err := engine.Dates(session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 0 {
		t.Errorf("expected empty selection, got %v", dates)
	}
}
