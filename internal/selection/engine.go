package selection

import (
	"context"

	"yadoya/internal/availability"
	"yadoya/internal/state"
	"yadoya/pkg/config"
	apperrors "yadoya/pkg/errors"
	"yadoya/pkg/kafka"
	"yadoya/pkg/model"
)

const EventSelectionChanged = "selection.changed"

// Event is emitted on every selection change.
type Event struct {
	SessionID string       `json:"session_id"`
	Dates     []model.Date `json:"dates"`
	Checkin   *model.Date  `json:"checkin,omitempty"`
	Checkout  *model.Date  `json:"checkout,omitempty"`
}

// Engine owns the selection sessions and mutates them against current
// availability. Mutations are synchronous; only event emission touches
// I/O, and it is best effort.
type Engine struct {
	cfg       *config.Config
	sessions  *Store
	resolver  *availability.Resolver
	state     *state.State
	publisher kafka.Publisher
}

func NewEngine(
	cfg *config.Config,
	sessions *Store,
	resolver *availability.Resolver,
	st *state.State,
	publisher kafka.Publisher,
) *Engine {
	return &Engine{
		cfg:       cfg,
		sessions:  sessions,
		resolver:  resolver,
		state:     st,
		publisher: publisher,
	}
}

func (e *Engine) CreateSession() *Session {
	return e.sessions.Create()
}

func (e *Engine) session(id string) (*Session, error) {
	session, ok := e.sessions.Get(id)
	if !ok {
		return nil, apperrors.NotFoundWithID("Session", id)
	}
	return session, nil
}

// Toggle adds the date if absent and selectable, removes it if present.
// Removing is always allowed; adding a non-selectable date is rejected.
func (e *Engine) Toggle(ctx context.Context, sessionID string, date model.Date) (Event, error) {
	session, err := e.session(sessionID)
	if err != nil {
		return Event{}, err
	}

	session.mu.Lock()
	session.touch()
	if session.contains(date) {
		session.remove(date)
		session.mu.Unlock()
		return e.changed(ctx, session), nil
	}
	session.mu.Unlock()

	overrides, bookings := e.state.Snapshot()
	if !e.resolver.Selectable(date, overrides, bookings) {
		return Event{}, apperrors.Conflict("date " + date.String() + " is not selectable")
	}

	session.mu.Lock()
	session.add(date)
	session.mu.Unlock()
	return e.changed(ctx, session), nil
}

// Remove drops the date from the selection if present.
func (e *Engine) Remove(ctx context.Context, sessionID string, date model.Date) (Event, error) {
	session, err := e.session(sessionID)
	if err != nil {
		return Event{}, err
	}

	session.mu.Lock()
	session.touch()
	session.remove(date)
	session.mu.Unlock()
	return e.changed(ctx, session), nil
}

// SelectRange walks the half-open interval [start, end) and adds every
// day that is independently selectable, silently skipping the rest. A
// span crossing a booked day therefore yields a non-contiguous
// selection; that is the documented drag-select behavior, not an error.
func (e *Engine) SelectRange(ctx context.Context, sessionID string, start, end model.Date) (Event, error) {
	session, err := e.session(sessionID)
	if err != nil {
		return Event{}, err
	}
	if !start.Before(end) {
		return Event{}, apperrors.InvalidInput("range start must be before end")
	}

	overrides, bookings := e.state.Snapshot()

	session.mu.Lock()
	session.touch()
	for d := start; d.Before(end); d = d.AddDays(1) {
		if e.resolver.Selectable(d, overrides, bookings) {
			session.add(d)
		}
	}
	session.mu.Unlock()
	return e.changed(ctx, session), nil
}

// SetPlan picks the rate plan for the session.
func (e *Engine) SetPlan(sessionID, planID string) error {
	session, err := e.session(sessionID)
	if err != nil {
		return err
	}
	if _, ok := e.cfg.PlanByID(planID); !ok {
		return apperrors.NotFoundWithID("Plan", planID)
	}

	session.mu.Lock()
	session.touch()
	session.planID = planID
	session.mu.Unlock()
	return nil
}

// Plan returns the session's plan, defaulting to the first configured
// plan when none was picked yet.
func (e *Engine) Plan(sessionID string) (model.Plan, error) {
	session, err := e.session(sessionID)
	if err != nil {
		return model.Plan{}, err
	}

	session.mu.Lock()
	planID := session.planID
	session.mu.Unlock()

	if planID == "" {
		return e.cfg.Plans[0], nil
	}
	plan, ok := e.cfg.PlanByID(planID)
	if !ok {
		return model.Plan{}, apperrors.NotFoundWithID("Plan", planID)
	}
	return plan, nil
}

// Dates returns the session's sorted selection.
func (e *Engine) Dates(sessionID string) ([]model.Date, error) {
	session, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Dates(), nil
}

// Clear empties the selection, as after a committed booking.
func (e *Engine) Clear(ctx context.Context, sessionID string) error {
	session, err := e.session(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	session.touch()
	session.dates = nil
	session.mu.Unlock()
	e.changed(ctx, session)
	return nil
}

// Quote prices the current selection.
func (e *Engine) Quote(sessionID string) (Quote, error) {
	dates, err := e.Dates(sessionID)
	if err != nil {
		return Quote{}, err
	}
	plan, err := e.Plan(sessionID)
	if err != nil {
		return Quote{}, err
	}
	return PriceQuote(dates, plan, e.cfg.ServiceCharge), nil
}

func (e *Engine) changed(ctx context.Context, session *Session) Event {
	dates := session.Dates()

	event := Event{
		SessionID: session.ID,
		Dates:     dates,
	}
	if len(dates) > 0 {
		checkin := dates[0]
		checkout := dates[len(dates)-1].AddDays(1)
		event.Checkin = &checkin
		event.Checkout = &checkout
	}

	msg := kafka.NewMessage().
		WithKey(session.ID).
		WithEventType(EventSelectionChanged).
		WithValue(event).
		Build()
	if err := e.publisher.Publish(ctx, msg); err != nil {
		e.cfg.Log.Warn("Failed to publish selection event",
			"session_id", session.ID,
			"error", err,
		)
	}

	return event
}
