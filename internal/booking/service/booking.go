package service

import (
	"context"
	"time"

	"yadoya/internal/availability"
	"yadoya/internal/booking/validator"
	"yadoya/internal/selection"
	"yadoya/internal/state"
	"yadoya/pkg/config"
	apperrors "yadoya/pkg/errors"
	"yadoya/pkg/kafka"
	"yadoya/pkg/model"

	"github.com/google/uuid"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"

	bookingIDPrefix = "bk_"
)

// SyncQueue is the fire-and-forget hand-off to the remote sync layer.
type SyncQueue interface {
	Enqueue(rows []model.Booking)
}

type SubmitResult struct {
	Success   bool   `json:"success"`
	BookingID string `json:"booking_id,omitempty"`
}

type BookingService interface {
	// Submit commits the session's selection as a booking. The local
	// commit is authoritative; remote sync is triggered asynchronously
	// and its outcome never affects the returned result.
	Submit(ctx context.Context, sessionID string, submission *validator.Submission) (*SubmitResult, error)
	// Cancel transitions all rows of a booking to cancelled.
	Cancel(ctx context.Context, bookingID string) error
	// Rows returns the rows of one booking.
	Rows(ctx context.Context, bookingID string) ([]model.Booking, error)
}

type bookingService struct {
	cfg       *config.Config
	selection *selection.Engine
	resolver  *availability.Resolver
	state     *state.State
	validator *validator.BookingValidator
	queue     SyncQueue
	publisher kafka.Publisher
	now       func() time.Time
}

func NewBookingService(
	cfg *config.Config,
	sel *selection.Engine,
	resolver *availability.Resolver,
	st *state.State,
	bookingValidator *validator.BookingValidator,
	queue SyncQueue,
	publisher kafka.Publisher,
) BookingService {
	return &bookingService{
		cfg:       cfg,
		selection: sel,
		resolver:  resolver,
		state:     st,
		validator: bookingValidator,
		queue:     queue,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *bookingService) Submit(ctx context.Context, sessionID string, submission *validator.Submission) (*SubmitResult, error) {
	dates, err := s.selection.Dates(sessionID)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, apperrors.Validation("No dates selected", nil)
	}

	if err := s.validator.ValidateSubmission(submission); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "session_id", sessionID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	plan, err := s.selection.Plan(sessionID)
	if err != nil {
		return nil, err
	}

	bookingID := bookingIDPrefix + uuid.New().String()
	quote := selection.PriceQuote(dates, plan, s.cfg.ServiceCharge)
	createdAt := s.now().UTC().Truncate(time.Millisecond)

	rows := make([]model.Booking, len(dates))
	for i, date := range dates {
		rows[i] = model.Booking{
			BookingID:       bookingID,
			Date:            date,
			Customer:        submission.Customer,
			GuestCount:      submission.GuestCount,
			PlanID:          plan.ID,
			PlanName:        plan.Name,
			UnitPrice:       plan.PricePerNight,
			TotalPrice:      quote.Total,
			Status:          model.StatusConfirmed,
			CreatedAt:       createdAt,
			SpecialRequests: submission.SpecialRequests,
		}
	}

	// Commit-time capacity re-check. The selection may be minutes old
	// and another session may have taken the last slot since; the check
	// and the append hold one lock so concurrent submissions serialize.
	// Any date failing aborts the whole transaction, the selection stays
	// intact.
	if date, ok := s.state.CommitIfCapacity(rows, s.resolver.HasCapacity); !ok {
		s.cfg.Log.Warn("Capacity lost between selection and commit",
			"session_id", sessionID,
			"date", date.String(),
		)
		return nil, apperrors.CapacityConflict(date.String())
	}
	if err := s.selection.Clear(ctx, sessionID); err != nil {
		s.cfg.Log.Warn("Failed to clear selection after commit", "session_id", sessionID, "error", err)
	}

	// Hand off to the sync layer; its failures are journaled and
	// reported through events, never through this return value.
	s.queue.Enqueue(rows)
	s.publishBookingEvent(ctx, EventBookingConfirmed, bookingID, rows, quote.Total)

	s.cfg.Log.Info("Booking committed",
		"booking_id", bookingID,
		"session_id", sessionID,
		"nights", len(rows),
		"total", quote.Total,
	)
	return &SubmitResult{Success: true, BookingID: bookingID}, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	rows := s.state.Cancel(bookingID)
	if len(rows) == 0 {
		return apperrors.NotFoundWithID("Booking", bookingID)
	}

	s.queue.Enqueue(rows)
	s.publishBookingEvent(ctx, EventBookingCancelled, bookingID, rows, rows[0].TotalPrice)

	s.cfg.Log.Info("Booking cancelled", "booking_id", bookingID, "rows", len(rows))
	return nil
}

func (s *bookingService) Rows(_ context.Context, bookingID string) ([]model.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	rows := s.state.RowsByBookingID(bookingID)
	if len(rows) == 0 {
		return nil, apperrors.NotFoundWithID("Booking", bookingID)
	}
	return rows, nil
}

type bookingEvent struct {
	BookingID string       `json:"booking_id"`
	Dates     []model.Date `json:"dates"`
	Total     int64        `json:"total"`
}

func (s *bookingService) publishBookingEvent(ctx context.Context, eventType, bookingID string, rows []model.Booking, total int64) {
	dates := make([]model.Date, len(rows))
	for i, row := range rows {
		dates[i] = row.Date
	}

	msg := kafka.NewMessage().
		WithKey(bookingID).
		WithEventType(eventType).
		WithValue(bookingEvent{
			BookingID: bookingID,
			Dates:     dates,
			Total:     total,
		}).
		Build()
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", bookingID,
			"error", err,
		)
	}
}
