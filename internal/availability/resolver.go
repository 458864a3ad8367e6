package availability

import (
	"time"

	"yadoya/pkg/model"
)

// Status is the per-date label shown on the calendar.
type Status string

const (
	StatusPast      Status = "past"
	StatusClosed    Status = "closed"
	StatusBooked    Status = "booked"
	StatusLimited   Status = "limited"
	StatusAvailable Status = "available"
)

// BookedCount returns the number of distinct confirmed reservations
// holding the date. Rows are counted per BookingID, not per row, so a
// multi-night reservation occupies exactly one unit of the date's
// capacity.
func BookedCount(date model.Date, bookings []model.Booking) int {
	seen := make(map[string]struct{})
	for _, b := range bookings {
		if b.Status != model.StatusConfirmed || b.Date != date {
			continue
		}
		seen[b.BookingID] = struct{}{}
	}
	return len(seen)
}

// Capacity returns the date's maximum bookings: the override's value if
// one exists, else defaultCapacity.
func Capacity(date model.Date, overrides map[model.Date]model.AvailabilityOverride, defaultCapacity int) int {
	if o, ok := overrides[date]; ok {
		return o.MaxCapacity
	}
	return defaultCapacity
}

// Resolver derives per-date status from overrides and bookings. It holds
// no booking state itself; callers pass the current snapshot on every
// query so the calendar always reflects the freshest cache.
type Resolver struct {
	defaultCapacity int
	today           func() model.Date
}

func NewResolver(defaultCapacity int) *Resolver {
	return &Resolver{
		defaultCapacity: defaultCapacity,
		today:           model.Today,
	}
}

// NewResolverAt pins "today" for tests.
func NewResolverAt(defaultCapacity int, today func() model.Date) *Resolver {
	return &Resolver{
		defaultCapacity: defaultCapacity,
		today:           today,
	}
}

// Status resolves a date's label. Precedence: past dates always win; a
// closed or booked override wins next; a limited or available override
// label is used directly; otherwise the label is computed from the
// booking count against capacity.
func (r *Resolver) Status(date model.Date, overrides map[model.Date]model.AvailabilityOverride, bookings []model.Booking) Status {
	if date.Before(r.today()) {
		return StatusPast
	}

	if o, ok := overrides[date]; ok {
		switch o.Status {
		case model.OverrideClosed:
			return StatusClosed
		case model.OverrideBooked:
			return StatusBooked
		case model.OverrideLimited:
			return StatusLimited
		case model.OverrideAvailable:
			return StatusAvailable
		}
	}

	count := BookedCount(date, bookings)
	capacity := Capacity(date, overrides, r.defaultCapacity)
	switch {
	case count >= capacity:
		return StatusBooked
	case count >= 1:
		return StatusLimited
	default:
		return StatusAvailable
	}
}

// Selectable reports whether a guest may add the date to a selection.
func (r *Resolver) Selectable(date model.Date, overrides map[model.Date]model.AvailabilityOverride, bookings []model.Booking) bool {
	switch r.Status(date, overrides, bookings) {
	case StatusPast, StatusClosed, StatusBooked:
		return false
	default:
		return true
	}
}

// RemainingCapacity is display-only and clamped at zero; an overbooked
// date never shows negative remaining.
func (r *Resolver) RemainingCapacity(date model.Date, overrides map[model.Date]model.AvailabilityOverride, bookings []model.Booking) int {
	remaining := Capacity(date, overrides, r.defaultCapacity) - BookedCount(date, bookings)
	return max(0, remaining)
}

// HasCapacity is the commit-time check: strictly fewer confirmed
// reservations than capacity.
func (r *Resolver) HasCapacity(date model.Date, overrides map[model.Date]model.AvailabilityOverride, bookings []model.Booking) bool {
	return BookedCount(date, bookings) < Capacity(date, overrides, r.defaultCapacity)
}

// DayView is one calendar cell.
type DayView struct {
	Date      model.Date `json:"date"`
	Status    Status     `json:"status"`
	Remaining int        `json:"remaining"`
}

// Range builds views for the half-open interval [from, to).
func (r *Resolver) Range(from, to model.Date, overrides map[model.Date]model.AvailabilityOverride, bookings []model.Booking) []DayView {
	var views []DayView
	for d := from; d.Before(to); d = d.AddDays(1) {
		views = append(views, DayView{
			Date:      d,
			Status:    r.Status(d, overrides, bookings),
			Remaining: r.RemainingCapacity(d, overrides, bookings),
		})
	}
	return views
}

// Month builds views for every day of the given month.
func (r *Resolver) Month(year int, month time.Month, overrides map[model.Date]model.AvailabilityOverride, bookings []model.Booking) []DayView {
	first := model.NewDate(year, month, 1)
	return r.Range(first, first.AddDays(daysIn(year, month)), overrides, bookings)
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
