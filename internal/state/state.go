// Package state holds the engine's session-scoped view of the remote
// store: the override rules and the booking rows last fetched, plus any
// locally committed bookings not yet known to be durable remotely. There
// are no ambient globals; everything that reads or writes booking data
// goes through one State instance.
package state

import (
	"sync"
	"time"

	"yadoya/pkg/model"
)

type State struct {
	mu          sync.RWMutex
	overrides   map[model.Date]model.AvailabilityOverride
	bookings    []model.Booking
	lastRefresh time.Time
}

func New() *State {
	return &State{
		overrides: make(map[model.Date]model.AvailabilityOverride),
	}
}

// Snapshot returns copies safe to read without holding the lock. The
// resolver is pure, so handing it copies keeps availability queries
// consistent even while a refresh lands.
func (s *State) Snapshot() (map[model.Date]model.AvailabilityOverride, []model.Booking) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overrides := make(map[model.Date]model.AvailabilityOverride, len(s.overrides))
	for k, v := range s.overrides {
		overrides[k] = v
	}
	bookings := make([]model.Booking, len(s.bookings))
	copy(bookings, s.bookings)
	return overrides, bookings
}

func (s *State) Bookings() []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]model.Booking, len(s.bookings))
	copy(bookings, s.bookings)
	return bookings
}

func (s *State) SetOverrides(overrides map[model.Date]model.AvailabilityOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if overrides == nil {
		overrides = make(map[model.Date]model.AvailabilityOverride)
	}
	s.overrides = overrides
	s.lastRefresh = time.Now()
}

// Append adds locally committed rows. Rows are never removed, only
// status-transitioned.
func (s *State) Append(rows []model.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings = append(s.bookings, rows...)
}

// CommitIfCapacity appends the rows only if every row's date passes the
// capacity check. Check and append run under one write lock, so
// concurrent commits serialize and can never jointly take the last
// slot. On failure nothing is appended and the first failing date is
// returned. hasCapacity must be pure: it receives the live override map
// and booking slice and must not retain or mutate them.
func (s *State) CommitIfCapacity(
	rows []model.Booking,
	hasCapacity func(model.Date, map[model.Date]model.AvailabilityOverride, []model.Booking) bool,
) (model.Date, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		if !hasCapacity(row.Date, s.overrides, s.bookings) {
			return row.Date, false
		}
	}
	s.bookings = append(s.bookings, rows...)
	return model.Date{}, true
}

// MergeBookings folds freshly fetched remote rows into the booking set.
// The merge runs under the write lock, so rows appended by a concurrent
// commit are part of the local side of the merge and survive the
// replacement.
func (s *State) MergeBookings(remote []model.Booking, merge func(remote, local []model.Booking) []model.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings = merge(remote, s.bookings)
	s.lastRefresh = time.Now()
}

// RowsByBookingID returns copies of every row of one reservation.
func (s *State) RowsByBookingID(bookingID string) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []model.Booking
	for _, b := range s.bookings {
		if b.BookingID == bookingID {
			rows = append(rows, b)
		}
	}
	return rows
}

// Cancel transitions every row of the reservation to cancelled and
// returns the updated rows; an empty result means the id is unknown.
func (s *State) Cancel(bookingID string) []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []model.Booking
	for i := range s.bookings {
		if s.bookings[i].BookingID == bookingID {
			s.bookings[i].Status = model.StatusCancelled
			rows = append(rows, s.bookings[i])
		}
	}
	return rows
}

func (s *State) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}
