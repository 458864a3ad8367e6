package sync

import (
	"context"
	"sync/atomic"
	"time"

	"yadoya/internal/state"
	"yadoya/pkg/logger"
	"yadoya/pkg/model"
)

// Refresher periodically re-fetches remote state into the local cache to
// narrow the staleness window between sessions. A tick that arrives
// while a refresh is still running is skipped, never queued, so slow
// fetches cannot pile up.
type Refresher struct {
	bookings        Store[model.Booking]
	overrides       Store[SheetRow]
	state           *state.State
	defaultCapacity int
	interval        time.Duration
	log             *logger.Logger
	inFlight        atomic.Bool
}

func NewRefresher(
	bookings Store[model.Booking],
	overrides Store[SheetRow],
	st *state.State,
	defaultCapacity int,
	interval time.Duration,
	log *logger.Logger,
) *Refresher {
	return &Refresher{
		bookings:        bookings,
		overrides:       overrides,
		state:           st,
		defaultCapacity: defaultCapacity,
		interval:        interval,
		log:             log,
	}
}

func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				if err == ErrRefreshInFlight {
					r.log.Debug("Skipping refresh, previous one still running")
					continue
				}
				r.log.Warn("Background refresh failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Refresh fetches both files and folds them into the cache. Remote
// booking rows are merged with the current local rows, local winning per
// bookingId, so a booking committed here but not yet written remotely is
// never erased by a refresh.
func (r *Refresher) Refresh(ctx context.Context) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		return ErrRefreshInFlight
	}
	defer r.inFlight.Store(false)

	overridesSnap, err := r.overrides.Fetch(ctx)
	if err != nil {
		return err
	}
	rawRows := make([]map[string]string, len(overridesSnap.Rows))
	for i, row := range overridesSnap.Rows {
		rawRows[i] = row
	}
	r.state.SetOverrides(model.NormalizeOverrideRows(rawRows, r.defaultCapacity))

	bookingsSnap, err := r.bookings.Fetch(ctx)
	if err != nil {
		return err
	}
	r.state.MergeBookings(bookingsSnap.Rows, Merge[model.Booking])

	r.log.Info("Remote state refreshed",
		"overrides", len(overridesSnap.Rows),
		"bookings", len(bookingsSnap.Rows),
	)
	return nil
}
