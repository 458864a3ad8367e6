package sync

import (
	"context"
	"errors"

	apperrors "yadoya/pkg/errors"
	"yadoya/pkg/logger"
)

// Syncer runs the fetch-merge-write cycle for one file. Each attempt
// re-fetches remote state, so rows appended by concurrent writers since
// the previous attempt survive the merge; a stale version token restarts
// the cycle up to maxAttempts times.
type Syncer[R Row] struct {
	store       Store[R]
	file        string
	maxAttempts int
	log         *logger.Logger
}

func NewSyncer[R Row](store Store[R], file string, maxAttempts int, log *logger.Logger) *Syncer[R] {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Syncer[R]{
		store:       store,
		file:        file,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// Sync merges local rows into the remote document. The new version
// token from a successful write is discarded; the next cycle always
// starts with a fresh fetch.
func (s *Syncer[R]) Sync(ctx context.Context, local []R) error {
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		snapshot, err := s.store.Fetch(ctx)
		if err != nil {
			return apperrors.RemoteUnavailable("failed to fetch "+s.file, err)
		}

		merged := Merge(snapshot.Rows, local)

		_, err = s.store.Write(ctx, merged, snapshot.Version)
		if err == nil {
			s.log.Info("Remote sync succeeded",
				"file", s.file,
				"rows", len(merged),
				"attempt", attempt,
			)
			return nil
		}

		if errors.Is(err, ErrVersionConflict) {
			s.log.Warn("Remote write conflicted, retrying",
				"file", s.file,
				"attempt", attempt,
				"max_attempts", s.maxAttempts,
			)
			lastErr = err
			continue
		}

		if errors.Is(err, ErrNoCredential) || errors.Is(err, ErrUnauthorized) {
			return apperrors.RemoteUnavailable("not authorized to write "+s.file, err)
		}
		return apperrors.RemoteUnavailable("failed to write "+s.file, err)
	}

	return apperrors.VersionExhausted(s.maxAttempts, lastErr)
}
