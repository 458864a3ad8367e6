// Package sync propagates locally committed rows to the versioned
// remote store. Every write is conditional on the version token read at
// the last fetch; conflicts restart the fetch-merge-write cycle so that
// rows introduced by concurrent writers survive.
package sync

import (
	"context"
	"errors"

	"yadoya/pkg/model"
)

var (
	// ErrVersionConflict means the remote version token moved since the
	// last fetch; the caller should re-fetch and retry.
	ErrVersionConflict = errors.New("remote version token is stale")

	// ErrNoCredential degrades writes to a reported failure when no
	// bearer credential is configured.
	ErrNoCredential = errors.New("no remote credential configured")

	ErrUnauthorized = errors.New("remote store rejected the credential")

	// ErrRefreshInFlight is returned when a refresh is skipped because
	// one is already running; skipped, not queued.
	ErrRefreshInFlight = errors.New("refresh already in flight")

	// ErrQueueFull marks rows journaled because the sync queue had no
	// room for them.
	ErrQueueFull = errors.New("sync queue full")
)

// Row is anything storable in a remote file. MergeKey groups the rows
// that one writer owns as a unit: bookingId for booking rows, the date
// for availability rows.
type Row interface {
	MergeKey() string
}

// Snapshot is one fetched remote document. A missing remote document is
// represented as zero rows with an empty version token, not an error.
type Snapshot[R Row] struct {
	Rows    []R
	Version string
}

// Store is the remote versioned document contract for one file.
type Store[R Row] interface {
	// Fetch reads the current rows and version token.
	Fetch(ctx context.Context) (Snapshot[R], error)
	// Write replaces the file contents if version still matches,
	// returning the new version token. ErrVersionConflict reports a
	// stale token; ErrNoCredential and ErrUnauthorized report auth
	// degradation.
	Write(ctx context.Context, rows []R, version string) (string, error)
}

// SheetRow is a raw, untyped row of the operator-maintained availability
// sheet. It is normalized into typed overrides at the engine boundary
// and never used beyond it.
type SheetRow map[string]string

func (r SheetRow) MergeKey() string {
	return r[model.ColumnDate]
}
