package sync

import (
	"context"
	"time"

	"yadoya/pkg/kafka"
	"yadoya/pkg/logger"
	"yadoya/pkg/model"
)

const (
	EventSyncCompleted = "sync.completed"
	EventSyncFailed    = "sync.failed"

	journalReplayBatch = 20
)

// Result reports one sync attempt's outcome on the worker's results
// channel. Consumers are observability only; nothing in the booking flow
// blocks on it.
type Result struct {
	File     string
	Rows     int
	Err      error
	Duration time.Duration
}

type resultEvent struct {
	File     string `json:"file"`
	Rows     int    `json:"rows"`
	Error    string `json:"error,omitempty"`
	Duration int64  `json:"duration_ms"`
}

// Worker consumes booking row sets fire-and-forget and syncs them to the
// remote store. Failures are journaled and replayed on a timer; a sync
// error never propagates back to the booking that triggered it.
type Worker struct {
	syncer      *Syncer[model.Booking]
	file        string
	journal     Journal
	publisher   kafka.Publisher
	log         *logger.Logger
	retryPeriod time.Duration

	queue   chan []model.Booking
	results chan Result
}

func NewWorker(
	syncer *Syncer[model.Booking],
	file string,
	journal Journal,
	publisher kafka.Publisher,
	log *logger.Logger,
	queueSize int,
	retryPeriod time.Duration,
) *Worker {
	return &Worker{
		syncer:      syncer,
		file:        file,
		journal:     journal,
		publisher:   publisher,
		log:         log,
		retryPeriod: retryPeriod,
		queue:       make(chan []model.Booking, queueSize),
		results:     make(chan Result, queueSize),
	}
}

// Enqueue hands rows to the background sync without blocking the caller.
// A full queue goes straight to the journal; the rows are not lost, only
// delayed until the next replay.
func (w *Worker) Enqueue(rows []model.Booking) {
	select {
	case w.queue <- rows:
	default:
		w.log.Warn("Sync queue full, journaling rows for replay",
			"file", w.file,
			"rows", len(rows),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.journal.Record(ctx, w.file, rows, ErrQueueFull); err != nil {
			w.log.Error("Failed to journal overflow rows", "error", err)
		}
	}
}

// Results exposes sync outcomes for observability. The channel is
// closed when Run returns, so consumers ranging over it unblock at
// shutdown.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Run consumes the queue until ctx is cancelled. In-flight syncs at
// shutdown are abandoned; their outcome was only ever logged.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.retryPeriod)
	defer ticker.Stop()
	defer close(w.results)

	for {
		select {
		case rows := <-w.queue:
			w.sync(ctx, rows)
		case <-ticker.C:
			w.replayJournal(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) sync(ctx context.Context, rows []model.Booking) {
	start := time.Now()
	err := w.syncer.Sync(ctx, rows)
	duration := time.Since(start)

	if err != nil {
		w.log.Error("Remote sync failed, journaling for retry",
			"file", w.file,
			"rows", len(rows),
			"error", err,
		)
		if recordErr := w.journal.Record(ctx, w.file, rows, err); recordErr != nil {
			w.log.Error("Failed to journal sync failure", "error", recordErr)
		}
	}

	w.report(ctx, Result{
		File:     w.file,
		Rows:     len(rows),
		Err:      err,
		Duration: duration,
	})
}

func (w *Worker) replayJournal(ctx context.Context) {
	entries, err := w.journal.Pending(ctx, journalReplayBatch)
	if err != nil {
		w.log.Error("Failed to load journal entries for replay", "error", err)
		return
	}

	for _, entry := range entries {
		rows, err := entry.DecodeBookings()
		if err != nil {
			w.log.Error("Skipping undecodable journal entry",
				"entry_id", entry.ID,
				"error", err,
			)
			continue
		}

		if err := w.syncer.Sync(ctx, rows); err != nil {
			if markErr := w.journal.MarkFailed(ctx, entry.ID, err); markErr != nil {
				w.log.Error("Failed to update journal entry", "entry_id", entry.ID, "error", markErr)
			}
			continue
		}

		if err := w.journal.MarkSynced(ctx, entry.ID); err != nil {
			w.log.Error("Failed to mark journal entry synced", "entry_id", entry.ID, "error", err)
		}
		w.log.Info("Replayed journaled sync", "entry_id", entry.ID, "rows", len(rows))
	}
}

func (w *Worker) report(ctx context.Context, result Result) {
	select {
	case w.results <- result:
	default:
		// Nobody is listening; outcomes are best-effort observability.
	}

	event := resultEvent{
		File:     result.File,
		Rows:     result.Rows,
		Duration: result.Duration.Milliseconds(),
	}
	eventType := EventSyncCompleted
	if result.Err != nil {
		eventType = EventSyncFailed
		event.Error = result.Err.Error()
	}

	msg := kafka.NewMessage().
		WithKey(result.File).
		WithEventType(eventType).
		WithValue(event).
		Build()
	if err := w.publisher.Publish(ctx, msg); err != nil {
		w.log.Warn("Failed to publish sync result event", "error", err)
	}
}
