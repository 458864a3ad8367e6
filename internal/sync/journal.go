package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"yadoya/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	JournalCollection = "SyncJournal"

	EntryPending = "pending"
	EntrySynced  = "synced"
)

// JournalEntry records a sync that failed and is owed a retry. The rows
// are stored JSON-encoded so the journal schema is independent of the
// row type.
type JournalEntry struct {
	ID        string    `bson:"_id"`
	File      string    `bson:"file"`
	Rows      []byte    `bson:"rows"`
	Attempts  int       `bson:"attempts"`
	LastError string    `bson:"last_error"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (e *JournalEntry) DecodeBookings() ([]model.Booking, error) {
	var rows []model.Booking
	if err := json.Unmarshal(e.Rows, &rows); err != nil {
		return nil, fmt.Errorf("journal entry %s: decode rows: %w", e.ID, err)
	}
	return rows, nil
}

// Journal is the durable record of failed syncs awaiting replay.
type Journal interface {
	Record(ctx context.Context, file string, rows []model.Booking, cause error) error
	Pending(ctx context.Context, limit int) ([]JournalEntry, error)
	MarkSynced(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, cause error) error
}

func newEntry(file string, rows []model.Booking, cause error) (*JournalEntry, error) {
	encoded, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode journal rows: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	return &JournalEntry{
		ID:        uuid.New().String(),
		File:      file,
		Rows:      encoded,
		Attempts:  1,
		LastError: cause.Error(),
		Status:    EntryPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type mongoJournal struct {
	collection *mongo.Collection
}

func NewMongoJournal(db *mongo.Database) Journal {
	return &mongoJournal{
		collection: db.Collection(JournalCollection),
	}
}

func (j *mongoJournal) Record(ctx context.Context, file string, rows []model.Booking, cause error) error {
	entry, err := newEntry(file, rows, cause)
	if err != nil {
		return err
	}

	if _, err := j.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}
	return nil
}

func (j *mongoJournal) Pending(ctx context.Context, limit int) ([]JournalEntry, error) {
	opts := options.Find().
		SetSort(bson.M{"created_at": 1}).
		SetLimit(int64(limit))

	cursor, err := j.collection.Find(ctx, bson.M{"status": EntryPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending journal entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []JournalEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode journal entries: %w", err)
	}
	return entries, nil
}

func (j *mongoJournal) MarkSynced(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{
		"status":     EntrySynced,
		"updated_at": time.Now().UTC(),
	}}
	if _, err := j.collection.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("failed to mark journal entry synced: %w", err)
	}
	return nil
}

func (j *mongoJournal) MarkFailed(ctx context.Context, id string, cause error) error {
	update := bson.M{
		"$set": bson.M{
			"last_error": cause.Error(),
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"attempts": 1},
	}
	if _, err := j.collection.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("failed to mark journal entry failed: %w", err)
	}
	return nil
}

// memoryJournal backs deployments without Mongo. Entries do not survive
// a restart, matching the best-effort durability the sync path promises.
type memoryJournal struct {
	mu      sync.Mutex
	entries map[string]*JournalEntry
}

func NewMemoryJournal() Journal {
	return &memoryJournal{
		entries: make(map[string]*JournalEntry),
	}
}

func (j *memoryJournal) Record(_ context.Context, file string, rows []model.Booking, cause error) error {
	entry, err := newEntry(file, rows, cause)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries[entry.ID] = entry
	return nil
}

func (j *memoryJournal) Pending(_ context.Context, limit int) ([]JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var entries []JournalEntry
	for _, entry := range j.entries {
		if entry.Status != EntryPending {
			continue
		}
		entries = append(entries, *entry)
		if len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func (j *memoryJournal) MarkSynced(_ context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if entry, ok := j.entries[id]; ok {
		entry.Status = EntrySynced
		entry.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (j *memoryJournal) MarkFailed(_ context.Context, id string, cause error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if entry, ok := j.entries[id]; ok {
		entry.Attempts++
		entry.LastError = cause.Error()
		entry.UpdatedAt = time.Now().UTC()
	}
	return nil
}
