package sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yadoya/pkg/model"
)

func TestSheetStoreFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/files/bookings.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}

		w.Header().Set("ETag", `"v7"`)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"rows": []model.Booking{
				{BookingID: "bk_a", Date: model.NewDate(2024, time.March, 10), Status: model.StatusConfirmed},
			},
		})
	}))
	defer server.Close()

	store := NewSheetStore[model.Booking](server.URL, "bookings.json", "secret")

	snapshot, err := store.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Version != `"v7"` {
		t.Errorf("expected version token from ETag, got %q", snapshot.Version)
	}
	if len(snapshot.Rows) != 1 || snapshot.Rows[0].BookingID != "bk_a" {
		t.Errorf("unexpected rows: %+v", snapshot.Rows)
	}
}

func TestSheetStoreFetchMissingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store := NewSheetStore[model.Booking](server.URL, "bookings.json", "secret")

	snapshot, err := store.Fetch(context.Background())
	if err != nil {
		t.Fatalf("a missing file is an empty snapshot, not an error: %v", err)
	}
	if len(snapshot.Rows) != 0 || snapshot.Version != "" {
		t.Errorf("expected empty snapshot, got %+v", snapshot)
	}
}

func TestSheetStoreFetchUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	store := NewSheetStore[model.Booking](server.URL, "bookings.json", "expired")

	_, err := store.Fetch(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSheetStoreWriteSendsIfMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("If-Match"); got != `"v7"` {
			t.Errorf("unexpected If-Match %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}

		var doc struct {
			Rows []model.Booking `json:"rows"`
		}
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		if len(doc.Rows) != 1 {
			t.Errorf("unexpected payload rows: %+v", doc.Rows)
		}

		w.Header().Set("ETag", `"v8"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := NewSheetStore[model.Booking](server.URL, "bookings.json", "secret")

	rows := []model.Booking{{BookingID: "bk_a", Date: model.NewDate(2024, time.March, 10)}}
	version, err := store.Write(context.Background(), rows, `"v7"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != `"v8"` {
		t.Errorf("expected new version token, got %q", version)
	}
}

func TestSheetStoreWriteFirstVersionSendsIfNoneMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("If-None-Match"); got != "*" {
			t.Errorf("expected If-None-Match *, got %q", got)
		}
		if got := r.Header.Get("If-Match"); got != "" {
			t.Errorf("unexpected If-Match %q on first write", got)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	store := NewSheetStore[model.Booking](server.URL, "bookings.json", "secret")

	if _, err := store.Write(context.Background(), nil, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSheetStoreWriteConflict(t *testing.T) {
	for _, status := range []int{http.StatusConflict, http.StatusPreconditionFailed} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		store := NewSheetStore[model.Booking](server.URL, "bookings.json", "secret")
		_, err := store.Write(context.Background(), nil, `"v7"`)
		server.Close()

		if !errors.Is(err, ErrVersionConflict) {
			t.Errorf("status %d: expected ErrVersionConflict, got %v", status, err)
		}
	}
}

func TestSheetStoreWriteWithoutCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("write must not reach the remote without a credential")
	}))
	defer server.Close()

	store := NewSheetStore[model.Booking](server.URL, "bookings.json", "")

	_, err := store.Write(context.Background(), nil, `"v7"`)
	if !errors.Is(err, ErrNoCredential) {
		t.Errorf("expected ErrNoCredential, got %v", err)
	}
}
