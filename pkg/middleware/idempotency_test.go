package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"booking_id":"bk_` + strconv.Itoa(*calls) + `"}`))
	})
}

func TestIdempotencyReplaysCachedResponse(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	calls := 0
	handler := Idempotency(store, "Idempotency-Key")(countingHandler(&calls))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/abc/bookings", nil)
	req.Header.Set("Idempotency-Key", "retry-1")
	handler.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/sessions/abc/bookings", nil)
	req.Header.Set("Idempotency-Key", "retry-1")
	handler.ServeHTTP(second, req)

	if calls != 1 {
		t.Errorf("expected one handler invocation, got %d", calls)
	}
	if second.Code != http.StatusCreated {
		t.Errorf("expected replayed status 201, got %d", second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("expected identical bodies, got %q and %q", first.Body.String(), second.Body.String())
	}
}

func TestIdempotencyDistinctKeys(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	calls := 0
	handler := Idempotency(store, "Idempotency-Key")(countingHandler(&calls))

	for _, key := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Idempotency-Key", key)
		handler.ServeHTTP(rec, req)
	}

	if calls != 2 {
		t.Errorf("expected both keys to reach the handler, got %d calls", calls)
	}
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	calls := 0
	handler := Idempotency(store, "Idempotency-Key")(countingHandler(&calls))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	}

	if calls != 2 {
		t.Errorf("expected no caching without a key, got %d calls", calls)
	}
}

func TestIdempotencyDoesNotCacheErrors(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	calls := 0
	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusConflict)
	})
	handler := Idempotency(store, "Idempotency-Key")(failing)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Idempotency-Key", "conflicted")
		handler.ServeHTTP(rec, req)
	}

	if calls != 2 {
		t.Errorf("error responses must not be cached, got %d calls", calls)
	}
}

func TestExpiredEntryIsDropped(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Nanosecond)
	defer store.Stop()

	store.Set("k", &CachedResponse{StatusCode: http.StatusOK})
	time.Sleep(time.Millisecond)

	if _, found := store.Get("k"); found {
		t.Error("expected expired entry to be dropped on read")
	}
}
