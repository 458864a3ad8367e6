package selection

import (
	"sort"
	"sync"
	"time"

	"yadoya/pkg/model"

	"github.com/google/uuid"
)

// Session is one guest's in-progress date selection. Dates are distinct
// and kept sorted ascending after every mutation; contiguity is only a
// property of how SelectRange fills it, never enforced by the set.
type Session struct {
	ID string

	mu       sync.Mutex
	dates    []model.Date
	planID   string
	lastUsed time.Time
}

func newSession() *Session {
	return &Session{
		ID:       uuid.New().String(),
		lastUsed: time.Now(),
	}
}

func (s *Session) touch() {
	s.lastUsed = time.Now()
}

func (s *Session) contains(date model.Date) bool {
	for _, d := range s.dates {
		if d == date {
			return true
		}
	}
	return false
}

func (s *Session) add(date model.Date) {
	if s.contains(date) {
		return
	}
	s.dates = append(s.dates, date)
	sort.Slice(s.dates, func(i, j int) bool {
		return s.dates[i].Before(s.dates[j])
	})
}

func (s *Session) remove(date model.Date) {
	for i, d := range s.dates {
		if d == date {
			s.dates = append(s.dates[:i], s.dates[i+1:]...)
			return
		}
	}
}

// Dates returns a sorted copy of the selection.
func (s *Session) Dates() []model.Date {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := make([]model.Date, len(s.dates))
	copy(dates, s.dates)
	return dates
}

// Store keeps live sessions with a TTL; abandoned selections are swept
// instead of accumulating for the life of the process.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	stopCh   chan struct{}
}

func NewStore(ttl time.Duration) *Store {
	store := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}

	go store.cleanup()

	return store
}

func (st *Store) Create() *Session {
	session := newSession()

	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()

	return session
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	session, ok := st.sessions[id]
	st.mu.RUnlock()
	return session, ok
}

func (st *Store) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			st.mu.Lock()
			for id, session := range st.sessions {
				session.mu.Lock()
				expired := time.Since(session.lastUsed) > st.ttl
				session.mu.Unlock()
				if expired {
					delete(st.sessions, id)
				}
			}
			st.mu.Unlock()
		case <-st.stopCh:
			return
		}
	}
}

func (st *Store) Stop() {
	close(st.stopCh)
}
