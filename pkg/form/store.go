package form

import (
	"sync"

	"cropcast/pkg/envelope"
)

// DefaultMaxSessions bounds the number of sessions kept in memory.
const DefaultMaxSessions = 1024

// Store keeps one Session per browser. Nothing is persisted; a restart
// starts every visitor from the default form.
type Store struct {
	env *envelope.Envelope
	max int

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore(env *envelope.Envelope, max int) *Store {
	if env == nil {
		env = envelope.Default()
	}
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &Store{env: env, max: max, sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it on first use. When the store
// is full the least recently used session is dropped.
func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		return s
	}
	if len(st.sessions) >= st.max {
		st.evictOldest()
	}
	s := NewSession(id, st.env)
	st.sessions[id] = s
	return s
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) Envelope() *envelope.Envelope { return st.env }

func (st *Store) evictOldest() {
	var oldestID string
	var oldest *Session
	for id, s := range st.sessions {
		if oldest == nil || s.lastTouched().Before(oldest.lastTouched()) {
			oldestID, oldest = id, s
		}
	}
	if oldest != nil {
		delete(st.sessions, oldestID)
	}
}
