package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Factory func(id string) (*Session, error)

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps sessions in memory. Sessions idle for longer than IdleTimeout
// are closed by Sweep.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*entry
	factory     Factory
	IdleTimeout time.Duration
	Now         func() time.Time
}

func NewStore(idleTimeout time.Duration, factory Factory) *Store {
	return &Store{
		sessions:    make(map[string]*entry),
		factory:     factory,
		IdleTimeout: idleTimeout,
		Now:         time.Now,
	}
}

func NewId() string {
	return uuid.NewString()
}

// Get returns the session for id, creating it when it is unknown. An id that
// is not a uuid is replaced by a fresh one, created reports whether a new
// session was made.
func (st *Store) Get(id string) (s *Session, created bool, err error) {
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		id = NewId()
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.Now()
	if e, ok := st.sessions[id]; ok {
		e.lastSeen = now
		return e.session, false, nil
	}
	s, err = st.factory(id)
	if err != nil {
		return nil, false, err
	}
	st.sessions[id] = &entry{session: s, lastSeen: now}
	activeSessions.Set(float64(len(st.sessions)))
	return s, true, nil
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep closes and drops idle sessions and returns how many were dropped.
func (st *Store) Sweep() int {
	st.mu.Lock()
	cutoff := st.Now().Add(-st.IdleTimeout)
	expired := make([]*Session, 0)
	for id, e := range st.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.session)
			delete(st.sessions, id)
		}
	}
	activeSessions.Set(float64(len(st.sessions)))
	st.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done.
func (st *Store) Run(ctx context.Context) {
	interval := max(st.IdleTimeout/2, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				log.Printf("Dropped %d idle sessions", n)
			}
		}
	}
}

// Close drops every session.
func (st *Store) Close() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*entry)
	activeSessions.Set(0)
	st.mu.Unlock()
	for _, e := range sessions {
		e.session.Close()
	}
}
