// Package session keeps live visualizer sessions for the HTTP server.
//
// A [Session] owns one [visualizer.Controller] and the SVG surface it draws
// on. Controllers are not safe for concurrent use, so every access goes
// through [Session.Do], which holds the session's mutex.
//
// [Store] bounds the number of sessions with an LRU: creating a session
// past the limit evicts the least recently used one. Sessions also expire
// after a TTL measured from their last use.
//
//	store := session.NewStore(session.DefaultMaxSessions, session.DefaultTTL)
//	sess := store.Create("graph.json", ctrl, surface)
//	...
//	sess, err := store.Get(id)
//	err = sess.Do(func(c *visualizer.Controller) error {
//	    c.Click(x, y)
//	    return nil
//	})
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/importviz/pkg/canvas/svg"
	"github.com/matzehuels/importviz/pkg/errors"
	"github.com/matzehuels/importviz/pkg/visualizer"
)

// Sentinel errors for session lookups.
var (
	// ErrNotFound is returned when a session does not exist or was evicted.
	ErrNotFound = errors.New(errors.ErrCodeSessionNotFound, "session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New(errors.ErrCodeSessionExpired, "session expired")
)

// Defaults for NewStore.
const (
	DefaultTTL         = 30 * time.Minute
	DefaultMaxSessions = 64
)

// Session is one live visualization.
type Session struct {
	ID        string
	Source    string
	CreatedAt time.Time

	mu       sync.Mutex
	lastUsed time.Time
	ctrl     *visualizer.Controller
	surface  *svg.Surface
}

// Do runs fn with exclusive access to the session's controller.
func (s *Session) Do(fn func(*visualizer.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ctrl)
}

// SVG returns the current canvas as an SVG document.
func (s *Session) SVG() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Bytes()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ttl > 0 && now.Sub(s.lastUsed) > ttl
}

// Store is a bounded, concurrency-safe set of sessions.
type Store struct {
	sessions *lru.Cache[string, *Session]
	ttl      time.Duration
	now      func() time.Time
}

// NewStore returns a store holding at most size sessions, each expiring ttl
// after its last use. A zero ttl disables expiry.
func NewStore(size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	sessions, _ := lru.New[string, *Session](size)
	return &Store{sessions: sessions, ttl: ttl, now: time.Now}
}

// Create registers a new session around ctrl and the surface it draws on.
func (st *Store) Create(source string, ctrl *visualizer.Controller, surface *svg.Surface) *Session {
	now := st.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: now,
		lastUsed:  now,
		ctrl:      ctrl,
		surface:   surface,
	}
	st.sessions.Add(sess.ID, sess)
	return sess
}

// Get returns the session with the given id and marks it as used. Expired
// sessions are removed.
func (st *Store) Get(id string) (*Session, error) {
	sess, ok := st.sessions.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	now := st.now()
	if sess.expired(now, st.ttl) {
		st.sessions.Remove(id)
		return nil, ErrExpired
	}
	sess.touch(now)
	return sess, nil
}

// Delete removes a session. It reports whether the session existed.
func (st *Store) Delete(id string) bool { return st.sessions.Remove(id) }

// Len returns the number of stored sessions, including expired ones not yet
// cleaned up.
func (st *Store) Len() int { return st.sessions.Len() }

// Cleanup removes expired sessions and returns how many were removed.
func (st *Store) Cleanup() int {
	now := st.now()
	removed := 0
	for _, id := range st.sessions.Keys() {
		sess, ok := st.sessions.Peek(id)
		if ok && sess.expired(now, st.ttl) {
			st.sessions.Remove(id)
			removed++
		}
	}
	return removed
}
