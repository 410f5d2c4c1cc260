// Package session holds per-browser state between form interactions.
//
// State lives server side in memory, keyed by a random session ID; the
// browser carries only a signed cookie naming the ID. Uploaded PDFs can
// run to megabytes, so the bytes never travel to the client and a
// server restart simply forgets in-flight sessions — nothing here is
// worth persisting.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shimizu-Technology/pdf-replace/internal/models"
)

// Session is the state one browser accumulates between interactions:
// the uploaded document, the last search, and the replacement output.
// Everything is plain data — byte buffers and results, never a live
// document handle.
type Session struct {
	ID        string
	Filename  string // original upload name
	Original  []byte // uploaded PDF
	Search    string
	Replace   string
	Instances []models.TextInstance
	Document  *models.DocumentInfo
	Warnings  []string // non-fatal problems from the last search
	Modified  []byte   // replacer output
	Count     int      // replacements performed
}

// HasResults reports whether a search has run against the upload.
func (s *Session) HasResults() bool {
	return s.Original != nil && s.Search != ""
}

// entry pairs a stored session with its liveness stamp.
type entry struct {
	sess     Session
	lastSeen time.Time
}

// Store is an in-memory session table with TTL eviction.
//
// Go Pattern: Sessions are stored and returned BY VALUE. Handlers work
// on a snapshot and write the whole thing back with Save, so two
// overlapping requests can never race on a field — last write wins.
// The byte slices inside are shared but only ever replaced wholesale,
// never mutated in place.
type Store struct {
	// Go Pattern: sync.RWMutex allows multiple concurrent readers but
	// exclusive writers. Get still takes the write lock because it
	// refreshes the liveness stamp.
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
}

// NewStore creates a store whose sessions expire after ttl of
// inactivity and starts the background eviction goroutine.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
	}

	// Start background cleanup goroutine
	go s.cleanup()

	return s
}

// NewID mints a fresh session ID.
func (s *Store) NewID() string {
	return uuid.New().String()
}

// Get returns a snapshot of the session and refreshes its liveness.
// A stale or unknown ID reports false.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	if time.Since(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return Session{}, false
	}
	e.lastSeen = time.Now()
	return e.sess, true
}

// Save stores the session under its ID, replacing any previous state.
func (s *Store) Save(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = &entry{sess: sess, lastSeen: time.Now()}
}

// Len returns the number of live sessions, for the health endpoint.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// cleanup periodically removes stale sessions to prevent memory leaks.
func (s *Store) cleanup() {
	// Go Pattern: time.Ticker sends values at regular intervals.
	// Always defer ticker.Stop() to release resources.
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.evictStale(time.Now())
	}
}

// evictStale drops every session idle longer than the TTL and returns
// how many were removed.
func (s *Store) evictStale(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
