package session

import (
	"testing"
	"time"

	"github.com/Shimizu-Technology/pdf-replace/internal/models"
)

func TestStoreSaveAndGet(t *testing.T) {
	st := NewStore(time.Hour)

	sess := Session{
		ID:       st.NewID(),
		Filename: "invoice.pdf",
		Original: []byte("%PDF-"),
		Search:   "Premium",
		Replace:  "Standard",
		Count:    2,
		Instances: []models.TextInstance{
			{Page: 1, Text: "Premium"},
		},
	}
	st.Save(sess)

	got, ok := st.Get(sess.ID)
	if !ok {
		t.Fatal("Get() reported missing session")
	}
	if got.Filename != "invoice.pdf" || got.Search != "Premium" || got.Count != 2 {
		t.Errorf("Get() = %+v", got)
	}
	if len(got.Instances) != 1 {
		t.Errorf("Instances = %d, want 1", len(got.Instances))
	}
}

func TestStoreGetUnknown(t *testing.T) {
	st := NewStore(time.Hour)
	if _, ok := st.Get("no-such-id"); ok {
		t.Error("Get() found a session that was never saved")
	}
}

// Get hands out a snapshot; mutating it must not leak back into the
// store until Save.
func TestStoreSnapshotIsolation(t *testing.T) {
	st := NewStore(time.Hour)
	sess := Session{ID: st.NewID(), Filename: "a.pdf"}
	st.Save(sess)

	snap, _ := st.Get(sess.ID)
	snap.Filename = "b.pdf"

	again, _ := st.Get(sess.ID)
	if again.Filename != "a.pdf" {
		t.Errorf("Filename = %q, snapshot mutation leaked into store", again.Filename)
	}

	st.Save(snap)
	final, _ := st.Get(sess.ID)
	if final.Filename != "b.pdf" {
		t.Errorf("Filename = %q after Save, want b.pdf", final.Filename)
	}
}

func TestStoreEviction(t *testing.T) {
	st := NewStore(time.Minute)
	sess := Session{ID: st.NewID()}
	st.Save(sess)

	if n := st.evictStale(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Errorf("evictStale() removed %d, want 1", n)
	}
	if _, ok := st.Get(sess.ID); ok {
		t.Error("Get() found an evicted session")
	}
}

func TestStoreGetExpired(t *testing.T) {
	st := NewStore(time.Minute)
	sess := Session{ID: st.NewID()}
	st.Save(sess)

	// Age the entry past the TTL without waiting.
	st.mu.Lock()
	st.sessions[sess.ID].lastSeen = time.Now().Add(-2 * time.Minute)
	st.mu.Unlock()

	if _, ok := st.Get(sess.ID); ok {
		t.Error("Get() returned an expired session")
	}
	if st.Len() != 0 {
		t.Errorf("Len() = %d after expiry, want 0", st.Len())
	}
}

func TestStoreLen(t *testing.T) {
	st := NewStore(time.Hour)
	if st.Len() != 0 {
		t.Errorf("Len() = %d, want 0", st.Len())
	}
	st.Save(Session{ID: st.NewID()})
	st.Save(Session{ID: st.NewID()})
	if st.Len() != 2 {
		t.Errorf("Len() = %d, want 2", st.Len())
	}
}

func TestSessionHasResults(t *testing.T) {
	var s Session
	if s.HasResults() {
		t.Error("empty session reports results")
	}
	s.Original = []byte("%PDF-")
	if s.HasResults() {
		t.Error("session without a search reports results")
	}
	s.Search = "Premium"
	if !s.HasResults() {
		t.Error("session with upload and search reports no results")
	}
}

func TestNewIDUnique(t *testing.T) {
	st := NewStore(time.Hour)
	a, b := st.NewID(), st.NewID()
	if a == "" || a == b {
		t.Errorf("NewID() = %q, %q, want distinct non-empty IDs", a, b)
	}
}
