package conversation

import (
	"sync"
	"testing"
	"time"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(0)
	defer store.Close()

	session := store.Create()
	if session.ID == "" {
		t.Fatalf("expected a non-empty session id")
	}

	got, ok := store.Get(session.ID)
	if !ok {
		t.Fatalf("expected to find session %s", session.ID)
	}
	if got != session {
		t.Errorf("expected the same session instance back")
	}

	if _, ok := store.Get("missing"); ok {
		t.Errorf("expected lookup of unknown id to miss")
	}
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(0)
	defer store.Close()

	session := store.Create()
	store.Delete(session.ID)

	if _, ok := store.Get(session.ID); ok {
		t.Errorf("expected session to be gone after delete")
	}
	if store.Count() != 0 {
		t.Errorf("expected count 0, got %d", store.Count())
	}
}

func TestStore_ReapIdle(t *testing.T) {
	store := NewStore(0)
	defer store.Close()
	store.ttl = 10 * time.Minute

	stale := store.Create()
	stale.lastActive.Store(time.Now().Add(-time.Hour).UnixNano())

	fresh := store.Create()
	fresh.Touch()

	store.reapIdle()

	if _, ok := store.Get(stale.ID); ok {
		t.Errorf("expected idle session to be reaped")
	}
	if _, ok := store.Get(fresh.ID); !ok {
		t.Errorf("expected active session to survive reaping")
	}
}

// The janitor reads the idle clock without the session lock while the dialog
// path refreshes it under the session lock; run both under the race detector.
func TestStore_ReapIdleConcurrentWithTouch(t *testing.T) {
	store := NewStore(0)
	defer store.Close()
	store.ttl = 10 * time.Minute

	session := store.Create()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			session.Lock()
			session.Touch()
			session.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			store.reapIdle()
		}
	}()

	wg.Wait()

	if _, ok := store.Get(session.ID); !ok {
		t.Errorf("expected the touched session to survive reaping")
	}
}
