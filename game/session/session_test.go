package session

import (
	"errors"
	"sync"
	"testing"
)

func TestMemStore_RoundTrip(t *testing.T) {
	store := NewMemStore()
	saved := Session{SessionID: "sess-1", RoomCode: "ABC12", PlayerID: "player-1"}

	t.Run("save then load returns the saved session", func(t *testing.T) {
		if err := store.Save(saved); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		loaded, err := store.Load()
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if loaded != saved {
			t.Errorf("Expected %+v, got %+v", saved, loaded)
		}
	})

	t.Run("clear then load returns ErrNoSession", func(t *testing.T) {
		if err := store.Clear(); err != nil {
			t.Fatalf("Failed to clear store: %v", err)
		}
		if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
			t.Errorf("Expected ErrNoSession, got %v", err)
		}
	})

	t.Run("clearing an empty store is not an error", func(t *testing.T) {
		if err := store.Clear(); err != nil {
			t.Errorf("Expected nil, got %v", err)
		}
	})
}

func TestMemStore_RejectsPartialSessions(t *testing.T) {
	partials := []Session{
		{},
		{SessionID: "sess-1"},
		{SessionID: "sess-1", RoomCode: "ABC12"},
		{RoomCode: "ABC12", PlayerID: "player-1"},
	}

	for _, p := range partials {
		store := NewMemStore()
		if err := store.Save(p); !errors.Is(err, ErrPartialSession) {
			t.Errorf("Save(%+v): expected ErrPartialSession, got %v", p, err)
		}
		if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
			t.Errorf("Save(%+v): store should remain empty, got %v", p, err)
		}
	}
}

func TestMemStore_ConcurrentAccess(t *testing.T) {
	// The event loop saves and clears while other goroutines load; the
	// store must hold up under the race detector.
	store := NewMemStore()
	saved := Session{SessionID: "sess-1", RoomCode: "ABC12", PlayerID: "player-1"}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Save(saved)
				store.Clear()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if s, err := store.Load(); err == nil && s != saved {
					t.Errorf("Load returned a torn session: %+v", s)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNoopStore_AlwaysAbsent(t *testing.T) {
	store := NoopStore{}

	if err := store.Save(Session{SessionID: "s", RoomCode: "ABC12", PlayerID: "p"}); err != nil {
		t.Fatalf("Save should succeed silently: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear should succeed silently: %v", err)
	}
}
