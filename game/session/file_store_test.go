package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "state", "session.json"))
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	return store
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	saved := Session{SessionID: "sess-42", RoomCode: "XYZ99", PlayerID: "player-7"}

	if err := store.Save(saved); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	t.Run("load returns the saved triple", func(t *testing.T) {
		loaded, err := store.Load()
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if loaded != saved {
			t.Errorf("Expected %+v, got %+v", saved, loaded)
		}
	})

	t.Run("a fresh store on the same path sees the session", func(t *testing.T) {
		reopened, err := NewFileStore(store.path)
		if err != nil {
			t.Fatalf("Failed to reopen store: %v", err)
		}
		loaded, err := reopened.Load()
		if err != nil {
			t.Fatalf("Failed to load session after reopen: %v", err)
		}
		if loaded != saved {
			t.Errorf("Expected %+v, got %+v", saved, loaded)
		}
	})

	t.Run("clear removes the file", func(t *testing.T) {
		if err := store.Clear(); err != nil {
			t.Fatalf("Failed to clear: %v", err)
		}
		if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
			t.Errorf("Expected ErrNoSession, got %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Errorf("Second clear should be a no-op, got %v", err)
		}
	})
}

func TestFileStore_DegradesToAbsent(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		store := newTestFileStore(t)
		if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
			t.Errorf("Expected ErrNoSession, got %v", err)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		store := newTestFileStore(t)
		if err := os.WriteFile(store.path, []byte("{not json"), 0o600); err != nil {
			t.Fatalf("Failed to write corrupt file: %v", err)
		}
		if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
			t.Errorf("Expected ErrNoSession, got %v", err)
		}
	})

	t.Run("incomplete triple on disk", func(t *testing.T) {
		store := newTestFileStore(t)
		if err := os.WriteFile(store.path, []byte(`{"sessionId":"only-this"}`), 0o600); err != nil {
			t.Fatalf("Failed to write partial file: %v", err)
		}
		if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
			t.Errorf("Expected ErrNoSession, got %v", err)
		}
	})
}

func TestFileStore_RejectsPartialSessions(t *testing.T) {
	store := newTestFileStore(t)
	err := store.Save(Session{SessionID: "sess-1", RoomCode: "ABC12"})
	if !errors.Is(err, ErrPartialSession) {
		t.Fatalf("Expected ErrPartialSession, got %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Partial save must not touch disk, got %v", err)
	}
}
