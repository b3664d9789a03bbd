package session

import (
	"errors"
	"sync"
)

var (
	// ErrNoSession is returned by Load when no session is stored.
	ErrNoSession = errors.New("no stored session")

	// ErrPartialSession is returned by Save when the triple is incomplete.
	ErrPartialSession = errors.New("session is missing fields")
)

// Session is the credential triple for one room membership.
type Session struct {
	SessionID string `json:"sessionId"`
	RoomCode  string `json:"roomCode"`
	PlayerID  string `json:"playerId"`
}

// Complete reports whether all three fields are present.
func (s Session) Complete() bool {
	return s.SessionID != "" && s.RoomCode != "" && s.PlayerID != ""
}

// Store persists at most one session. Implementations are synchronous,
// network-free and safe for concurrent use; the client's event loop writes
// the store while other goroutines read it.
type Store interface {
	// Save persists the session, rejecting incomplete triples.
	Save(s Session) error

	// Load returns the stored session, or ErrNoSession when absent.
	Load() (Session, error)

	// Clear removes any stored session. Clearing an empty store is not an
	// error.
	Clear() error
}

// MemStore keeps the session in memory. It backs tests and callers that
// only need resume-across-reconnect, not resume-across-restart.
type MemStore struct {
	mu      sync.RWMutex
	session Session
	present bool
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Save(s Session) error {
	if !s.Complete() {
		return ErrPartialSession
	}
	m.mu.Lock()
	m.session = s
	m.present = true
	m.mu.Unlock()
	return nil
}

func (m *MemStore) Load() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present {
		return Session{}, ErrNoSession
	}
	return m.session, nil
}

func (m *MemStore) Clear() error {
	m.mu.Lock()
	m.session = Session{}
	m.present = false
	m.mu.Unlock()
	return nil
}

// NoopStore is the degraded store used when persistence is unavailable or
// disabled. It accepts writes and never returns a session, which the
// resumer treats the same as "no prior session".
type NoopStore struct{}

func (NoopStore) Save(Session) error { return nil }

func (NoopStore) Load() (Session, error) { return Session{}, ErrNoSession }

func (NoopStore) Clear() error { return nil }
