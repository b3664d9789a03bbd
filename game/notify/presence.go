package notify

import "sync"

// Presence tracks which players the server currently flags as
// disconnected. Absence from the set only means "not flagged", not active
// participation.
type Presence struct {
	mu           sync.RWMutex
	disconnected map[string]bool
}

func NewPresence() *Presence {
	return &Presence{disconnected: make(map[string]bool)}
}

// MarkDisconnected flags a player as disconnected.
func (p *Presence) MarkDisconnected(playerID string) {
	p.mu.Lock()
	p.disconnected[playerID] = true
	p.mu.Unlock()
}

// MarkReconnected removes the flag. Reconnects for players never marked
// disconnected are a no-op, since the server may report them after a
// resume.
func (p *Presence) MarkReconnected(playerID string) {
	p.mu.Lock()
	delete(p.disconnected, playerID)
	p.mu.Unlock()
}

// IsDisconnected reports whether a player is currently flagged.
func (p *Presence) IsDisconnected(playerID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.disconnected[playerID]
}

// Disconnected returns the flagged player ids.
func (p *Presence) Disconnected() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]string, 0, len(p.disconnected))
	for id := range p.disconnected {
		out = append(out, id)
	}
	return out
}

// Reset clears all flags, used when the room snapshot is discarded.
func (p *Presence) Reset() {
	p.mu.Lock()
	p.disconnected = make(map[string]bool)
	p.mu.Unlock()
}
