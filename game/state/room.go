package state

import (
	"sync"

	"github.com/QuintaPe/resistance-client/game/protocol"
)

// Room synchronizes the server-pushed room snapshot and the private role
// assignment. All methods are safe for concurrent use; consumers must treat
// returned snapshots as read-only values valid until the next replacement.
type Room struct {
	mu       sync.RWMutex
	snapshot *protocol.RoomSnapshot
	role     *protocol.RoleAssignment
	watchers []chan *protocol.RoomSnapshot
}

func NewRoom() *Room {
	return &Room{}
}

// Replace installs a new snapshot, discarding the previous one entirely,
// and fans it out to subscribers. Subscribers with a full channel miss this
// update rather than stalling the event loop.
func (r *Room) Replace(snap *protocol.RoomSnapshot) {
	r.mu.Lock()
	r.snapshot = snap
	watchers := make([]chan *protocol.RoomSnapshot, len(r.watchers))
	copy(watchers, r.watchers)
	r.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Current returns the latest snapshot, or false when no room state has been
// received yet or the room was cleared.
func (r *Room) Current() (*protocol.RoomSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snapshot == nil {
		return nil, false
	}
	return r.snapshot, true
}

// Clear drops the snapshot and the role assignment, used when the player
// leaves or is removed from the room.
func (r *Room) Clear() {
	r.mu.Lock()
	r.snapshot = nil
	r.role = nil
	r.mu.Unlock()
}

// Subscribe returns a channel that receives every subsequent snapshot
// replacement.
func (r *Room) Subscribe() <-chan *protocol.RoomSnapshot {
	ch := make(chan *protocol.RoomSnapshot, 8)
	r.mu.Lock()
	r.watchers = append(r.watchers, ch)
	r.mu.Unlock()
	return ch
}

// SetRole stores the private role assignment for the current game.
func (r *Room) SetRole(role protocol.RoleAssignment) {
	r.mu.Lock()
	r.role = &role
	r.mu.Unlock()
}

// Role returns the held role assignment, if any.
func (r *Room) Role() (protocol.RoleAssignment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.role == nil {
		return protocol.RoleAssignment{}, false
	}
	return *r.role, true
}

// ClearRole discards the role assignment. A room returning to the lobby
// implies a new game and therefore a new assignment.
func (r *Room) ClearRole() {
	r.mu.Lock()
	r.role = nil
	r.mu.Unlock()
}
