package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/QuintaPe/resistance-client/game/notify"
	"github.com/QuintaPe/resistance-client/game/protocol"
	"github.com/QuintaPe/resistance-client/game/session"
	"github.com/QuintaPe/resistance-client/game/state"
	"github.com/QuintaPe/resistance-client/transport/socket"
)

// AckFunc receives the server's answer to a dispatched action.
type AckFunc func(ok bool, reason string)

// ackHandler is the internal callback shape; it sees the full ack payload
// so identity-bearing acks can persist the session triple.
type ackHandler func(payload protocol.AckPayload)

// Transport is the connection surface the client depends on. *socket.Conn
// satisfies it; tests inject fakes.
type Transport interface {
	Send(env protocol.Envelope) error
	Inbound() <-chan protocol.Envelope
	Status() <-chan socket.StatusEvent
	Close() error
}

// DefaultResumeTimeout bounds how long an unanswered resume attempt may
// hold the UI in a loading state.
const DefaultResumeTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	Transport Transport
	Store     session.Store

	// ResumeTimeout defaults to DefaultResumeTimeout.
	ResumeTimeout time.Duration

	// NotificationTTL defaults to notify.DefaultTTL.
	NotificationTTL time.Duration

	Logger *zap.Logger
}

// Client is the session layer: one connection, one synchronized room view,
// acknowledged outbound actions.
type Client struct {
	transport Transport
	store     session.Store
	room      *state.Room
	feed      *notify.Feed
	presence  *notify.Presence
	log       *zap.Logger

	resumeTimeout time.Duration
	resumeTimer   *time.Timer

	mu              sync.Mutex
	acks            map[uint64]ackHandler
	nextID          uint64
	resumeState     ResumeState
	resumeAckID     uint64
	lastResumeEpoch int
	playerID        string
	roomCode        string
	connected       bool
	reconnecting    bool
	roleRequested   bool
}

// New builds a Client. Transport and Store are required; a nil logger
// disables logging.
func New(opts Options) *Client {
	if opts.ResumeTimeout <= 0 {
		opts.ResumeTimeout = DefaultResumeTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	store := opts.Store
	if store == nil {
		store = session.NoopStore{}
	}

	return &Client{
		transport:     opts.Transport,
		store:         store,
		room:          state.NewRoom(),
		feed:          notify.NewFeed(opts.NotificationTTL),
		presence:      notify.NewPresence(),
		log:           opts.Logger.Named("client"),
		resumeTimeout: opts.ResumeTimeout,
		acks:          make(map[uint64]ackHandler),
	}
}

// Room exposes the synchronized room state for read-only consumers.
func (c *Client) Room() *state.Room { return c.room }

// Notifications exposes the decaying notification feed.
func (c *Client) Notifications() *notify.Feed { return c.feed }

// Presence exposes the set of currently disconnected players.
func (c *Client) Presence() *notify.Presence { return c.presence }

// PlayerID returns the local player's id, empty until a room is joined or
// a session resumed.
func (c *Client) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// Connected reports whether the transport currently has a live connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Reconnecting reports whether the transport is between connections.
func (c *Client) Reconnecting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconnecting
}

// Run consumes transport events until the context is cancelled or the
// transport channels close. It must be running for acknowledgements,
// resumption and state synchronization to make progress.
func (c *Client) Run(ctx context.Context) error {
	c.resumeTimer = time.NewTimer(time.Hour)
	c.stopResumeTimer()
	defer c.stopResumeTimer()

	for {
		select {
		case env, ok := <-c.transport.Inbound():
			if !ok {
				return nil
			}
			c.handleEnvelope(env)

		case ev, ok := <-c.transport.Status():
			if !ok {
				return nil
			}
			c.handleStatus(ev)

		case <-c.resumeTimer.C:
			c.resumeTimedOut()

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handleStatus reacts to transport transitions, feeding the aggregator and
// kicking off resumption on every connected rising edge.
func (c *Client) handleStatus(ev socket.StatusEvent) {
	switch ev.New {
	case socket.StateConnected:
		c.mu.Lock()
		c.connected = true
		c.reconnecting = false
		c.mu.Unlock()
		c.feed.Push(notify.SeveritySuccess, "Connected to server")
		c.maybeResume(ev.Epoch)

	case socket.StateReconnecting:
		c.mu.Lock()
		wasConnected := c.connected
		c.connected = false
		c.reconnecting = true
		c.mu.Unlock()
		c.failPendingAcks("connection lost")
		if wasConnected {
			c.feed.Push(notify.SeverityWarning, "Connection lost, reconnecting...")
		}

	case socket.StateClosed:
		c.mu.Lock()
		c.connected = false
		c.reconnecting = false
		c.mu.Unlock()
		c.failPendingAcks("connection closed")
		c.feed.Push(notify.SeverityInfo, "Disconnected")
	}
}

// failPendingAcks answers every in-flight request with a failure. A request
// that was on the wire when the connection died will never be acked by the
// server; leaving its callback hanging would also leak the map entry across
// reconnects.
func (c *Client) failPendingAcks(reason string) {
	c.mu.Lock()
	pending := c.acks
	c.acks = make(map[uint64]ackHandler)
	c.mu.Unlock()

	for id, handler := range pending {
		c.log.Debug("failing in-flight request", zap.Uint64("id", id), zap.String("reason", reason))
		handler(protocol.AckPayload{OK: false, Reason: reason})
	}
}

// handleEnvelope routes one inbound server envelope.
func (c *Client) handleEnvelope(env protocol.Envelope) {
	switch env.Type {
	case protocol.EventAck:
		c.handleAck(env)
	case protocol.EventRoomState:
		c.handleRoomState(env)
	case protocol.EventRoleAssign:
		c.handleRoleAssign(env)
	case protocol.EventPlayerDisconnected:
		c.handlePresence(env, false)
	case protocol.EventPlayerReconnected:
		c.handlePresence(env, true)
	case protocol.EventPlayerKicked:
		c.handleKicked(env)
	case protocol.EventCreatorChanged:
		c.handleCreatorChanged(env)
	default:
		c.log.Debug("ignoring unknown event", zap.String("type", env.Type))
	}
}

func (c *Client) handleAck(env protocol.Envelope) {
	var payload protocol.AckPayload
	if err := protocol.DecodePayload(env.Data, &payload); err != nil {
		c.log.Warn("malformed ack", zap.Error(err))
		return
	}

	c.mu.Lock()
	isResume := env.ID != 0 && env.ID == c.resumeAckID
	var handler ackHandler
	if !isResume {
		handler = c.acks[env.ID]
		delete(c.acks, env.ID)
	}
	c.mu.Unlock()

	if isResume {
		c.finishResume(payload)
		return
	}
	if handler == nil {
		// Late answer to a timed-out or unknown request; drop it.
		c.log.Debug("ack without a waiting request", zap.Uint64("id", env.ID))
		return
	}
	handler(payload)
}

func (c *Client) handleRoomState(env protocol.Envelope) {
	var snap protocol.RoomSnapshot
	if err := protocol.DecodePayload(env.Data, &snap); err != nil {
		c.log.Warn("malformed room snapshot", zap.Error(err))
		return
	}
	if !snap.Phase.Valid() {
		c.log.Warn("snapshot with unknown phase", zap.String("phase", string(snap.Phase)))
		return
	}

	c.room.Replace(&snap)

	if snap.Phase == protocol.PhaseLobby {
		// Back in the lobby means a new game and a new deal.
		c.room.ClearRole()
		c.mu.Lock()
		c.roleRequested = false
		c.mu.Unlock()
		return
	}

	c.maybeRequestRole(&snap)
}

// maybeRequestRole fetches the private role when a game is mid-phase and
// no assignment is held, e.g. right after a resume.
func (c *Client) maybeRequestRole(snap *protocol.RoomSnapshot) {
	if !snap.Phase.InGame() {
		return
	}
	if _, ok := c.room.Role(); ok {
		return
	}

	c.mu.Lock()
	if c.roleRequested || c.playerID == "" {
		c.mu.Unlock()
		return
	}
	c.roleRequested = true
	c.mu.Unlock()

	if err := c.RequestRole(nil); err != nil {
		c.log.Warn("role request not sent", zap.Error(err))
		c.mu.Lock()
		c.roleRequested = false
		c.mu.Unlock()
	}
}

func (c *Client) handleRoleAssign(env protocol.Envelope) {
	var role protocol.RoleAssignment
	if err := protocol.DecodePayload(env.Data, &role); err != nil {
		c.log.Warn("malformed role assignment", zap.Error(err))
		return
	}
	c.room.SetRole(role)
	c.feed.Push(notify.SeverityInfo, "Your role has been dealt")
}

func (c *Client) handlePresence(env protocol.Envelope, reconnected bool) {
	var payload protocol.PresencePush
	if err := protocol.DecodePayload(env.Data, &payload); err != nil {
		c.log.Warn("malformed presence event", zap.Error(err))
		return
	}

	name := c.displayName(payload.PlayerID)
	if reconnected {
		c.presence.MarkReconnected(payload.PlayerID)
		c.feed.Push(notify.SeveritySuccess, name+" reconnected")
	} else {
		c.presence.MarkDisconnected(payload.PlayerID)
		c.feed.Push(notify.SeverityWarning, name+" disconnected")
	}
}

func (c *Client) handleKicked(env protocol.Envelope) {
	var payload protocol.KickedPush
	if err := protocol.DecodePayload(env.Data, &payload); err != nil {
		c.log.Warn("malformed kick event", zap.Error(err))
		return
	}

	c.mu.Lock()
	me := c.playerID != "" && payload.PlayerID == c.playerID
	c.mu.Unlock()

	if !me {
		c.presence.MarkReconnected(payload.PlayerID)
		c.feed.Push(notify.SeverityInfo, c.displayName(payload.PlayerID)+" was removed from the room")
		return
	}

	// Forced removal: the session must die before anything else happens so
	// an automatic resume can never resurrect this room.
	if err := c.store.Clear(); err != nil {
		c.log.Warn("failed to clear session after kick", zap.Error(err))
	}
	c.room.Clear()
	c.presence.Reset()
	c.clearIdentity()
	c.setResumeState(ResumeNoSession)
	c.feed.Push(notify.SeverityWarning, "You were removed from the room")
	c.log.Info("kicked from room")
}

func (c *Client) handleCreatorChanged(env protocol.Envelope) {
	var payload protocol.CreatorChangedPush
	if err := protocol.DecodePayload(env.Data, &payload); err != nil {
		c.log.Warn("malformed creator change", zap.Error(err))
		return
	}
	c.feed.Push(notify.SeverityInfo, c.displayName(payload.CreatorID)+" is now the room creator")
}

// displayName resolves a player id against the current snapshot, falling
// back to the raw id.
func (c *Client) displayName(playerID string) string {
	if snap, ok := c.room.Current(); ok {
		if p, ok := snap.PlayerByID(playerID); ok {
			return p.Name
		}
	}
	return playerID
}

// adoptIdentity records the identity fields of a successful create, join
// or resume ack and persists the session triple.
func (c *Client) adoptIdentity(payload protocol.AckPayload) {
	sess := session.Session{
		SessionID: payload.SessionID,
		RoomCode:  payload.RoomCode,
		PlayerID:  payload.PlayerID,
	}
	if sess.Complete() {
		if err := c.store.Save(sess); err != nil {
			c.log.Warn("failed to persist session", zap.Error(err))
		}
	}

	c.mu.Lock()
	if payload.PlayerID != "" {
		c.playerID = payload.PlayerID
	}
	if payload.RoomCode != "" {
		c.roomCode = payload.RoomCode
	}
	c.mu.Unlock()
}

func (c *Client) clearIdentity() {
	c.mu.Lock()
	c.playerID = ""
	c.roomCode = ""
	c.roleRequested = false
	c.mu.Unlock()
}
