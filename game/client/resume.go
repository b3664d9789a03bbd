package client

import (
	"errors"

	"go.uber.org/zap"

	"github.com/QuintaPe/resistance-client/game/notify"
	"github.com/QuintaPe/resistance-client/game/protocol"
	"github.com/QuintaPe/resistance-client/game/session"
)

// ResumeState is the explicit state machine behind session resumption.
// Making the states an enum keeps "stuck loading" unrepresentable: every
// attempt ends in Resumed, ResumeNoSession or ResumeFailed.
type ResumeState int

const (
	// ResumeIdle means no connection has been established yet.
	ResumeIdle ResumeState = iota

	// ResumeAttempting means a resume request is in flight; room-dependent
	// UI should show a loading state.
	ResumeAttempting

	// Resumed means the server accepted the stored session and the current
	// snapshot has been (or is about to be) pushed.
	Resumed

	// ResumeNoSession means there was nothing to resume; a fresh
	// join/create flow applies.
	ResumeNoSession

	// ResumeFailed means the server rejected the session or never answered;
	// the stored session has been cleared.
	ResumeFailed
)

func (s ResumeState) String() string {
	switch s {
	case ResumeIdle:
		return "idle"
	case ResumeAttempting:
		return "attemptingResume"
	case Resumed:
		return "resumed"
	case ResumeNoSession:
		return "noSession"
	case ResumeFailed:
		return "resumeFailed"
	default:
		return "unknown"
	}
}

// maybeResume runs once per connection epoch on the connected rising edge.
// Duplicate connected events for the same epoch are ignored, so a resume
// request is never emitted twice on one physical connection.
func (c *Client) maybeResume(epoch int) {
	c.mu.Lock()
	if epoch <= c.lastResumeEpoch {
		c.mu.Unlock()
		return
	}
	c.lastResumeEpoch = epoch
	c.mu.Unlock()

	sess, err := c.store.Load()
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			c.log.Warn("session store unreadable, treating as absent", zap.Error(err))
		}
		c.setResumeState(ResumeNoSession)
		return
	}

	env, err := protocol.NewEnvelope(protocol.EventResumeSession, protocol.ResumeRequest{
		RoomCode:  sess.RoomCode,
		SessionID: sess.SessionID,
		PlayerID:  sess.PlayerID,
	})
	if err != nil {
		c.log.Error("failed to build resume request", zap.Error(err))
		c.setResumeState(ResumeNoSession)
		return
	}

	c.mu.Lock()
	c.nextID++
	env.ID = c.nextID
	c.resumeAckID = env.ID
	c.resumeState = ResumeAttempting
	c.playerID = sess.PlayerID
	c.roomCode = sess.RoomCode
	c.mu.Unlock()

	if err := c.transport.Send(env); err != nil {
		// The connection raced away again; the next epoch retries.
		c.log.Warn("resume request not sent", zap.Error(err))
		c.mu.Lock()
		c.resumeAckID = 0
		c.resumeState = ResumeIdle
		c.mu.Unlock()
		return
	}

	c.log.Info("resuming session",
		zap.String("roomCode", sess.RoomCode),
		zap.Int("epoch", epoch))
	c.resumeTimer.Reset(c.resumeTimeout)
}

// finishResume handles the server's answer to a resume request. On success
// the authoritative snapshot arrives as a regular room:state push right
// behind the ack; no join request is re-emitted.
func (c *Client) finishResume(payload protocol.AckPayload) {
	c.stopResumeTimer()

	c.mu.Lock()
	c.resumeAckID = 0
	c.mu.Unlock()

	if payload.OK {
		// The server may rotate the session token on resume.
		if payload.SessionID != "" {
			c.adoptIdentity(payload)
		}
		c.setResumeState(Resumed)
		c.feed.Push(notify.SeveritySuccess, "Session resumed")
		c.log.Info("session resumed")
		return
	}

	c.failResume("Could not rejoin your room: " + payload.Reason)
}

// resumeTimedOut fires when a resume request goes unanswered for the
// bounded wait; the attempt is treated exactly like a rejection so the UI
// can never hang in a loading state.
func (c *Client) resumeTimedOut() {
	c.mu.Lock()
	attempting := c.resumeState == ResumeAttempting
	c.resumeAckID = 0
	c.mu.Unlock()
	if !attempting {
		return
	}
	c.failResume("Could not rejoin your room: no answer from server")
}

func (c *Client) failResume(text string) {
	if err := c.store.Clear(); err != nil {
		c.log.Warn("failed to clear stale session", zap.Error(err))
	}
	c.clearIdentity()
	c.setResumeState(ResumeFailed)
	c.feed.Push(notify.SeverityError, text)
	c.log.Warn("resume failed", zap.String("reason", text))
}

func (c *Client) setResumeState(s ResumeState) {
	c.mu.Lock()
	c.resumeState = s
	c.mu.Unlock()
}

// ResumeStatus returns the current resumption state.
func (c *Client) ResumeStatus() ResumeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resumeState
}

func (c *Client) stopResumeTimer() {
	if c.resumeTimer == nil {
		return
	}
	if !c.resumeTimer.Stop() {
		select {
		case <-c.resumeTimer.C:
		default:
		}
	}
}
