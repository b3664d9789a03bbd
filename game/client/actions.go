package client

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/QuintaPe/resistance-client/game/notify"
	"github.com/QuintaPe/resistance-client/game/protocol"
	"github.com/QuintaPe/resistance-client/game/validate"
)

// ErrNotInRoom is returned by room-scoped actions before a room is joined.
var ErrNotInRoom = errors.New("not in a room")

// dispatch sends a one-shot request and registers its acknowledgement
// handler. There is no optimistic local state change; effects show up in a
// later room snapshot push.
func (c *Client) dispatch(eventType string, payload interface{}, handler ackHandler) error {
	env, err := protocol.NewEnvelope(eventType, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.nextID++
	env.ID = c.nextID
	if handler != nil {
		c.acks[env.ID] = handler
	}
	c.mu.Unlock()

	if err := c.transport.Send(env); err != nil {
		c.mu.Lock()
		delete(c.acks, env.ID)
		c.mu.Unlock()
		return fmt.Errorf("failed to send %s: %w", eventType, err)
	}
	return nil
}

// plainAck adapts a caller's AckFunc to the internal handler shape.
func plainAck(ack AckFunc) ackHandler {
	if ack == nil {
		return nil
	}
	return func(p protocol.AckPayload) { ack(p.OK, p.Reason) }
}

// identityAck persists the session triple carried on successful create,
// join and resume acks before invoking the caller's callback.
func (c *Client) identityAck(ack AckFunc) ackHandler {
	return func(p protocol.AckPayload) {
		if p.OK {
			c.adoptIdentity(p)
		}
		if ack != nil {
			ack(p.OK, p.Reason)
		}
	}
}

// currentRoomCode returns the room this client belongs to.
func (c *Client) currentRoomCode() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.roomCode == "" {
		return "", ErrNotInRoom
	}
	return c.roomCode, nil
}

// CreateRoom opens a new room with the caller as creator. On success the
// ack carries the session triple, which is persisted before ack runs.
func (c *Client) CreateRoom(name string, ack AckFunc) error {
	if err := validate.DisplayName(name); err != nil {
		return err
	}
	return c.dispatch(protocol.EventCreateRoom,
		protocol.CreateRoomRequest{Name: name}, c.identityAck(ack))
}

// JoinRoom joins an existing room by code.
func (c *Client) JoinRoom(roomCode, name string, ack AckFunc) error {
	if err := validate.RoomCode(roomCode); err != nil {
		return err
	}
	if err := validate.DisplayName(name); err != nil {
		return err
	}
	return c.dispatch(protocol.EventJoinRoom,
		protocol.JoinRoomRequest{RoomCode: roomCode, Name: name}, c.identityAck(ack))
}

// StartGame asks the server to deal roles and leave the lobby. Only the
// creator may start; the server decides.
func (c *Client) StartGame(ack AckFunc) error {
	code, err := c.currentRoomCode()
	if err != nil {
		return err
	}
	return c.dispatch(protocol.EventStartGame,
		protocol.StartGameRequest{RoomCode: code}, plainAck(ack))
}

// ProposeTeam submits the leader's team selection. Cardinality and
// membership are pre-checked against the current snapshot purely to save a
// round-trip; the server is still the authority.
func (c *Client) ProposeTeam(members []string, ack AckFunc) error {
	code, err := c.currentRoomCode()
	if err != nil {
		return err
	}

	teamSize := 0
	var roster []string
	if snap, ok := c.room.Current(); ok {
		teamSize = snap.CurrentTeamSize()
		for _, p := range snap.Players {
			roster = append(roster, p.ID)
		}
	}
	if err := validate.TeamSelection(members, teamSize, roster); err != nil {
		return err
	}

	return c.dispatch(protocol.EventProposeTeam,
		protocol.ProposeTeamRequest{RoomCode: code, Members: members}, plainAck(ack))
}

// VoteTeam records the local player's vote on the proposed team.
func (c *Client) VoteTeam(approve bool, ack AckFunc) error {
	code, err := c.currentRoomCode()
	if err != nil {
		return err
	}
	return c.dispatch(protocol.EventVoteTeam,
		protocol.VoteTeamRequest{RoomCode: code, Approve: approve}, plainAck(ack))
}

// MissionAct plays the local player's mission card.
func (c *Client) MissionAct(success bool, ack AckFunc) error {
	code, err := c.currentRoomCode()
	if err != nil {
		return err
	}
	return c.dispatch(protocol.EventMissionAct,
		protocol.MissionActRequest{RoomCode: code, Success: success}, plainAck(ack))
}

// RequestRole asks for the private role assignment mid-game.
func (c *Client) RequestRole(ack AckFunc) error {
	code, err := c.currentRoomCode()
	if err != nil {
		return err
	}
	return c.dispatch(protocol.EventRequestRole,
		protocol.RoleRequest{RoomCode: code}, plainAck(ack))
}

// KickPlayer asks the server to remove a player from the room.
func (c *Client) KickPlayer(targetID string, ack AckFunc) error {
	code, err := c.currentRoomCode()
	if err != nil {
		return err
	}
	if err := validate.PlayerID(targetID); err != nil {
		return err
	}
	return c.dispatch(protocol.EventKickPlayer,
		protocol.KickRequest{RoomCode: code, TargetID: targetID}, plainAck(ack))
}

// ChangeLeader moves leadership to the player at the given roster index.
func (c *Client) ChangeLeader(leaderIndex int, ack AckFunc) error {
	code, err := c.currentRoomCode()
	if err != nil {
		return err
	}
	if snap, ok := c.room.Current(); ok {
		if leaderIndex < 0 || leaderIndex >= len(snap.Players) {
			return fmt.Errorf("leader index %d out of range", leaderIndex)
		}
	}
	return c.dispatch(protocol.EventChangeLeader,
		protocol.ChangeLeaderRequest{RoomCode: code, LeaderIndex: leaderIndex}, plainAck(ack))
}

// RestartGame starts a fresh game with the current roster.
func (c *Client) RestartGame(ack AckFunc) error {
	code, err := c.currentRoomCode()
	if err != nil {
		return err
	}
	return c.dispatch(protocol.EventRestartGame,
		protocol.RestartRequest{RoomCode: code}, plainAck(ack))
}

// ReturnToLobby sends the room back to the lobby phase.
func (c *Client) ReturnToLobby(ack AckFunc) error {
	code, err := c.currentRoomCode()
	if err != nil {
		return err
	}
	return c.dispatch(protocol.EventReturnToLobby,
		protocol.ReturnToLobbyRequest{RoomCode: code}, plainAck(ack))
}

// LeaveRoom leaves the current room for good. The stored session is
// cleared before anything is sent so a resume can never bring the room
// back, even if the leave notification itself is lost.
func (c *Client) LeaveRoom(ack AckFunc) error {
	c.mu.Lock()
	code := c.roomCode
	playerID := c.playerID
	c.mu.Unlock()
	if code == "" {
		return ErrNotInRoom
	}

	if err := c.store.Clear(); err != nil {
		c.log.Warn("failed to clear session on leave", zap.Error(err))
	}
	c.room.Clear()
	c.presence.Reset()
	c.clearIdentity()
	c.setResumeState(ResumeNoSession)
	c.feed.Push(notify.SeverityInfo, "You left the room")

	return c.dispatch(protocol.EventLeaveRoom,
		protocol.LeaveRequest{RoomCode: code, PlayerID: playerID}, plainAck(ack))
}
