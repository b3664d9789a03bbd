package protocol

// Client -> server request types. Each expects an "ack" reply carrying the
// request's envelope id.
const (
	EventCreateRoom    = "room:create"
	EventJoinRoom      = "room:join"
	EventResumeSession = "session:resume"
	EventStartGame     = "game:start"
	EventProposeTeam   = "team:propose"
	EventVoteTeam      = "team:vote"
	EventMissionAct    = "mission:act"
	EventRequestRole   = "role:request"
	EventKickPlayer    = "player:kick"
	EventChangeLeader  = "leader:change"
	EventRestartGame   = "game:restart"
	EventReturnToLobby = "room:lobby"
	EventLeaveRoom     = "room:leave"
)

// Server -> client types. Pushes are one-way; only "ack" answers a request.
const (
	EventAck                = "ack"
	EventRoomState          = "room:state"
	EventRoleAssign         = "role:assign"
	EventPlayerDisconnected = "player:disconnected"
	EventPlayerReconnected  = "player:reconnected"
	EventPlayerKicked       = "player:kicked"
	EventCreatorChanged     = "creator:changed"
)

// CreateRoomRequest asks the server to open a new room with the sender as
// its creator.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// JoinRoomRequest attaches the sender to an existing room by code.
type JoinRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

// ResumeRequest re-attaches a previously issued session to its room after a
// new connection is established. The server either accepts the triple and
// pushes a current room snapshot, or rejects it.
type ResumeRequest struct {
	RoomCode  string `json:"roomCode"`
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
}

// StartGameRequest asks the server to deal roles and begin the game.
type StartGameRequest struct {
	RoomCode string `json:"roomCode"`
}

// ProposeTeamRequest submits the leader's ordered team selection.
type ProposeTeamRequest struct {
	RoomCode string   `json:"roomCode"`
	Members  []string `json:"members"`
}

// VoteTeamRequest records the sender's vote on the proposed team.
type VoteTeamRequest struct {
	RoomCode string `json:"roomCode"`
	Approve  bool   `json:"approve"`
}

// MissionActRequest records the sender's mission card.
type MissionActRequest struct {
	RoomCode string `json:"roomCode"`
	Success  bool   `json:"success"`
}

// RoleRequest asks for the sender's role assignment mid-game.
type RoleRequest struct {
	RoomCode string `json:"roomCode"`
}

// KickRequest asks the server to remove a player from the room.
type KickRequest struct {
	RoomCode string `json:"roomCode"`
	TargetID string `json:"targetId"`
}

// ChangeLeaderRequest moves leadership to the player at the given index.
type ChangeLeaderRequest struct {
	RoomCode    string `json:"roomCode"`
	LeaderIndex int    `json:"leaderIndex"`
}

// RestartRequest starts a fresh game with the current roster.
type RestartRequest struct {
	RoomCode string `json:"roomCode"`
}

// ReturnToLobbyRequest sends the room back to the lobby phase.
type ReturnToLobbyRequest struct {
	RoomCode string `json:"roomCode"`
}

// LeaveRequest notifies the server that the sender is leaving for good.
type LeaveRequest struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// AckPayload is the server's answer to a request. SessionID, PlayerID and
// RoomCode are populated on successful create, join and resume acks so the
// client can persist its session triple.
type AckPayload struct {
	OK        bool   `json:"ok"`
	Reason    string `json:"reason,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	PlayerID  string `json:"playerId,omitempty"`
	RoomCode  string `json:"roomCode,omitempty"`
}

// PresencePush reports a single player dropping or regaining their server
// connection.
type PresencePush struct {
	PlayerID string `json:"playerId"`
}

// KickedPush is sent to the whole room when a player is removed.
type KickedPush struct {
	PlayerID string `json:"playerId"`
}

// CreatorChangedPush reports the room creator handing over or leaving.
type CreatorChangedPush struct {
	CreatorID string `json:"creatorId"`
}
