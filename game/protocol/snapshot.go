package protocol

// Phase is the stage of the game state machine as reported by the server.
type Phase string

const (
	PhaseLobby       Phase = "lobby"
	PhaseProposeTeam Phase = "proposeTeam"
	PhaseVoteTeam    Phase = "voteTeam"
	PhaseMission     Phase = "mission"
	PhaseReveal      Phase = "reveal"
)

// Valid reports whether the phase is one the server is allowed to emit.
func (p Phase) Valid() bool {
	switch p {
	case PhaseLobby, PhaseProposeTeam, PhaseVoteTeam, PhaseMission, PhaseReveal:
		return true
	}
	return false
}

// InGame reports whether a game is running, i.e. the room has left the
// lobby.
func (p Phase) InGame() bool {
	return p.Valid() && p != PhaseLobby
}

// Player is one seat in the room's ordered player list.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MissionResult is the recorded outcome of one completed mission.
type MissionResult struct {
	Fails   int  `json:"fails"`
	Success bool `json:"success"`
}

// RoomSnapshot mirrors the server's authoritative room state. It is
// replaced wholesale on every room:state push and must be treated as
// read-only by consumers.
type RoomSnapshot struct {
	Code              string          `json:"code"`
	CreatorID         string          `json:"creatorId"`
	Players           []Player        `json:"players"`
	Phase             Phase           `json:"phase"`
	LeaderIndex       int             `json:"leaderIndex"`
	TeamSizes         []int           `json:"teamSizes"`
	FailsRequired     []int           `json:"failsRequired"`
	ProposedTeam      []string        `json:"proposedTeam"`
	MissionResults    []MissionResult `json:"missionResults"`
	RejectedProposals int             `json:"rejectedProposals"`
	Voted             []string        `json:"voted"`
	Acted             []string        `json:"acted"`
}

// CurrentMission is the index of the mission being played, derived from how
// many results have been recorded.
func (s *RoomSnapshot) CurrentMission() int {
	return len(s.MissionResults)
}

// CurrentTeamSize returns the required team size for the mission in
// progress, or 0 when the tables don't cover it.
func (s *RoomSnapshot) CurrentTeamSize() int {
	m := s.CurrentMission()
	if m < 0 || m >= len(s.TeamSizes) {
		return 0
	}
	return s.TeamSizes[m]
}

// PlayerByID looks a player up in the roster.
func (s *RoomSnapshot) PlayerByID(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Leader returns the current leader, if the leader index is in range.
func (s *RoomSnapshot) Leader() (Player, bool) {
	if s.LeaderIndex < 0 || s.LeaderIndex >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.LeaderIndex], true
}

// Role is the side a player was dealt.
type Role string

const (
	RoleSpy        Role = "spy"
	RoleResistance Role = "resistance"
)

// RoleAssignment is the private role push delivered at most once per game.
// Spies is populated only for spy assignments.
type RoleAssignment struct {
	Role  Role     `json:"role"`
	Spies []string `json:"spies,omitempty"`
}
