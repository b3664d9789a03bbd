package protocol

import "testing"

func TestEnvelope_EncodeDecode(t *testing.T) {
	env, err := NewEnvelope(EventJoinRoom, JoinRoomRequest{RoomCode: "ABC12", Name: "Ana"})
	if err != nil {
		t.Fatalf("Failed to build envelope: %v", err)
	}
	env.ID = 42

	data, err := Encode(env)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if decoded.Type != EventJoinRoom || decoded.ID != 42 {
		t.Errorf("Unexpected framing: %+v", decoded)
	}

	var req JoinRoomRequest
	if err := DecodePayload(decoded.Data, &req); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if req.RoomCode != "ABC12" || req.Name != "Ana" {
		t.Errorf("Payload round-trip lost data: %+v", req)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode([]byte("{broken")); err == nil {
		t.Error("Expected error for malformed JSON")
	}
	if _, err := Decode([]byte(`{"id":1}`)); err == nil {
		t.Error("Expected error for missing type tag")
	}
}

func TestDecodePayload_Snapshot(t *testing.T) {
	env, err := NewEnvelope(EventRoomState, RoomSnapshot{
		Code:        "XYZ99",
		CreatorID:   "p1",
		Phase:       PhaseVoteTeam,
		LeaderIndex: 2,
		Players: []Player{
			{ID: "p1", Name: "Ana"},
			{ID: "p2", Name: "Bruno"},
			{ID: "p3", Name: "Clara"},
		},
		TeamSizes:         []int{2, 3, 2, 3, 3},
		FailsRequired:     []int{1, 1, 1, 2, 1},
		ProposedTeam:      []string{"p1", "p3"},
		MissionResults:    []MissionResult{{Fails: 1, Success: false}},
		RejectedProposals: 3,
		Voted:             []string{"p1"},
	})
	if err != nil {
		t.Fatalf("Failed to build snapshot envelope: %v", err)
	}

	// Through the wire and back, as the client receives it.
	data, _ := Encode(env)
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Failed to decode frame: %v", err)
	}

	var snap RoomSnapshot
	if err := DecodePayload(decoded.Data, &snap); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if snap.Phase != PhaseVoteTeam || snap.LeaderIndex != 2 || len(snap.Players) != 3 {
		t.Errorf("Snapshot lost fields: %+v", snap)
	}
	if snap.CurrentMission() != 1 || snap.CurrentTeamSize() != 3 {
		t.Errorf("Mission derivation wrong: mission %d size %d", snap.CurrentMission(), snap.CurrentTeamSize())
	}
	if len(snap.MissionResults) != 1 || snap.MissionResults[0].Fails != 1 {
		t.Errorf("Mission results lost: %+v", snap.MissionResults)
	}
}

func TestPhase(t *testing.T) {
	for _, p := range []Phase{PhaseLobby, PhaseProposeTeam, PhaseVoteTeam, PhaseMission, PhaseReveal} {
		if !p.Valid() {
			t.Errorf("Phase %q should be valid", p)
		}
	}
	if Phase("ending").Valid() {
		t.Error("Unknown phase accepted")
	}
	if PhaseLobby.InGame() {
		t.Error("Lobby is not in-game")
	}
	if !PhaseMission.InGame() {
		t.Error("Mission is in-game")
	}
}

func TestSnapshot_Lookups(t *testing.T) {
	snap := RoomSnapshot{
		Players:     []Player{{ID: "p1", Name: "Ana"}, {ID: "p2", Name: "Bruno"}},
		LeaderIndex: 1,
	}

	if p, ok := snap.PlayerByID("p2"); !ok || p.Name != "Bruno" {
		t.Errorf("PlayerByID(p2) = %+v, %v", p, ok)
	}
	if _, ok := snap.PlayerByID("p9"); ok {
		t.Error("Expected miss for unknown id")
	}
	if leader, ok := snap.Leader(); !ok || leader.ID != "p2" {
		t.Errorf("Leader() = %+v, %v", leader, ok)
	}

	snap.LeaderIndex = 5
	if _, ok := snap.Leader(); ok {
		t.Error("Out-of-range leader index must not resolve")
	}
}
