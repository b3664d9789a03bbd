package state

import (
	"testing"

	"github.com/QuintaPe/resistance-client/game/protocol"
)

func TestRoom_TotalReplacement(t *testing.T) {
	room := NewRoom()

	if _, ok := room.Current(); ok {
		t.Fatal("Expected no snapshot before the first push")
	}

	first := &protocol.RoomSnapshot{
		Code:  "ABC12",
		Phase: protocol.PhaseLobby,
		Players: []protocol.Player{
			{ID: "p1", Name: "Ana"},
			{ID: "p2", Name: "Bruno"},
		},
	}
	second := &protocol.RoomSnapshot{
		Code:        "ABC12",
		Phase:       protocol.PhaseProposeTeam,
		LeaderIndex: 1,
		Players: []protocol.Player{
			{ID: "p1", Name: "Ana"},
		},
	}

	room.Replace(first)
	room.Replace(second)

	got, ok := room.Current()
	if !ok {
		t.Fatal("Expected a snapshot after pushes")
	}
	if got != second {
		t.Errorf("Expected the second push to fully replace the first, got %+v", got)
	}
	if len(got.Players) != 1 || got.Phase != protocol.PhaseProposeTeam {
		t.Errorf("Second snapshot leaked fields from the first: %+v", got)
	}
}

func TestRoom_Subscribe(t *testing.T) {
	room := NewRoom()
	updates := room.Subscribe()

	snap := &protocol.RoomSnapshot{Code: "XYZ99", Phase: protocol.PhaseLobby}
	room.Replace(snap)

	select {
	case got := <-updates:
		if got != snap {
			t.Errorf("Expected the pushed snapshot, got %+v", got)
		}
	default:
		t.Fatal("Expected an update on the subscription channel")
	}
}

func TestRoom_SlowSubscriberDoesNotBlock(t *testing.T) {
	room := NewRoom()
	room.Subscribe() // never drained

	// More pushes than the subscription buffer holds; Replace must not stall.
	for i := 0; i < 20; i++ {
		room.Replace(&protocol.RoomSnapshot{Code: "ABC12", RejectedProposals: i})
	}

	got, ok := room.Current()
	if !ok || got.RejectedProposals != 19 {
		t.Errorf("Expected the latest push to win, got %+v", got)
	}
}

func TestRoom_Role(t *testing.T) {
	room := NewRoom()

	if _, ok := room.Role(); ok {
		t.Fatal("Expected no role before assignment")
	}

	room.SetRole(protocol.RoleAssignment{Role: protocol.RoleSpy, Spies: []string{"p1", "p3"}})
	role, ok := room.Role()
	if !ok || role.Role != protocol.RoleSpy || len(role.Spies) != 2 {
		t.Errorf("Expected stored spy assignment, got %+v ok=%v", role, ok)
	}

	room.ClearRole()
	if _, ok := room.Role(); ok {
		t.Error("Expected role to be cleared")
	}
}

func TestRoom_ClearDropsEverything(t *testing.T) {
	room := NewRoom()
	room.Replace(&protocol.RoomSnapshot{Code: "ABC12"})
	room.SetRole(protocol.RoleAssignment{Role: protocol.RoleResistance})

	room.Clear()

	if _, ok := room.Current(); ok {
		t.Error("Expected snapshot to be cleared")
	}
	if _, ok := room.Role(); ok {
		t.Error("Expected role to be cleared")
	}
}
