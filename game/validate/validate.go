// Package validate pre-filters obviously invalid input before it is sent to
// the server. The server remains the authority on every rule; these checks
// only exist to avoid needless round-trips.
package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	// RoomCodeLength is the fixed length of server-issued room codes.
	RoomCodeLength = 5

	maxDisplayName = 24
)

// RoomCode checks the shape of a room code: exactly five upper-case
// letters or digits.
func RoomCode(code string) error {
	if len(code) != RoomCodeLength {
		return fmt.Errorf("room code must be %d characters, got %d", RoomCodeLength, len(code))
	}
	for _, r := range code {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("room code may only contain upper-case letters and digits")
		}
	}
	return nil
}

// DisplayName checks that a player name is non-empty, printable and not
// absurdly long.
func DisplayName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("display name cannot be empty")
	}
	if len(trimmed) > maxDisplayName {
		return fmt.Errorf("display name cannot exceed %d characters", maxDisplayName)
	}
	for _, r := range trimmed {
		if !unicode.IsPrint(r) {
			return fmt.Errorf("display name contains non-printable characters")
		}
	}
	return nil
}

// PlayerID checks that an id has the server's UUID shape.
func PlayerID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid player id %q: %w", id, err)
	}
	return nil
}

// TeamSelection checks a proposed team against the required size and the
// room roster: exact cardinality, no duplicates, every member seated.
func TeamSelection(members []string, teamSize int, roster []string) error {
	if teamSize > 0 && len(members) != teamSize {
		return fmt.Errorf("team needs exactly %d members, got %d", teamSize, len(members))
	}
	if len(members) == 0 {
		return fmt.Errorf("team cannot be empty")
	}

	seated := make(map[string]bool, len(roster))
	for _, id := range roster {
		seated[id] = true
	}

	seen := make(map[string]bool, len(members))
	for _, id := range members {
		if seen[id] {
			return fmt.Errorf("player %s selected twice", id)
		}
		seen[id] = true
		if len(roster) > 0 && !seated[id] {
			return fmt.Errorf("player %s is not in the room", id)
		}
	}
	return nil
}
