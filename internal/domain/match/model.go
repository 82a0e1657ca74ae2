package match

import (
	"fmt"
	"time"
)

// Match is one game. It is created on first encounter and never deleted.
type Match struct {
	ID         string
	SeasonID   string
	HomeTeamID string
	AwayTeamID string
	MatchDate  *time.Time
	// RosterSize counts the players the source document lists for both sides.
	RosterSize int
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.SeasonID == "" {
		return fmt.Errorf("match season id is required")
	}
	if m.HomeTeamID == "" || m.AwayTeamID == "" {
		return fmt.Errorf("match teams are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match home and away team must differ")
	}
	if m.RosterSize < 0 {
		return fmt.Errorf("match roster size must be >= 0")
	}

	return nil
}
