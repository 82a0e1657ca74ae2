package player

import "fmt"

// Player is a person as identified across teams and seasons.
type Player struct {
	ID             string
	ExternalID     string
	Name           string
	NormalizedName string
	NaturalKey     string
}

// Registration ties a player to a team for one season under the reported name.
type Registration struct {
	PlayerID       string
	TeamID         string
	SeasonID       string
	Name           string
	NormalizedName string
	ShirtNumber    *int
}

// Registered is a registration joined with its player.
type Registered struct {
	Player       Player
	Registration Registration
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" && p.ExternalID == "" {
		return fmt.Errorf("player name or external id is required")
	}
	if p.NaturalKey == "" {
		return fmt.Errorf("player natural key is required")
	}

	return nil
}
