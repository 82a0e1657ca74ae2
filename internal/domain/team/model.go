package team

import "fmt"

// Team is a club as identified across seasons.
type Team struct {
	ID             string
	ExternalID     string
	Name           string
	NormalizedName string
	NaturalKey     string
}

// Alias records a name a team was reported under in a season.
type Alias struct {
	TeamID         string
	SeasonID       string
	Name           string
	NormalizedName string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.NaturalKey == "" {
		return fmt.Errorf("team natural key is required")
	}

	return nil
}
